package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments/models"
)

// Service сервис жизненного цикла записей
type Service struct {
	appointmentRepo AppointmentRepository
	roles           RoleChecker
	publisher       EventPublisher
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	roles RoleChecker,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		roles:           roles,
		publisher:       publisher,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Видеть запись может её владелец или администратор
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%s", id, userID)

	appt, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if appt.UserID != userID {
		isAdmin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			s.logger.Warn("GetByID: access denied for user=%s to appointment id=%s", userID, id)
			return nil, ErrAccessDenied
		}
	}

	return models.FromDomainAppointment(appt), nil
}

// GetUserAppointments возвращает записи пользователя, новые даты первыми
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%s, status=%v", req.UserID, req.Status)

	var status *domain.AppointmentStatus
	if req.Status != nil {
		parsed, err := domain.ParseAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserAppointments: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = &parsed
	}

	appointments, err := s.appointmentRepo.GetByUserID(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: fetched %d appointments for user=%s", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// ListAppointments список записей для администратора
// Без фильтра по статусу возвращает только активные, если не указан IncludeInactive
func (s *Service) ListAppointments(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListAppointments: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListAppointments: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAppointments: fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись по запросу её владельца
// Отменить можно только pending и confirmed; слот сразу становится свободным
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%s", id, userID)

	appt, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if appt.UserID != userID {
		s.logger.Warn("Cancel: user=%s is not the owner of appointment id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s", id, appt.Status)
		return nil, ErrCannotCancel
	}

	if err := s.transition(ctx, "Cancel", appt, domain.StatusCancelled); err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// UpdateStatus меняет статус записи по жизненному циклу (для администратора)
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%s to status=%s", id, req.Status)

	next, err := domain.ParseAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%s", req.Status, id)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appt, err := s.get(ctx, "UpdateStatus", id)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, "UpdateStatus", appt, next); err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, op string, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// transition применяет переход к appt и сохраняет его условным UPDATE.
// При успехе appt содержит новый статус, событие публикуется без гарантии доставки.
func (s *Service) transition(ctx context.Context, op string, appt *domain.Appointment, next domain.AppointmentStatus) error {
	previous := appt.Status

	if err := appt.TransitionTo(next); err != nil {
		s.logger.Warn("%s: appointment id=%s: %v", op, appt.ID, err)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, next)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appt.ID, previous, next); err != nil {
		appt.Status = previous
		if errors.Is(err, appointmentRepo.ErrStatusChanged) {
			s.logger.Warn("%s: appointment id=%s was modified concurrently", op, appt.ID)
			return ErrStatusChanged
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, appt.ID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: appointment id=%s moved %s -> %s", op, appt.ID, previous, next)

	if err := s.publisher.AppointmentStatusChanged(ctx, appt, previous); err != nil {
		s.logger.Warn("%s: failed to publish status change for appointment id=%s: %v", op, appt.ID, err)
	}

	return nil
}

func (s *Service) isAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	ok, err := s.roles.HasRole(ctx, userID, domain.RoleAdmin)
	if err != nil {
		s.logger.Error("isAdmin: failed to check role for user=%s: %v", userID, err)
		return false, fmt.Errorf("%w: isAdmin - role check: %v", ErrInternal, err)
	}
	return ok, nil
}
