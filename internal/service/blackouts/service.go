package blackouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	blockedSlotRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/blocked_slot"
	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts/models"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// maxRangeDays ограничение длины периода в ListRange
const maxRangeDays = 366

// Service реестр административных блокировок
type Service struct {
	blockedSlotRepo BlockedSlotRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(blockedSlotRepo BlockedSlotRepository, logger Logger) *Service {
	return &Service{
		blockedSlotRepo: blockedSlotRepo,
		logger:          logger,
	}
}

// BlocksFor блокировки на дату, источник для резолвера свободных слотов
// Если в контексте открыта транзакция, чтение идёт в ней
func (s *Service) BlocksFor(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error) {
	blocks, err := s.blockedSlotRepo.GetByDate(ctx, date)
	if err != nil {
		s.logger.Error("BlocksFor: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: BlocksFor - repository error: %w", ErrInternal, err)
	}
	return blocks, nil
}

// Create блокирует весь день или интервал [start, end)
// Существующие записи не отменяются, блокировка влияет только на новые бронирования
func (s *Service) Create(ctx context.Context, req *models.CreateBlockedSlotRequest) (*models.BlockedSlotResponse, error) {
	s.logger.Info("Create: blocking date=%s, fullDay=%t", req.BlockedDate, req.IsFullDay)

	block, err := toDomainBlockedSlot(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.blockedSlotRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created blocked slot id=%s", created.ID)
	return models.FromDomainBlockedSlot(created), nil
}

// Delete снимает блокировку
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Delete: deleting blocked slot id=%s", id)

	if err := s.blockedSlotRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, blockedSlotRepo.ErrBlockedSlotNotFound) {
			s.logger.Warn("Delete: blocked slot id=%s not found", id)
			return ErrBlockedSlotNotFound
		}
		s.logger.Error("Delete: repository error for blocked slot id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	return nil
}

// ListRange блокировки за период включительно
func (s *Service) ListRange(ctx context.Context, req *models.ListBlockedSlotsRequest) (*models.BlockedSlotListResponse, error) {
	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if req.To.Before(req.From) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	if req.To.Sub(req.From) > maxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range must not exceed %d days", ErrInvalidInput, maxRangeDays)
	}

	blocks, err := s.blockedSlotRepo.GetByRange(ctx, req.From, req.To)
	if err != nil {
		s.logger.Error("ListRange: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRange - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockedSlotList(blocks), nil
}

// toDomainBlockedSlot валидирует запрос и собирает блокировку
func toDomainBlockedSlot(req *models.CreateBlockedSlotRequest) (*domain.BlockedSlot, error) {
	date, err := time.Parse(domain.DateFormat, req.BlockedDate)
	if err != nil {
		return nil, fmt.Errorf("%w: blockedDate must be YYYY-MM-DD", ErrInvalidInput)
	}

	if req.Reason != nil {
		reason := strings.TrimSpace(*req.Reason)
		if len(reason) > domain.MaxReasonLength {
			return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
		}
		req.Reason = &reason
	}

	block := &domain.BlockedSlot{
		BlockedDate: date,
		IsFullDay:   req.IsFullDay,
		Reason:      req.Reason,
	}

	if req.IsFullDay {
		return block, nil
	}

	if req.StartTime == nil || req.EndTime == nil {
		return nil, fmt.Errorf("%w: startTime and endTime are required for a partial block", ErrInvalidInput)
	}

	start, err := types.NewTimeStringFromString(*req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(*req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}

	if !start.IsBefore(end) {
		return nil, fmt.Errorf("%w: startTime %s must be before endTime %s", ErrInvalidTimeRange, start, end)
	}

	block.StartTime = start
	block.EndTime = end

	return block, nil
}
