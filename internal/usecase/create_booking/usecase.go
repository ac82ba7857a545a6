package create_booking

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking")

// UseCase use case для записи клиента на услугу
type UseCase struct {
	appointmentRepo  AppointmentRepository
	blackouts        BlackoutRegistry
	serviceRepo      ServiceRepository
	txManager        TransactionManager
	publisher        EventPublisher
	outcomes         OutcomeRecorder
	policy           *domain.CalendarPolicy
	blockOverlapping bool
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	blackouts BlackoutRegistry,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	outcomes OutcomeRecorder,
	policy *domain.CalendarPolicy,
	blockOverlapping bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		blackouts:        blackouts,
		serviceRepo:      serviceRepo,
		txManager:        txManager,
		publisher:        publisher,
		outcomes:         outcomes,
		policy:           policy,
		blockOverlapping: blockOverlapping,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case записи
// Проверки идут в порядке: форма запроса, окно дат, активность услуги, слот из расписания,
// свободен ли слот. Последняя проверка и вставка выполняются в одной сериализуемой транзакции,
// а уникальный индекс по активным слотам отсекает гонку, если она всё-таки прошла.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "CreateBooking")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
		uc.outcomes.ObserveBooking(string(Classify(err)))
	}()

	uc.logger.Info("CreateBooking: user=%s, service=%s, date=%s, time=%s",
		req.UserID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	date := domain.DateOnly(req.Date, uc.policy.Location)

	// 2. (a) Дата в окне бронирования
	if !uc.policy.InWindow(date, now) {
		window := uc.policy.LegalWindow(now)
		uc.logger.Warn("CreateBooking: date=%s outside window [%s, %s]", date.Format(domain.DateFormat),
			window.Earliest.Format(domain.DateFormat), window.Latest.Format(domain.DateFormat))
		return nil, ErrDateNotBookable
	}

	// 3. (b) Услуга существует и активна
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Error("CreateBooking: booking against unknown service id=%s", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%s is not active", req.ServiceID)
		return nil, ErrServiceUnavailable
	}

	// 4. (c) Время из расписания дня
	if !uc.policy.IsRosterSlot(req.StartTime) {
		uc.logger.Warn("CreateBooking: time=%s is not in the day roster", req.StartTime)
		return nil, ErrInvalidSlot
	}

	// Окончание считается от длительности услуги, переход через полночь не допускается
	endTime, err := service.EndTimeFor(req.StartTime)
	if err != nil {
		uc.logger.Warn("CreateBooking: service id=%s (%d min) does not fit after %s: %v",
			req.ServiceID, service.DurationMinutes, req.StartTime, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	var created *domain.Appointment

	// 5. (d) Повторная проверка доступности и вставка в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Активные записи на дату (FOR UPDATE) и блокировки
		appointments, err := uc.appointmentRepo.GetActiveByDate(txCtx, date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		blocks, err := uc.blackouts.BlocksFor(txCtx, date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get blocked slots: %v", err)
			return fmt.Errorf("%w: failed to get blocked slots: %w", ErrInternal, err)
		}

		// 5.2. Слот должен быть среди свободных
		available := domain.ResolveAvailableSlots(domain.AvailabilityInput{
			Service:          service,
			Candidates:       uc.policy.DaySlots(service),
			Appointments:     appointments,
			Blocks:           blocks,
			BlockOverlapping: uc.blockOverlapping,
		})

		if !domain.ContainsSlot(available, req.StartTime) {
			uc.logger.Warn("CreateBooking: slot %s %s is taken or blocked", date.Format(domain.DateFormat), req.StartTime)
			return ErrSlotTaken
		}

		// 5.3. Вставляем запись в статусе pending
		appt, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			UserID:          req.UserID,
			ServiceID:       service.ID,
			AppointmentDate: date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			Status:          domain.StatusPending,
			Notes:           req.Notes,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: slot %s %s lost to a concurrent booking", date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created appointment id=%s for %s %s-%s",
		created.ID, date.Format(domain.DateFormat), created.StartTime, created.EndTime)

	// Событие best-effort: запись уже зафиксирована
	if err := uc.publisher.AppointmentBooked(ctx, created); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for appointment id=%s: %v", created.ID, err)
	}

	return &Response{
		ID:              created.ID,
		UserID:          created.UserID,
		ServiceID:       created.ServiceID,
		ServiceName:     service.Name,
		ServicePrice:    service.Price,
		AppointmentDate: created.AppointmentDate,
		StartTime:       created.StartTime,
		EndTime:         created.EndTime,
		DurationMinutes: service.DurationMinutes,
		Status:          string(created.Status),
		Notes:           created.Notes,
		CreatedAt:       created.CreatedAt,
		UpdatedAt:       created.UpdatedAt,
	}, nil
}
