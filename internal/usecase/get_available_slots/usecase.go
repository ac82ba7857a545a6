package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-DetailingService/internal/usecase/get_available_slots")

// UseCase use case для получения свободных слотов услуги на дату
// Состояния не хранит: каждый вызов заново читает записи и блокировки
type UseCase struct {
	serviceRepo      ServiceRepository
	appointmentRepo  AppointmentRepository
	blackouts        BlackoutRegistry
	policy           *domain.CalendarPolicy
	blockOverlapping bool
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	appointmentRepo AppointmentRepository,
	blackouts BlackoutRegistry,
	policy *domain.CalendarPolicy,
	blockOverlapping bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:      serviceRepo,
		appointmentRepo:  appointmentRepo,
		blackouts:        blackouts,
		policy:           policy,
		blockOverlapping: blockOverlapping,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "GetAvailableSlots")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	uc.logger.Info("GetAvailableSlots: service=%s, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date, uc.policy.Location)

	// 2. Дата вне окна — пустой ответ без обращения к БД
	if !uc.policy.InWindow(date, uc.timeProvider.Now()) {
		uc.logger.Info("GetAvailableSlots: date=%s is outside the booking window", date.Format(domain.DateFormat))
		return &Response{
			Date:      date,
			ServiceID: req.ServiceID,
			InWindow:  false,
			Slots:     []Slot{},
		}, nil
	}

	// 3. Получаем услугу, выключенную услугу не резолвим
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%s is not active", req.ServiceID)
		return nil, ErrServiceUnavailable
	}

	// 4. Записи и блокировки на дату читаем параллельно
	var (
		appointments []*domain.Appointment
		blocks       []*domain.BlockedSlot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appointments, err = uc.appointmentRepo.GetActiveByDate(gctx, date)
		if err != nil {
			return fmt.Errorf("failed to get appointments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		blocks, err = uc.blackouts.BlocksFor(gctx, date)
		if err != nil {
			return fmt.Errorf("failed to get blocked slots: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		uc.logger.Error("GetAvailableSlots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 5. Фильтруем расписание дня
	available := domain.ResolveAvailableSlots(domain.AvailabilityInput{
		Service:          service,
		Candidates:       uc.policy.DaySlots(service),
		Appointments:     appointments,
		Blocks:           blocks,
		BlockOverlapping: uc.blockOverlapping,
	})

	slots := make([]Slot, 0, len(available))
	for _, start := range available {
		end, err := service.EndTimeFor(start)
		if err != nil {
			continue
		}
		slots = append(slots, Slot{StartTime: start, EndTime: end})
	}

	uc.logger.Info("GetAvailableSlots: %d/%d slots available for service=%s, date=%s (appointments=%d, blocks=%d)",
		len(slots), len(uc.policy.Roster), req.ServiceID, date.Format(domain.DateFormat), len(appointments), len(blocks))

	return &Response{
		Date:            date,
		ServiceID:       service.ID,
		DurationMinutes: service.DurationMinutes,
		InWindow:        true,
		Slots:           slots,
	}, nil
}
