package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidDate        = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput       = "некорректные данные записи"
	msgDateNotBookable    = "дата вне окна записи"
	msgServiceUnavailable = "услуга недоступна для записи"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgSlotTaken          = "выбранный временной слот уже занят"
	msgServiceNotFound    = "услуга не найдена"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, parseErrorMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		kind := createBooking.Classify(err)

		switch {
		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /appointments - Slot taken: user_id=%s, service_id=%s, date=%s, start=%s",
				userID, req.ServiceID, req.AppointmentDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Error("POST /appointments - Service not found (kind=%s): user_id=%s, service_id=%s",
				kind, userID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrDateNotBookable):
			h.logger.Warn("POST /appointments - Date not bookable: user_id=%s, date=%s", userID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateNotBookable)

		case errors.Is(err, createBooking.ErrServiceUnavailable):
			h.logger.Warn("POST /appointments - Service inactive: user_id=%s, service_id=%s", userID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceUnavailable)

		case errors.Is(err, createBooking.ErrInvalidSlot):
			h.logger.Warn("POST /appointments - Invalid slot: user_id=%s, start=%s", userID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment (kind=%s): user_id=%s, service_id=%s, error=%v",
				kind, userID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%s, user_id=%s, service_id=%s",
		result.ID, userID, result.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func parseErrorMessage(err error) string {
	var fe *fieldError
	if !errors.As(err, &fe) {
		return msgInvalidRequestBody
	}

	switch fe.field {
	case "serviceId":
		return msgInvalidServiceID
	case "appointmentDate":
		return msgInvalidDate
	case "startTime":
		return msgInvalidTime
	default:
		return msgInvalidRequestBody
	}
}
