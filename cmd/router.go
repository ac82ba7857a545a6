package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	cancelAppointmentHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/cancel_appointment"
	createBlockedSlotHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/create_blocked_slot"
	createBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/create_booking"
	createServiceHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/create_service"
	deleteBlockedSlotHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/delete_blocked_slot"
	getAppointmentHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_available_slots"
	getProfileHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_profile"
	getServiceHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_service"
	getUserAppointmentsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_user_appointments"
	listAllServicesHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/list_all_services"
	listAppointmentsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/list_appointments"
	listBlockedSlotsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/list_blocked_slots"
	listClientsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/list_clients"
	listServicesHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/list_services"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/update_appointment_status"
	updateServiceHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/update_service"
	upsertProfileHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/upsert_profile"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/config"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	appointmentsService "github.com/m04kA/SMC-DetailingService/internal/service/appointments"
	blackoutsService "github.com/m04kA/SMC-DetailingService/internal/service/blackouts"
	catalogService "github.com/m04kA/SMC-DetailingService/internal/service/catalog"
	profilesService "github.com/m04kA/SMC-DetailingService/internal/service/profiles"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/metrics"
)

// healthChecker проверка доступности зависимостей для /health
type healthChecker interface {
	PingContext(ctx context.Context) error
}

type routerDeps struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	roles   middleware.RoleChecker
	limiter middleware.Limiter
	keys    *middleware.ClientKeys
	health  healthChecker

	createBooking     createBookingHandler.CreateBookingUseCase
	getAvailableSlots getAvailableSlotsHandler.GetAvailableSlotsUseCase
	appointments      *appointmentsService.Service
	catalog           *catalogService.Service
	blackouts         *blackoutsService.Service
	profiles          *profilesService.Service
}

// newRouter собирает маршруты /api/v1 и оборачивает их в otelhttp и CORS
func newRouter(d routerDeps) http.Handler {
	log := d.log

	// Handlers
	listServices := listServicesHandler.NewHandler(d.catalog, log)
	getService := getServiceHandler.NewHandler(d.catalog, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(d.getAvailableSlots, log)

	createBooking := createBookingHandler.NewHandler(d.createBooking, log)
	getAppointment := getAppointmentHandler.NewHandler(d.appointments, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(d.appointments, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(d.appointments, log)
	getProfile := getProfileHandler.NewHandler(d.profiles, log)
	upsertProfile := upsertProfileHandler.NewHandler(d.profiles, log)

	listAppointments := listAppointmentsHandler.NewHandler(d.appointments, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(d.appointments, log)
	listAllServices := listAllServicesHandler.NewHandler(d.catalog, log)
	createService := createServiceHandler.NewHandler(d.catalog, log)
	updateService := updateServiceHandler.NewHandler(d.catalog, log)
	listBlockedSlots := listBlockedSlotsHandler.NewHandler(d.blackouts, log)
	createBlockedSlot := createBlockedSlotHandler.NewHandler(d.blackouts, log)
	deleteBlockedSlot := deleteBlockedSlotHandler.NewHandler(d.blackouts, log)
	listClients := listClientsHandler.NewHandler(d.profiles, log)

	r := mux.NewRouter()

	if d.metrics != nil {
		r.Use(middleware.MetricsMiddleware(d.metrics))
		r.Handle(d.cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", d.cfg.Metrics.Path)
	}

	r.HandleFunc("/health", healthHandler(d.health)).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", getService.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Запись ограничена по частоте: это единственная операция, конкурирующая за слот
	var createBookingRoute http.Handler = http.HandlerFunc(createBooking.Handle)
	if d.cfg.RateLimit.Enabled {
		createBookingRoute = middleware.RateLimit(d.limiter, d.keys, d.cfg.RateLimit.FailOpen, log)(createBookingRoute)
	}
	protected.Handle("/appointments", createBookingRoute).Methods(http.MethodPost)

	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me/appointments", getUserAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/profiles/me", getProfile.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/profiles/me", upsertProfile.Handle).Methods(http.MethodPut)

	// ============================================================
	// ADMIN ROUTES (роль admin)
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(d.roles, domain.RoleAdmin, log))
	if d.cfg.RateLimit.Enabled {
		admin.Use(middleware.RateLimit(d.limiter, d.keys, d.cfg.RateLimit.FailOpen, log))
	}

	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/services", listAllServices.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/blocked-slots", listBlockedSlots.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/blocked-slots", createBlockedSlot.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/blocked-slots/{blockedSlotId}", deleteBlockedSlot.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/clients", listClients.Handle).Methods(http.MethodGet)

	traced := otelhttp.NewHandler(r, d.cfg.Metrics.ServiceName)

	return cors.New(cors.Options{
		AllowedOrigins:   d.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", middleware.UserIDHeader},
		AllowCredentials: true,
	}).Handler(traced)
}

func healthHandler(checker healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.PingContext(ctx); err != nil {
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
