package http

import (
	"net/http"

	"go-appointment-booking/internal/delivery/http/handler"
	"go-appointment-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Router struct {
	router                     *mux.Router
	log                        *logrus.Logger
	appointmentHandler         *handler.AppointmentHandler
	providerAppointmentHandler *handler.ProviderAppointmentHandler
	slotHandler                *handler.SlotHandler
	scheduleHandler            *handler.ScheduleHandler
	authMiddleware             *middleware.AuthMiddleware
	cors                       *cors.Cors
}

func NewRouter(
	log *logrus.Logger,
	appointmentHandler *handler.AppointmentHandler,
	providerAppointmentHandler *handler.ProviderAppointmentHandler,
	slotHandler *handler.SlotHandler,
	scheduleHandler *handler.ScheduleHandler,
	authMiddleware *middleware.AuthMiddleware,
	cors *cors.Cors,
) *Router {
	return &Router{
		router:                     mux.NewRouter(),
		log:                        log,
		appointmentHandler:         appointmentHandler,
		providerAppointmentHandler: providerAppointmentHandler,
		slotHandler:                slotHandler,
		scheduleHandler:            scheduleHandler,
		authMiddleware:             authMiddleware,
		cors:                       cors,
	}
}

// Setup registers the routes and returns the full middleware chain:
// tracing, request id, access log, CORS, then mux.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Provider availability (any authenticated user)
	providers := api.PathPrefix("/providers").Subrouter()
	providers.Use(r.authMiddleware.Authenticate)
	providers.HandleFunc("/{providerId}/slots", r.slotHandler.GetOpenSlots).Methods(http.MethodGet)
	providers.HandleFunc("/{providerId}/schedule", r.scheduleHandler.GetSchedule).Methods(http.MethodGet)

	// Patient routes
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/appointments", r.appointmentHandler.Book).Methods(http.MethodPost)
	patient.HandleFunc("/appointments", r.appointmentHandler.ListMine).Methods(http.MethodGet)

	// Provider dashboard
	provider := api.PathPrefix("/provider").Subrouter()
	provider.Use(r.authMiddleware.Authenticate)
	provider.Use(middleware.RequireProvider)
	provider.HandleFunc("/appointments", r.providerAppointmentHandler.List).Methods(http.MethodGet)
	provider.HandleFunc("/appointments/{id}/status", r.providerAppointmentHandler.SetStatus).Methods(http.MethodPatch)
	provider.HandleFunc("/appointments/{id}/history", r.providerAppointmentHandler.History).Methods(http.MethodGet)
	provider.HandleFunc("/schedule", r.scheduleHandler.UpdateSchedule).Methods(http.MethodPut)

	var h http.Handler = r.router
	h = r.cors.Handler(h)
	h = middleware.AccessLog(r.log)(h)
	h = middleware.RequestID(h)
	return otelhttp.NewHandler(h, "appointment-booking")
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
