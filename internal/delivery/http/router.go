package http

import (
	"net/http"

	"studio-booking/internal/delivery/http/handler"
	"studio-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router             *mux.Router
	appointmentHandler *handler.AppointmentHandler
	adminHandler       *handler.AdminHandler
	reviewHandler      *handler.ReviewHandler
	contactHandler     *handler.ContactHandler
	serviceHandler     *handler.ServiceHandler
	authHandler        *handler.AuthHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	requestMiddleware  *middleware.RequestMiddleware
	rateLimiter        *middleware.RateLimiter
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	adminHandler *handler.AdminHandler,
	reviewHandler *handler.ReviewHandler,
	contactHandler *handler.ContactHandler,
	serviceHandler *handler.ServiceHandler,
	authHandler *handler.AuthHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	requestMiddleware *middleware.RequestMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		appointmentHandler: appointmentHandler,
		adminHandler:       adminHandler,
		reviewHandler:      reviewHandler,
		contactHandler:     contactHandler,
		serviceHandler:     serviceHandler,
		authHandler:        authHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		requestMiddleware:  requestMiddleware,
		rateLimiter:        rateLimiter,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	admin := r.authMiddleware.Authenticate
	limited := r.rateLimiter.Limit

	// Appointments: public reads and booking, admin changes on the same paths
	api.Handle("/appointments", r.authMiddleware.Identify(http.HandlerFunc(r.appointmentHandler.GetAppointments))).Methods(http.MethodGet)
	api.Handle("/appointments", limited(http.HandlerFunc(r.appointmentHandler.CreateAppointment))).Methods(http.MethodPost)
	api.Handle("/appointments", admin(http.HandlerFunc(r.appointmentHandler.Update))).Methods(http.MethodPut)
	api.Handle("/appointments", admin(http.HandlerFunc(r.appointmentHandler.Delete))).Methods(http.MethodDelete)
	api.Handle("/appointments/status", admin(http.HandlerFunc(r.appointmentHandler.UpdateStatus))).Methods(http.MethodPost)
	api.Handle("/appointments/delete", admin(http.HandlerFunc(r.appointmentHandler.DeleteByID))).Methods(http.MethodPost)
	api.HandleFunc("/appointments/blocked", r.appointmentHandler.GetBlockedSlots).Methods(http.MethodGet)
	api.Handle("/appointments/blocked", admin(http.HandlerFunc(r.appointmentHandler.ReplaceBlockedSlots))).Methods(http.MethodPost)

	// Testimonials
	api.HandleFunc("/testimonial", r.reviewHandler.GetTestimonials).Methods(http.MethodGet)
	api.Handle("/testimonial", limited(http.HandlerFunc(r.reviewHandler.Submit))).Methods(http.MethodPost)
	api.Handle("/testimonial", admin(http.HandlerFunc(r.reviewHandler.Update))).Methods(http.MethodPut)
	api.Handle("/testimonial", admin(http.HandlerFunc(r.reviewHandler.Delete))).Methods(http.MethodDelete)

	// Contact and catalog
	api.Handle("/send-email", limited(http.HandlerFunc(r.contactHandler.SendEmail))).Methods(http.MethodPost)
	api.HandleFunc("/services", r.serviceHandler.List).Methods(http.MethodGet)

	// Admin login (public)
	api.Handle("/admin/auth", limited(http.HandlerFunc(r.authHandler.Login))).Methods(http.MethodPost)

	// Admin routes (protected)
	adminAPI := api.PathPrefix("/admin").Subrouter()
	adminAPI.Use(r.authMiddleware.Authenticate)

	adminAPI.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	adminAPI.HandleFunc("/session", r.authHandler.Session).Methods(http.MethodGet)
	adminAPI.HandleFunc("/dashboard", r.adminHandler.Dashboard).Methods(http.MethodGet)

	adminAPI.HandleFunc("/appointments", r.adminHandler.ListAppointments).Methods(http.MethodGet)
	adminAPI.HandleFunc("/appointments", r.adminHandler.CreateAppointment).Methods(http.MethodPost)
	adminAPI.HandleFunc("/appointments/{id:[0-9]+}", r.adminHandler.GetAppointment).Methods(http.MethodGet)
	adminAPI.HandleFunc("/appointments/{id:[0-9]+}", r.adminHandler.DeleteAppointment).Methods(http.MethodDelete)
	adminAPI.HandleFunc("/appointments/{id:[0-9]+}/status", r.adminHandler.UpdateAppointmentStatus).Methods(http.MethodPut)

	adminAPI.HandleFunc("/blocked-slots", r.adminHandler.BlockSlots).Methods(http.MethodPost)
	adminAPI.HandleFunc("/blocked-slots", r.adminHandler.UnblockSlot).Methods(http.MethodDelete)
	adminAPI.HandleFunc("/blocked-slots/{id:[0-9]+}", r.adminHandler.DeleteBlockedSlot).Methods(http.MethodDelete)
	adminAPI.HandleFunc("/blocked-dates", r.adminHandler.ListBlockedDates).Methods(http.MethodGet)
	adminAPI.HandleFunc("/blocked-dates", r.adminHandler.BlockDate).Methods(http.MethodPost)
	adminAPI.HandleFunc("/blocked-dates/{date}", r.adminHandler.UnblockDate).Methods(http.MethodDelete)

	adminAPI.HandleFunc("/testimonials", r.reviewHandler.AdminList).Methods(http.MethodGet)
	adminAPI.HandleFunc("/testimonials/{id:[0-9]+}/status", r.reviewHandler.SetStatus).Methods(http.MethodPut)

	adminAPI.HandleFunc("/services", r.serviceHandler.Create).Methods(http.MethodPost)
	adminAPI.HandleFunc("/services/{id}", r.serviceHandler.Update).Methods(http.MethodPut)
	adminAPI.HandleFunc("/services/{id}", r.serviceHandler.Delete).Methods(http.MethodDelete)

	adminAPI.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	adminAPI.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// CORS preflight; the CORS middleware answers it
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})

	// Add request logging/metrics and CORS middleware
	r.router.Use(r.requestMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
