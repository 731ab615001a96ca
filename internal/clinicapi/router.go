// Package clinicapi is a reference implementation of the clinic REST
// backend the dashboard talks to, kept in memory for demos and tests.
package clinicapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpmiddleware "github.com/wolfman30/clinic-dashboard/internal/http/middleware"
	"github.com/wolfman30/clinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Store              *Store
	Issuer             *Issuer
	Registry           *prometheus.Registry
	CORSAllowedOrigins []string
	LoginThrottle      *httpmiddleware.LoginThrottle
	// Now overrides the clock used for "upcoming" queries.
	Now func() time.Time
}

// New creates a Chi router serving the clinic API.
func New(cfg *Config) http.Handler {
	h := NewHandler(cfg.Store, cfg.Issuer, cfg.Logger)
	if cfg.Now != nil {
		h.now = cfg.Now
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.Registry != nil {
		r.Use(metrics.NewAPIMetrics(cfg.Registry).Middleware)
	}

	logins := func(next http.Handler) http.Handler { return next }
	if cfg.LoginThrottle != nil {
		logins = cfg.LoginThrottle.Middleware
	}
	admin := httpmiddleware.RequireRole(cfg.Issuer, RoleAdmin)
	doctor := httpmiddleware.RequireRole(cfg.Issuer, RoleDoctor)
	patient := httpmiddleware.RequireRole(cfg.Issuer, RolePatient)

	r.Group(func(public chi.Router) {
		public.Get("/health", h.HealthCheck)
		if cfg.Registry != nil {
			public.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
		}
		public.Get("/doctor", h.ListDoctors)
		public.Get("/doctor/filter", h.FilterDoctorsQuery)
		public.Get("/doctor/filter/{name}/{time}/{specialty}", h.FilterDoctorsPath)
		public.Post("/patient", h.Signup)
		public.With(logins).Post("/admin", h.AdminLogin)
		public.With(logins).Post("/doctor/login", h.DoctorLogin)
		public.With(logins).Post("/patient/login", h.PatientLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Post("/doctor/{token}", h.AddDoctor)
		r.Patch("/doctor/{token}", h.UpdateDoctor)
		r.Delete("/doctor/{id}/{token}", h.DeleteDoctor)
		r.Get("/reports/daily/{date}/{token}", h.DailyReport)
		r.Get("/reports/top-doctor/month/{month}/{year}/{token}", h.TopDoctorByMonth)
		r.Get("/reports/top-doctor/year/{year}/{token}", h.TopDoctorByYear)
	})

	r.Group(func(r chi.Router) {
		r.Use(doctor)
		r.Get("/appointments/upcoming/{token}", h.UpcomingAppointments)
		r.Get("/appointments/{date}/{patientName}/{token}", h.AppointmentsByDate)
	})

	r.Group(func(r chi.Router) {
		r.Use(patient)
		r.Get("/patient/{token}", h.PatientProfile)
		r.Post("/appointments/{token}", h.BookAppointment)
		r.Put("/appointments/{token}", h.RescheduleAppointment)
	})

	return r
}
