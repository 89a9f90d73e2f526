package httpapi

import (
	"context"
	"net/http"
	"time"

	"tutorhub/internal/infra/realtime"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Services bundles everything the handlers call into.
type Services struct {
	Scheduler     Scheduler
	Notifications Notifications
	Relationships Relationships
	Content       Content
	Billing       Billing
	Admin         Admin
	Backups       Backups
	Messages      Messages
	Directory     Directory
	TelegramLinks LinkIssuer // Nil when the bot is disabled
	Hub           *realtime.Hub
	Functions     *FunctionClient
}

type Config struct {
	JWTSecret           string
	ServiceRoleKey      string
	CORSOrigins         []string
	BackupRetentionDays int
	Health              func(ctx context.Context) error
}

type api struct {
	cfg Config
	svc Services
	log *logrus.Entry
}

// NewRouter wires the REST API, the realtime stream and the edge functions.
func NewRouter(cfg Config, svc Services, log *logrus.Entry) http.Handler {
	a := &api{cfg: cfg, svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		MaxAge:         300,
	}))

	r.Get("/healthz", a.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(requireJWT(cfg.JWTSecret))

		r.Get("/me", a.me)
		r.Post("/me/telegram-link", a.telegramLink)
		r.Route("/classes", a.classRoutes)
		r.Route("/notifications", a.notificationRoutes)
		r.Route("/relationships", a.relationshipRoutes)
		r.Get("/students/{id}/notes", a.listNotes)
		r.Post("/students/{id}/notes", a.addNote)
		r.Delete("/notes/{id}", a.deleteNote)
		r.Route("/shares", a.shareRoutes)
		r.Route("/messages", a.messageRoutes)
		r.Route("/tutors", a.tutorRoutes)
		r.Get("/students/{id}", a.getStudent)
		r.Put("/students/{id}", a.updateStudent)
		r.Get("/billing/plans", a.listPlans)
		r.Get("/billing/subscription", a.subscription)
		r.Route("/admin", a.adminRoutes)
		r.Get("/realtime", a.stream)
	})

	r.Route("/functions/v1", func(r chi.Router) {
		r.Use(requireServiceKey(cfg.ServiceRoleKey))
		a.functionRoutes(r)
	})

	return r
}

// NewServer returns an http.Server for handler with conservative timeouts.
// WriteTimeout stays zero so realtime streams are not cut.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	if a.cfg.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.cfg.Health(ctx); err != nil {
			a.log.WithError(err).Warn("Health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(log *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			}).Debug("HTTP request")
		})
	}
}
