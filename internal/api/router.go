package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pay4skill/server/internal/api/handlers"
	mw "github.com/pay4skill/server/internal/api/middleware"
	"github.com/pay4skill/server/internal/models"
)

type Dependencies struct {
	Verifier    mw.SessionVerifier
	RateLimiter *mw.RateLimiter
	CORSOrigin  string

	HealthHandler       *handlers.HealthHandler
	AuthHandler         *handlers.AuthHandler
	UsersHandler        *handlers.UsersHandler
	TasksHandler        *handlers.TasksHandler
	ApplicationsHandler *handlers.ApplicationsHandler
	PaymentsHandler     *handlers.PaymentsHandler
	ReviewsHandler      *handlers.ReviewsHandler
	MessagesHandler     *handlers.MessagesHandler
	ChatsHandler        *handlers.ChatsHandler
	BadgesHandler       *handlers.BadgesHandler
	ReportsHandler      *handlers.ReportsHandler
	AnalyticsHandler    *handlers.AnalyticsHandler
	WSHandler           *handlers.WSHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.Metrics)
	r.Use(mw.CORS(dep.CORSOrigin))
	if dep.RateLimiter != nil {
		r.Use(dep.RateLimiter.Middleware)
	}

	// Health endpoints
	r.Get("/healthz", dep.HealthHandler.Liveness)
	r.Get("/readyz", dep.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// websocket upgrade must not be wrapped by the compressor
	r.Get("/api/ws", dep.WSHandler.Connect)

	r.Route("/api", func(api chi.Router) {
		api.Use(chimid.Compress(5))
		admin := mw.RequireRole(models.RoleAdmin)

		// Auth routes (public)
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Post("/login", dep.AuthHandler.Login)
			ar.Post("/logout", dep.AuthHandler.Logout)
			ar.Post("/forgot-password", dep.AuthHandler.ForgotPassword)
			ar.Post("/reset-password", dep.AuthHandler.ResetPassword)
			ar.With(mw.Auth(dep.Verifier)).Get("/user", dep.AuthHandler.Me)
		})

		// Protected routes
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.Verifier))

			protected.Route("/users", func(ur chi.Router) {
				ur.Get("/", dep.UsersHandler.List)
				ur.With(admin).Post("/", dep.UsersHandler.Create)
				ur.Get("/{id}", dep.UsersHandler.Get)
				ur.Put("/{id}", dep.UsersHandler.Update)
				ur.With(admin).Delete("/{id}", dep.UsersHandler.Delete)
			})

			protected.Route("/tasks", func(tr chi.Router) {
				tr.Get("/", dep.TasksHandler.List)
				tr.Post("/", dep.TasksHandler.Create)
				tr.Get("/employer/{employerId}", dep.TasksHandler.ListByEmployer)
				tr.Get("/{id}", dep.TasksHandler.Get)
				tr.Put("/{id}", dep.TasksHandler.Update)
				tr.Delete("/{id}", dep.TasksHandler.Delete)
			})

			protected.Route("/applications", func(ar chi.Router) {
				ar.Get("/", dep.ApplicationsHandler.List)
				ar.Post("/", dep.ApplicationsHandler.Create)
				ar.Get("/student/{studentId}", dep.ApplicationsHandler.ListByStudent)
				ar.Get("/task/{taskId}", dep.ApplicationsHandler.ListByTask)
				ar.Get("/{id}", dep.ApplicationsHandler.Get)
				ar.Patch("/{id}/status", dep.ApplicationsHandler.UpdateStatus)
			})

			protected.Route("/payments", func(pr chi.Router) {
				pr.Get("/", dep.PaymentsHandler.List)
				pr.Post("/", dep.PaymentsHandler.Create)
				pr.Get("/employer/{employerId}", dep.PaymentsHandler.ListByEmployer)
				pr.Get("/student/{studentId}", dep.PaymentsHandler.ListByStudent)
				pr.Get("/{id}", dep.PaymentsHandler.Get)
				pr.Patch("/{id}/status", dep.PaymentsHandler.UpdateStatus)
			})

			protected.Route("/reviews", func(rr chi.Router) {
				rr.Get("/", dep.ReviewsHandler.List)
				rr.Post("/", dep.ReviewsHandler.Create)
				rr.Get("/user/{userId}", dep.ReviewsHandler.ListByUser)
				rr.Get("/task/{taskId}", dep.ReviewsHandler.ListByTask)
				rr.Get("/{id}", dep.ReviewsHandler.Get)
				rr.Put("/{id}", dep.ReviewsHandler.Update)
				rr.Delete("/{id}", dep.ReviewsHandler.Delete)
			})

			protected.Route("/messages", func(mr chi.Router) {
				mr.Get("/", dep.MessagesHandler.List)
				mr.Post("/", dep.MessagesHandler.Create)
				mr.Get("/conversation/{user1}/{user2}", dep.MessagesHandler.Conversation)
				mr.Get("/unread/{userId}", dep.MessagesHandler.Unread)
				mr.Get("/{id}", dep.MessagesHandler.Get)
				mr.Patch("/{id}/read", dep.MessagesHandler.MarkRead)
			})

			protected.Route("/chats", func(cr chi.Router) {
				cr.Get("/", dep.ChatsHandler.List)
				cr.Post("/", dep.ChatsHandler.Open)
				cr.Get("/{id}", dep.ChatsHandler.Get)
				cr.Post("/{id}/messages", dep.ChatsHandler.PostMessage)
			})

			protected.Route("/badges", func(br chi.Router) {
				br.Get("/", dep.BadgesHandler.List)
				br.With(admin).Post("/", dep.BadgesHandler.Create)
				br.Get("/user/{userId}", dep.BadgesHandler.ListByUser)
				br.With(admin).Post("/evaluate/{userId}", dep.BadgesHandler.Evaluate)
				br.Get("/{id}", dep.BadgesHandler.Get)
			})

			protected.Route("/reports", func(rr chi.Router) {
				rr.Post("/", dep.ReportsHandler.Create)
				rr.With(admin).Get("/", dep.ReportsHandler.List)
				rr.With(admin).Get("/{id}", dep.ReportsHandler.Get)
				rr.With(admin).Patch("/{id}", dep.ReportsHandler.Update)
			})

			protected.Route("/analytics", func(ar chi.Router) {
				ar.With(admin).Get("/overview", dep.AnalyticsHandler.Overview)
				ar.Get("/dashboard/{userId}", dep.AnalyticsHandler.Dashboard)
			})
		})
	})

	return r
}
