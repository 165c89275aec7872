package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/yeluhq/terminal-server/internal/api/handlers"
	"github.com/yeluhq/terminal-server/internal/api/middleware"
	"github.com/yeluhq/terminal-server/internal/service"
	"github.com/yeluhq/terminal-server/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	encounterHandler := handlers.NewEncounterHandler(services.Combat)
	shopHandler := handlers.NewShopHandler(services.Item)
	taskHandler := handlers.NewTaskHandler(services.Task)
	titleHandler := handlers.NewTitleHandler(services.Title)
	seasonHandler := handlers.NewSeasonHandler(services.Season)
	adminHandler := handlers.NewAdminHandler(services.Admin, services.Reward)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected player routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/items", func(r chi.Router) {
				r.Get("/", shopHandler.ListItems)
				r.Post("/{id}/buy", shopHandler.Buy)
			})

			r.Route("/recipes", func(r chi.Router) {
				r.Get("/", shopHandler.ListRecipes)
				r.Post("/{id}/craft", shopHandler.Craft)
			})

			r.Route("/titles", func(r chi.Router) {
				r.Get("/", titleHandler.List)
				r.Post("/evaluate", titleHandler.Evaluate)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/{id}/submit", taskHandler.Submit)
			})

			r.Route("/encounters", func(r chi.Router) {
				r.Get("/", encounterHandler.List)
				r.Get("/{id}", encounterHandler.Get)
				r.Post("/{id}/join", encounterHandler.Join)
				r.Post("/{id}/attack", encounterHandler.Attack)
				r.Post("/{id}/use-item", encounterHandler.UseItem)
				r.Post("/{id}/use-skill", encounterHandler.UseSkill)
				r.Get("/{id}/logs", encounterHandler.Logs)
			})

			r.Route("/seasons", func(r chi.Router) {
				r.Get("/current", seasonHandler.Current)
				r.Get("/archived", seasonHandler.Archived)
			})
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Use(middleware.RequireAdmin)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/users/pending", adminHandler.PendingUsers)
				r.Put("/users/{id}/status", adminHandler.SetUserStatus)

				r.Post("/items", adminHandler.CreateItem)
				r.Put("/items/{id}/publish", adminHandler.PublishItem)
				r.Post("/skills", adminHandler.CreateSkill)
				r.Post("/titles", adminHandler.CreateTitle)
				r.Post("/titles/{id}/grant", titleHandler.Grant)
				r.Post("/tasks", adminHandler.CreateTask)
				r.Put("/tasks/{id}/publish", adminHandler.PublishTask)
				r.Post("/recipes", adminHandler.CreateRecipe)
				r.Put("/recipes/{id}/publish", adminHandler.PublishRecipe)

				r.Get("/submissions/pending", taskHandler.PendingSubmissions)
				r.Post("/submissions/{submissionId}/approve", taskHandler.Approve)
				r.Post("/submissions/{submissionId}/reject", taskHandler.Reject)

				r.Post("/encounters", encounterHandler.Create)
				r.Put("/encounters/{id}/status", encounterHandler.SetStatus)
				r.Post("/encounters/{id}/tick", encounterHandler.Tick)

				r.Post("/rewards/distribute", adminHandler.DistributeRewards)
				r.Post("/seasons/rollover", seasonHandler.Rollover)
				r.Post("/logs/archive", adminHandler.ArchiveLogs)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
