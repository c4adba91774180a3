package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "lovelace/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a chi router with all the
// application's routes.
func NewRouter(chatHandler *ChatHandler, authMiddleware *AuthMiddleware) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Health check. Deliberately outside the auth boundary so container
	// orchestration probes work without a credential.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Every chat route requires the caller's credential header.
	r.Route("/chat", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		// Standard JSON routes get a request timeout so client
		// connections cannot hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Post("/", chatHandler.HandleCreateChat)
			r.Get("/", chatHandler.HandleListChats)
			r.Get("/{chatID}", chatHandler.HandleGetChat)
			r.Delete("/{chatID}", chatHandler.HandleDeleteChat)
			r.Post("/{chatID}/messages", chatHandler.HandleSaveMessages)
		})

		// The streaming route must NOT have a timeout: it holds the
		// connection open for the lifetime of the model stream.
		r.Group(func(r chi.Router) {
			r.Post("/{chatID}", chatHandler.HandleStreamMessage)
		})
	})

	return r
}
