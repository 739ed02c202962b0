package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/wandernear/nearby-places/internal/api/catalog"
	"github.com/wandernear/nearby-places/internal/api/links"
	"github.com/wandernear/nearby-places/internal/api/recommend"
	"github.com/wandernear/nearby-places/internal/api/session"
)

// Config contains the handlers needed for the router setup.
type Config struct {
	CatalogHandler   *catalog.Handler
	SessionHandler   *session.Handler
	RecommendHandler *recommend.Handler
	LinksHandler     *links.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cities", cfg.CatalogHandler.GetCities)
		r.Get("/places", cfg.CatalogHandler.GetPlaces)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", cfg.SessionHandler.CreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Patch("/", cfg.SessionHandler.UpdateViewState)
				r.Get("/view", cfg.SessionHandler.GetView)
				r.Route("/places/{placeName}", func(r chi.Router) {
					r.Get("/recommendation", cfg.RecommendHandler.GetRecommendation)
					r.Get("/links", cfg.LinksHandler.GetPlaceLinks)
				})
			})
		})
	})

	return r
}
