package catalog

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wandernear/nearby-places/internal/api"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetCities handles GET /cities - returns every configured city.
func (h *Handler) GetCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CatalogHandler").Start(r.Context(), "GetCities", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/cities"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetCities"))
	l.DebugContext(ctx, "Get cities handler invoked")

	cities, err := h.service.GetCities(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve cities", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Catalog is not available")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, cities)
}

// GetPlaces handles GET /places - returns the full catalog across cities.
func (h *Handler) GetPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CatalogHandler").Start(r.Context(), "GetPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetPlaces"))
	l.DebugContext(ctx, "Get places handler invoked")

	places, err := h.service.GetPlaces(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve places", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Catalog is not available")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, places)
}
