package recommend

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wandernear/nearby-places/internal/api"
	"github.com/wandernear/nearby-places/internal/api/session"
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

// GetRecommendation handles
// GET /sessions/{sessionID}/places/{placeName}/recommendation.
// The optional ?at=RFC3339 query pins the evaluation timestamp; it exists
// for tests, normal callers get wall-clock now.
func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendHandler").Start(r.Context(), "GetRecommendation", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/sessions/{sessionID}/places/{placeName}/recommendation"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetRecommendation"))
	l.DebugContext(ctx, "Get recommendation handler invoked")

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		l.ErrorContext(ctx, "Invalid session ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	placeName, err := url.PathUnescape(chi.URLParam(r, "placeName"))
	if err != nil || placeName == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Place name is required")
		return
	}

	at := time.Now()
	if atParam := r.URL.Query().Get("at"); atParam != "" {
		at, err = time.Parse(time.RFC3339, atParam)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid 'at' timestamp, want RFC3339")
			return
		}
	}

	rec, err := h.service.RecommendForPlace(ctx, sessionID, placeName, at)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Session not found")
		case errors.Is(err, ErrPlaceNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Place not found in the active city")
		case errors.Is(err, ErrPositionUnavailable):
			// Degraded but valid: no mode, just a generic advisory.
			api.WriteJSONResponse(w, r, http.StatusOK, FallbackAdvisory())
		default:
			l.ErrorContext(ctx, "Failed to compute recommendation", slog.Any("error", err))
			span.RecordError(err)
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to compute recommendation")
		}
		return
	}

	l.InfoContext(ctx, "Recommendation computed",
		slog.String("place", placeName),
		slog.String("mode", string(rec.Mode)),
	)
	api.WriteJSONResponse(w, r, http.StatusOK, rec)
}
