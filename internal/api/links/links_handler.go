package links

import (
	"errors"
	"fmt"
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
	"github.com/wandernear/nearby-places/internal/api/catalog"
	"github.com/wandernear/nearby-places/internal/api/recommend"
	"github.com/wandernear/nearby-places/internal/api/session"
	"github.com/wandernear/nearby-places/internal/types"
)

type Handler struct {
	catalog   catalog.Service
	sessions  session.Service
	recommend recommend.Service
	logger    *slog.Logger
}

func NewHandler(catalogService catalog.Service, sessionService session.Service, recommendService recommend.Service, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:   catalogService,
		sessions:  sessionService,
		recommend: recommendService,
		logger:    logger,
	}
}

// GetPlaceLinks handles GET /sessions/{sessionID}/places/{placeName}/links.
// The directions link's travel mode follows the current recommendation.
func (h *Handler) GetPlaceLinks(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LinksHandler").Start(r.Context(), "GetPlaceLinks", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/sessions/{sessionID}/places/{placeName}/links"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetPlaceLinks"))

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	placeName, err := url.PathUnescape(chi.URLParam(r, "placeName"))
	if err != nil || placeName == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Place name is required")
		return
	}

	sess, err := h.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Session not found")
			return
		}
		l.ErrorContext(ctx, "Failed to resolve session", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to resolve session")
		return
	}

	c, err := h.catalog.Catalog()
	if err != nil {
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Catalog is not available")
		return
	}

	city, ok := c.CityByKey(sess.State.ActiveCityKey)
	if !ok {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Active city missing from catalog")
		return
	}

	place, ok := c.PlaceByName(city.CityKey, placeName)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, fmt.Sprintf("Place %q not found in the active city", placeName))
		return
	}

	// Driving directions are the safe default when no mode can be computed.
	mode := types.ModeRide
	if place.HasPosition() {
		if rec, err := h.recommend.Recommend(ctx, city.HotelPosition(), place.PositionOrZero(), time.Now(), sess.State.HotOverride); err == nil {
			mode = rec.Mode
		}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, ForPlace(city, place, mode))
}
