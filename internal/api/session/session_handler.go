package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wandernear/nearby-places/internal/api"
	"github.com/wandernear/nearby-places/internal/types"
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

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "CreateSession", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/sessions"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateSession"))
	l.DebugContext(ctx, "Create session handler invoked")

	sess, err := h.service.CreateSession(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create session", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Catalog is not available")
		return
	}

	l.InfoContext(ctx, "Session created", slog.String("sessionID", sess.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusCreated, sess)
}

// GetView handles GET /sessions/{sessionID}/view.
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "GetView", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/sessions/{sessionID}/view"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetView"))

	id, ok := h.sessionID(w, r, l)
	if !ok {
		return
	}

	view, err := h.service.DeriveView(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Session not found")
			return
		}
		l.ErrorContext(ctx, "Failed to derive view", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to derive view")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, view)
}

// UpdateViewState handles PATCH /sessions/{sessionID}. The body carries any
// subset of the view-state transitions; omitted fields stay untouched.
func (h *Handler) UpdateViewState(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "UpdateViewState", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/sessions/{sessionID}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdateViewState"))

	id, ok := h.sessionID(w, r, l)
	if !ok {
		return
	}

	var update types.ViewStateUpdate
	if err := api.DecodeJSONBody(w, r, &update); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.service.UpdateViewState(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Session not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update view state", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update view state")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, sess)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "sessionID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid session ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format")
		return uuid.Nil, false
	}
	return id, true
}
