package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wandernear/nearby-places/internal/api/catalog"
	"github.com/wandernear/nearby-places/internal/types"
)

// ErrSessionNotFound is returned for lookups of unknown session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session is one browser session's view state. The state is the single
// source of truth for what is visible; it is mutated only through
// UpdateViewState and read back through DeriveView.
type Session struct {
	ID        uuid.UUID       `json:"id"`
	State     types.ViewState `json:"state"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

var _ Service = (*ServiceImpl)(nil)

// Service owns the per-session view states and their pure projection.
type Service interface {
	CreateSession(ctx context.Context) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateViewState(ctx context.Context, id uuid.UUID, update types.ViewStateUpdate) (*Session, error)
	DeriveView(ctx context.Context, id uuid.UUID) (*types.DerivedView, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	catalog catalog.Service

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewServiceImpl(catalogService catalog.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		catalog:  catalogService,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// CreateSession starts a session at the defaults: first configured city,
// filter "all", empty search, hot override off.
func (s *ServiceImpl) CreateSession(ctx context.Context) (*Session, error) {
	ctx, span := otel.Tracer("SessionService").Start(ctx, "CreateSession")
	defer span.End()

	c, err := s.catalog.Catalog()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	now := time.Now().UTC()
	sess := &Session{
		ID: uuid.New(),
		State: types.ViewState{
			ActiveCityKey: c.Cities[0].CityKey,
			Filter:        types.FilterAll,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Session created",
		slog.String("sessionID", sess.ID.String()),
		slog.String("city", sess.State.ActiveCityKey),
	)
	span.SetAttributes(attribute.String("session.id", sess.ID.String()))
	span.SetStatus(codes.Ok, "Session created")
	return snapshot(sess), nil
}

func (s *ServiceImpl) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot(sess), nil
}

// UpdateViewState applies the named transitions carried by the update. Each
// transition is a pure old-state-to-new-state step; an unknown city key
// leaves the state unchanged rather than entering an invalid state.
func (s *ServiceImpl) UpdateViewState(ctx context.Context, id uuid.UUID, update types.ViewStateUpdate) (*Session, error) {
	ctx, span := otel.Tracer("SessionService").Start(ctx, "UpdateViewState", trace.WithAttributes(
		attribute.String("session.id", id.String()),
	))
	defer span.End()

	c, err := s.catalog.Catalog()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update view state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		span.SetStatus(codes.Error, "Session not found")
		return nil, ErrSessionNotFound
	}

	next := sess.State
	if update.ActiveCityKey != nil {
		next = withActiveCity(next, c, *update.ActiveCityKey)
		if next.ActiveCityKey != *update.ActiveCityKey {
			s.logger.WarnContext(ctx, "Ignoring unknown city key",
				slog.String("sessionID", id.String()),
				slog.String("cityKey", *update.ActiveCityKey),
			)
			span.AddEvent("unknown city key ignored")
		}
	}
	if update.Filter != nil {
		next = withFilter(next, *update.Filter)
	}
	if update.SearchTerm != nil {
		next = withSearchTerm(next, *update.SearchTerm)
	}
	if update.HotOverride != nil {
		next = withHotOverride(next, *update.HotOverride)
	}

	if next != sess.State {
		sess.State = next
		sess.UpdatedAt = time.Now().UTC()
	}

	span.SetStatus(codes.Ok, "View state updated")
	return snapshot(sess), nil
}

// DeriveView is the pure projection the rendering layer pulls after any
// mutation: visible places, where to center the map, and a status line.
func (s *ServiceImpl) DeriveView(ctx context.Context, id uuid.UUID) (*types.DerivedView, error) {
	ctx, span := otel.Tracer("SessionService").Start(ctx, "DeriveView", trace.WithAttributes(
		attribute.String("session.id", id.String()),
	))
	defer span.End()

	sess, err := s.GetSession(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "Session not found")
		return nil, err
	}

	c, err := s.catalog.Catalog()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	city, ok := c.CityByKey(sess.State.ActiveCityKey)
	if !ok {
		// The mutators keep the key valid; fall back to the first city if
		// state somehow predates a catalog change.
		city = c.Cities[0]
	}

	visible, err := s.catalog.VisiblePlaces(ctx, sess.State)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	view := &types.DerivedView{
		VisiblePlaces: visible,
		MapCenter:     city.HotelPosition(),
		MapZoom:       zoomOrDefault(city),
		StatusMessage: statusMessage(len(visible)),
	}
	span.SetAttributes(attribute.Int("places.visible", len(visible)))
	span.SetStatus(codes.Ok, "View derived")
	return view, nil
}

// withActiveCity switches the active city; unknown keys are a no-op.
func withActiveCity(state types.ViewState, c *types.Catalog, key string) types.ViewState {
	if _, ok := c.CityByKey(key); !ok {
		return state
	}
	state.ActiveCityKey = key
	return state
}

// withFilter applies a category filter; invalid values are a no-op.
func withFilter(state types.ViewState, filter types.CategoryFilter) types.ViewState {
	if !filter.Valid() {
		return state
	}
	state.Filter = filter
	return state
}

func withSearchTerm(state types.ViewState, term string) types.ViewState {
	state.SearchTerm = term
	return state
}

func withHotOverride(state types.ViewState, hot bool) types.ViewState {
	state.HotOverride = hot
	return state
}

func zoomOrDefault(city types.City) int {
	if city.DefaultZoom > 0 {
		return city.DefaultZoom
	}
	return 13
}

func statusMessage(visible int) string {
	if visible == 0 {
		return "No places match the current filters"
	}
	return fmt.Sprintf("%d places shown", visible)
}

// snapshot copies a session so callers never share the stored pointer.
func snapshot(sess *Session) *Session {
	cp := *sess
	return &cp
}
