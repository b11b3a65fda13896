package catalog

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

//go:generate mockgen -source=catalog_service.go -destination=../mock/catalog/catalog_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, q ListQuery) (ListResponse, error)
	Detail(ctx context.Context, id string) (ItemResponse, error)
	Categories(ctx context.Context) (CategoriesResponse, error)
}

type snapshot struct {
	items     []Item
	version   uint64
	fetchedAt time.Time
}

type service struct {
	source       Source
	refreshEvery time.Duration
	now          func() time.Time

	mu      sync.Mutex
	current *snapshot

	memo   *memo
	tracer trace.Tracer
	logger *zap.Logger
}

type Deps struct {
	Source Source
	// RefreshEvery is how long a fetched catalog is served before the
	// source is asked again.
	RefreshEvery time.Duration
	MemoSize     int
	Logger       *zap.Logger
}

func NewService(deps Deps) Service {
	if deps.Source == nil {
		panic("catalog source cannot be nil")
	}
	if deps.RefreshEvery <= 0 {
		deps.RefreshEvery = time.Minute
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &service{
		source:       deps.Source,
		refreshEvery: deps.RefreshEvery,
		now:          time.Now,
		memo:         newMemo(deps.MemoSize),
		tracer:       otel.Tracer("catalog"),
		logger:       deps.Logger.Named("catalog.service"),
	}
}

// snapshot returns the current catalog, refreshing it when stale. A failed
// refresh keeps serving the previous snapshot.
func (s *service) snapshot(ctx context.Context) (*snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.now().Sub(s.current.fetchedAt) < s.refreshEvery {
		return s.current, nil
	}

	items, err := s.source.Products(ctx)
	if err != nil {
		if s.current != nil {
			s.logger.Warn("catalog refresh failed, serving stale snapshot",
				zap.Uint64("version", s.current.version),
				zap.Error(err),
			)
			return s.current, nil
		}
		s.logger.Error("catalog fetch failed", zap.Error(err))
		return nil, ErrCatalogUnavailable.WithCause(err)
	}

	var version uint64 = 1
	if s.current != nil {
		version = s.current.version + 1
	}
	s.current = &snapshot{items: items, version: version, fetchedAt: s.now()}
	s.logger.Debug("catalog refreshed", zap.Uint64("version", version), zap.Int("items", len(items)))
	return s.current, nil
}

func (s *service) List(ctx context.Context, q ListQuery) (ListResponse, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return ListResponse{}, err
	}

	bounds := Bounds(snap.items)
	c, err := q.criteria(bounds)
	if err != nil {
		return ListResponse{}, err
	}
	span.SetAttributes(
		attribute.String("catalog.category", c.Category),
		attribute.String("catalog.sort", string(c.SortMode)),
		attribute.Int64("catalog.version", int64(snap.version)),
	)

	items := s.memo.get(snap.version, c, func() []Item {
		return FilterAndSort(snap.items, c)
	})

	span.SetAttributes(attribute.Int("catalog.results", len(items)))
	return ListResponse{
		Items:    toItemResponses(items),
		Count:    len(items),
		Criteria: c,
		Bounds:   bounds,
	}, nil
}

func (s *service) Detail(ctx context.Context, id string) (ItemResponse, error) {
	ctx, span := s.tracer.Start(ctx, "Detail")
	defer span.End()
	span.SetAttributes(attribute.String("app.product_id", id))

	snap, err := s.snapshot(ctx)
	if err != nil {
		return ItemResponse{}, err
	}
	for _, it := range snap.items {
		if it.ID == id {
			return toItemResponse(it), nil
		}
	}
	return ItemResponse{}, ErrProductNotFound
}

func (s *service) Categories(ctx context.Context) (CategoriesResponse, error) {
	ctx, span := s.tracer.Start(ctx, "Categories")
	defer span.End()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return CategoriesResponse{}, err
	}
	return CategoriesResponse{
		Categories: Categories(snap.items),
		Bounds:     Bounds(snap.items),
	}, nil
}
