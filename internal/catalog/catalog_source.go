package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

//go:generate mockgen -source=catalog_source.go -destination=../mock/catalog/catalog_source_mock.go -package=mock
type Source interface {
	Products(ctx context.Context) ([]Item, error)
}

// ========================
// static
// ========================

type staticSource struct {
	items []Item
}

// NewStaticSource serves a fixed list. Useful offline and in tests.
func NewStaticSource(items []Item) Source {
	return &staticSource{items: clone(items)}
}

func (s *staticSource) Products(ctx context.Context) ([]Item, error) {
	return clone(s.items), nil
}

// ========================
// http
// ========================

// wireItem is the FakeStore product shape. Ids arrive as numbers there and
// as strings from some mirrors, so both are accepted.
type wireItem struct {
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	Price       float64         `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Rating      *Rating         `json:"rating"`
	IsNew       bool            `json:"isNew"`
}

func (w wireItem) id() (string, error) {
	raw := strings.TrimSpace(string(w.ID))
	if raw == "" || raw == "null" {
		return "", errors.New("missing id")
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(w.ID, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(w.ID, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

type HTTPSource struct {
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
	logger  *zap.Logger
}

func NewHTTPSource(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tracer:  otel.Tracer("catalog"),
		logger:  logger.Named("catalog.http"),
	}
}

func (s *HTTPSource) Products(ctx context.Context) ([]Item, error) {
	ctx, span := s.tracer.Start(ctx, "HTTPSource.Products")
	defer span.End()

	url := s.baseURL + "/products"
	span.SetAttributes(attribute.String("http.url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		msg := strings.TrimSpace(string(body))
		span.SetStatus(codes.Error, resp.Status)
		if msg == "" {
			return nil, fmt.Errorf("catalog API returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, msg)
	}

	var wire []wireItem
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	items := make([]Item, 0, len(wire))
	for _, w := range wire {
		id, err := w.id()
		if err != nil {
			s.logger.Warn("skip catalog item", zap.String("title", w.Title), zap.Error(err))
			continue
		}
		items = append(items, Item{
			ID:          id,
			Title:       w.Title,
			Price:       w.Price,
			Category:    w.Category,
			Description: w.Description,
			Image:       w.Image,
			Rating:      w.Rating,
			IsNew:       w.IsNew,
		})
	}

	span.SetAttributes(attribute.Int("catalog.items", len(items)))
	return items, nil
}

// ========================
// redis cache
// ========================

const cacheKey = "catalog:products"

// CachedSource keeps the upstream list in Redis for ttl. Cache failures are
// logged and fall through to the upstream.
type CachedSource struct {
	upstream Source
	client   redis.Cmdable
	ttl      time.Duration
	logger   *zap.Logger
}

func NewCachedSource(upstream Source, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{
		upstream: upstream,
		client:   client,
		ttl:      ttl,
		logger:   logger.Named("catalog.cache"),
	}
}

func (s *CachedSource) Products(ctx context.Context) ([]Item, error) {
	val, err := s.client.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		var items []Item
		jsonErr := json.Unmarshal([]byte(val), &items)
		if jsonErr == nil {
			return items, nil
		}
		s.logger.Warn("discard corrupt catalog cache", zap.Error(jsonErr))
	case errors.Is(err, redis.Nil):
	default:
		s.logger.Warn("read catalog cache", zap.Error(err))
	}

	items, err := s.upstream.Products(ctx)
	if err != nil {
		return nil, err
	}

	bin, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("encode catalog cache", zap.Error(err))
		return items, nil
	}
	if err := s.client.Set(ctx, cacheKey, string(bin), s.ttl).Err(); err != nil {
		s.logger.Warn("write catalog cache", zap.Error(err))
	}
	return items, nil
}
