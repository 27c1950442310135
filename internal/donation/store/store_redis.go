package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"donorlink/internal/donation/models"
	"donorlink/pkg/platform/circuit"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "donorlink_donation_cache_lookups_total",
		Help: "Donation cache lookups by collection and result (hit, miss, error, bypass)",
	}, []string{"collection", "result"})
)

const (
	// Bump the version when cachedRecord changes shape.
	cacheKeyPrefix = "donations:v1:"
)

// cachedRecord is the cache wire form. It keeps the contact email, which the
// API form of DonationRecord never serializes.
type cachedRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
	Location   string `json:"location,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	Condition  string `json:"condition,omitempty"`
	BloodType  string `json:"blood_type,omitempty"`
	Age        int    `json:"age,omitempty"`
	Email      string `json:"email,omitempty"`
}

// RedisCache is a read-through cache in front of another Fetcher. Redis
// failures are logged and bypassed; the cache never turns a healthy origin
// into a failed fetch. Repeated failures open a breaker so a dead Redis
// stops costing a dial timeout on every fetch.
type RedisCache struct {
	client  *redis.Client
	origin  Fetcher
	ttl     time.Duration
	logger  *slog.Logger
	breaker *circuit.Breaker
}

// RedisCacheOption configures a RedisCache instance.
type RedisCacheOption func(*RedisCache)

// WithCacheLogger sets the logger used for bypassed cache errors.
func WithCacheLogger(logger *slog.Logger) RedisCacheOption {
	return func(c *RedisCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCacheBreaker replaces the default breaker.
func WithCacheBreaker(b *circuit.Breaker) RedisCacheOption {
	return func(c *RedisCache) {
		if b != nil {
			c.breaker = b
		}
	}
}

func NewRedisCache(client *redis.Client, origin Fetcher, ttl time.Duration, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{
		client:  client,
		origin:  origin,
		ttl:     ttl,
		logger:  slog.Default(),
		breaker: circuit.New("donation-cache"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func cacheKey(category models.Category) string {
	return cacheKeyPrefix + category.Collection()
}

func (c *RedisCache) Fetch(ctx context.Context, category models.Category) ([]models.DonationRecord, error) {
	if !category.IsValid() {
		return nil, ErrUnknownCategory
	}
	ctx, span := tracer.Start(ctx, "donation.store.redis.Fetch", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("donation.collection", category.Collection()))
	defer span.End()

	collection := category.Collection()
	if !c.breaker.Allow() {
		cacheLookups.WithLabelValues(collection, "bypass").Inc()
		span.SetAttributes(attribute.Bool("cache.bypassed", true))
		return c.origin.Fetch(ctx, category)
	}

	raw, err := c.client.Get(ctx, cacheKey(category)).Bytes()
	if err == nil || errors.Is(err, redis.Nil) {
		c.recordSuccess(ctx)
	} else {
		c.recordFailure(ctx)
	}
	switch {
	case err == nil:
		var cached []cachedRecord
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			cacheLookups.WithLabelValues(collection, "hit").Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return fromCached(category, cached), nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable donation cache entry",
			"collection", collection,
		)
		cacheLookups.WithLabelValues(collection, "error").Inc()
	case errors.Is(err, redis.Nil):
		cacheLookups.WithLabelValues(collection, "miss").Inc()
	default:
		c.logger.WarnContext(ctx, "donation cache read failed, using origin",
			"collection", collection,
			"error", err,
		)
		cacheLookups.WithLabelValues(collection, "error").Inc()
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	records, err := c.origin.Fetch(ctx, category)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(toCached(records))
	if err == nil {
		err = c.client.Set(ctx, cacheKey(category), payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.WarnContext(ctx, "donation cache write failed",
			"collection", collection,
			"error", err,
		)
		c.recordFailure(ctx)
	}
	return records, nil
}

func (c *RedisCache) recordFailure(ctx context.Context) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "donation cache breaker opened; reading origin directly",
			"breaker", c.breaker.Name(),
		)
	}
}

func (c *RedisCache) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "donation cache breaker closed",
			"breaker", c.breaker.Name(),
		)
	}
}

// Invalidate drops the cached collections for the given categories.
func (c *RedisCache) Invalidate(ctx context.Context, categories ...models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	keys := make([]string, 0, len(categories))
	for _, category := range categories {
		keys = append(keys, cacheKey(category))
	}
	return c.client.Del(ctx, keys...).Err()
}

func toCached(records []models.DonationRecord) []cachedRecord {
	out := make([]cachedRecord, len(records))
	for i, r := range records {
		out[i] = cachedRecord{
			ID:         r.ID,
			Name:       r.Name,
			Quantity:   r.Quantity.Int(),
			Location:   r.Location,
			ExpiryDate: r.ExpiryDate,
			Condition:  r.Condition,
			BloodType:  r.BloodType,
			Age:        r.Age.Int(),
			Email:      r.ContactEmail,
		}
	}
	return out
}

func fromCached(category models.Category, cached []cachedRecord) []models.DonationRecord {
	out := make([]models.DonationRecord, len(cached))
	for i, r := range cached {
		out[i] = models.DonationRecord{
			ID:           r.ID,
			Category:     category,
			Name:         r.Name,
			Quantity:     models.Count(r.Quantity),
			Location:     r.Location,
			ExpiryDate:   r.ExpiryDate,
			Condition:    r.Condition,
			BloodType:    r.BloodType,
			Age:          models.Count(r.Age),
			ContactEmail: r.Email,
		}
	}
	return out
}
