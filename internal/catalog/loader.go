package catalog

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"donorlink/internal/catalog/metrics"
	"donorlink/internal/donation/models"
)

// DonationSource fetches one category's collection.
type DonationSource interface {
	Fetch(ctx context.Context, category models.Category) ([]models.DonationRecord, error)
}

const defaultFetchTimeout = 10 * time.Second

var tracer = otel.Tracer("donorlink/internal/catalog")

// Loader fetches all categories concurrently. Fetches are independent: a
// failed category is logged, counted and left empty while the others load.
type Loader struct {
	source  DonationSource
	logger  *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// WithFetchTimeout bounds each category fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func NewLoader(source DonationSource, opts ...Option) *Loader {
	l := &Loader{
		source:  source,
		logger:  slog.Default(),
		timeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// LoadReport summarizes one load.
type LoadReport struct {
	Loaded map[models.Category]int
	Failed []models.Category
}

// OK reports whether every category loaded.
func (r LoadReport) OK() bool {
	return len(r.Failed) == 0
}

type fetchResult struct {
	records []models.DonationRecord
	err     error
}

// Load fetches every category and replaces the filter's collections. The
// filter is only touched after all fetches finish, from the calling goroutine.
func (l *Loader) Load(ctx context.Context, filter *Filter) LoadReport {
	ctx, span := tracer.Start(ctx, "catalog.Load")
	defer span.End()
	start := time.Now()

	results := make([]fetchResult, len(models.Categories))

	// Plain Group, not WithContext: one category failing must not cancel the others.
	var g errgroup.Group
	for i, category := range models.Categories {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, l.timeout)
			defer cancel()

			fetchStart := time.Now()
			records, err := l.source.Fetch(fetchCtx, category)
			l.metrics.ObserveFetchLatency(category.String(), time.Since(fetchStart))
			results[i] = fetchResult{records: records, err: err}
			return nil
		})
	}
	_ = g.Wait()

	report := LoadReport{Loaded: make(map[models.Category]int, len(models.Categories))}
	for i, category := range models.Categories {
		res := results[i]
		if res.err != nil {
			l.logger.WarnContext(ctx, "donation fetch failed",
				"category", category.String(),
				"error", res.err,
			)
			l.metrics.IncrementFetchFailure(category.String())
			filter.Set(category, nil)
			report.Failed = append(report.Failed, category)
			continue
		}
		filter.Set(category, res.records)
		report.Loaded[category] = len(res.records)
	}

	l.metrics.ObserveLoadLatency(time.Since(start))
	span.SetAttributes(attribute.Int("catalog.failed_categories", len(report.Failed)))
	return report
}
