// Package store holds the donation record stores: an in-memory store, a
// PostgreSQL store, and a Redis read-through cache that decorates either.
package store

import (
	"context"

	"go.opentelemetry.io/otel"

	"donorlink/internal/donation/models"
)

// Fetcher is the single retrieval operation every donation store offers.
type Fetcher interface {
	Fetch(ctx context.Context, category models.Category) ([]models.DonationRecord, error)
}

var tracer = otel.Tracer("donorlink/internal/donation/store")

// normalize fills the category on every record and drops records without an ID,
// which cannot be addressed by a contact request.
func normalize(category models.Category, records []models.DonationRecord) []models.DonationRecord {
	out := make([]models.DonationRecord, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		r.Category = category
		out = append(out, r)
	}
	return out
}
