package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"donorlink/internal/donation/models"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the donations table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure donations schema: %w", err)
	}
	return nil
}

// PostgresStore persists donation collections in PostgreSQL. All collections
// share one table keyed by (collection, id); NULL columns read back as empty.
// Fetch returns records in insertion order, and within one batch in the order
// they were passed to SaveBatch.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Fetch(ctx context.Context, category models.Category) ([]models.DonationRecord, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	ctx, span := tracer.Start(ctx, "donation.store.postgres.Fetch", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("donation.collection", category.Collection()))
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, quantity, location, expiry_date, condition, blood_type, age, email
		FROM donations
		WHERE collection = $1
		ORDER BY created_at, doc_order, id
	`, category.Collection())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("fetch %s: %w", category.Collection(), err)
	}
	defer rows.Close()

	records := make([]models.DonationRecord, 0)
	for rows.Next() {
		var (
			rec                                                       models.DonationRecord
			name, location, expiry, condition, bloodType, contactMail sql.NullString
			quantity, age                                             sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &name, &quantity, &location, &expiry, &condition, &bloodType, &age, &contactMail); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan %s: %w", category.Collection(), err)
		}
		rec.Category = category
		rec.Name = name.String
		rec.Quantity = models.Count(nonNegative(quantity))
		rec.Location = location.String
		rec.ExpiryDate = expiry.String
		rec.Condition = condition.String
		rec.BloodType = bloodType.String
		rec.Age = models.Count(nonNegative(age))
		rec.ContactEmail = contactMail.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterate %s: %w", category.Collection(), err)
	}
	span.SetAttributes(attribute.Int("donation.count", len(records)))
	return records, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveBatch upserts records into one collection in a single round trip.
func (s *PostgresStore) SaveBatch(ctx context.Context, category models.Category, records []models.DonationRecord) error {
	return saveBatch(ctx, s.db, category, records)
}

func saveBatch(ctx context.Context, ex execer, category models.Category, records []models.DonationRecord) error {
	if !category.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	records = normalize(category, records)
	if len(records) == 0 {
		return nil
	}

	n := len(records)
	ids := make([]string, n)
	names := make([]string, n)
	quantities := make([]int64, n)
	locations := make([]string, n)
	expiries := make([]string, n)
	conditions := make([]string, n)
	bloodTypes := make([]string, n)
	ages := make([]int64, n)
	emails := make([]string, n)
	for i, r := range records {
		ids[i] = r.ID
		names[i] = r.Name
		quantities[i] = int64(min(r.Quantity, models.MaxCount))
		locations[i] = r.Location
		expiries[i] = r.ExpiryDate
		conditions[i] = r.Condition
		bloodTypes[i] = r.BloodType
		ages[i] = int64(min(r.Age, models.MaxCount))
		emails[i] = r.ContactEmail
	}

	query := `
		INSERT INTO donations (collection, id, name, quantity, location, expiry_date, condition, blood_type, age, email, doc_order)
		SELECT $1, u.id, NULLIF(u.name, ''), u.quantity, NULLIF(u.location, ''), NULLIF(u.expiry_date, ''),
			NULLIF(u.condition, ''), NULLIF(u.blood_type, ''), u.age, NULLIF(u.email, ''), u.ord
		FROM unnest($2::text[], $3::text[], $4::int[], $5::text[], $6::text[], $7::text[], $8::text[], $9::int[], $10::text[])
			WITH ORDINALITY AS u(id, name, quantity, location, expiry_date, condition, blood_type, age, email, ord)
		ON CONFLICT (collection, id) DO UPDATE SET
			doc_order = EXCLUDED.doc_order,
			name = EXCLUDED.name,
			quantity = EXCLUDED.quantity,
			location = EXCLUDED.location,
			expiry_date = EXCLUDED.expiry_date,
			condition = EXCLUDED.condition,
			blood_type = EXCLUDED.blood_type,
			age = EXCLUDED.age,
			email = EXCLUDED.email
	`
	_, err := ex.ExecContext(ctx, query,
		category.Collection(),
		pq.Array(ids),
		pq.Array(names),
		pq.Array(quantities),
		pq.Array(locations),
		pq.Array(expiries),
		pq.Array(conditions),
		pq.Array(bloodTypes),
		pq.Array(ages),
		pq.Array(emails),
	)
	if err != nil {
		return fmt.Errorf("save %s batch: %w", category.Collection(), err)
	}
	return nil
}

func nonNegative(v sql.NullInt64) int {
	if !v.Valid || v.Int64 < 0 {
		return 0
	}
	return int(v.Int64)
}
