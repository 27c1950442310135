// Package browse owns browse sessions: one catalog filter and one shared
// contact gate per user session, plus the service that serializes events per
// session for the HTTP surface.
package browse

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"donorlink/internal/catalog"
	"donorlink/internal/contact/gate"
	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
)

// Row is one displayed donation. ContactEmail is empty unless the gate has
// revealed that exact address.
type Row struct {
	models.DonationRecord
	Restricted     bool
	ContactVisible bool
}

// Session is the explicit state of one user's browsing: the active query, the
// loaded collections and the contact gate shared by all three sections.
// A Session is not safe for concurrent use.
type Session struct {
	ID        id.BrowseSessionID
	Owner     id.UserID
	CreatedAt time.Time

	filter  *catalog.Filter
	gate    *gate.Gate
	limiter *rate.Limiter
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithContactLimit throttles RequestContact for the session.
func WithContactLimit(limit rate.Limit, burst int) SessionOption {
	return func(s *Session) {
		if limit > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(limit, burst)
		}
	}
}

func NewSession(sessionID id.BrowseSessionID, owner id.UserID, screen gate.Screen, now time.Time, opts ...SessionOption) *Session {
	s := &Session{
		ID:        sessionID,
		Owner:     owner,
		CreatedAt: now,
		filter:    catalog.NewFilter(),
		gate:      gate.New(screen),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Filter exposes the catalog filter so a loader can fill it.
func (s *Session) Filter() *catalog.Filter {
	return s.filter
}

func (s *Session) SetSearchQuery(q string) {
	s.filter.SetQuery(q)
}

func (s *Session) SearchQuery() string {
	return s.filter.Query()
}

func (s *Session) FilteredMedicine() []Row {
	return s.rows(models.CategoryMedicine)
}

func (s *Session) FilteredEquipment() []Row {
	return s.rows(models.CategoryEquipment)
}

func (s *Session) FilteredBlood() []Row {
	return s.rows(models.CategoryBlood)
}

// Filtered returns the rows for any category.
func (s *Session) Filtered(category models.Category) []Row {
	return s.rows(category)
}

func (s *Session) rows(category models.Category) []Row {
	records := s.filter.Filtered(category)
	out := make([]Row, len(records))
	for i, rec := range records {
		visible := s.gate.IsRevealed(rec.ContactEmail)
		if !visible {
			rec.ContactEmail = ""
		}
		out[i] = Row{
			DonationRecord: rec,
			Restricted:     gate.IsRestricted(rec),
			ContactVisible: visible,
		}
	}
	return out
}

// Find returns the full record, including its contact address, for internal use.
func (s *Session) Find(category models.Category, donationID string) (models.DonationRecord, error) {
	rec, ok := s.filter.Find(category, donationID)
	if !ok {
		return models.DonationRecord{}, dErrors.New(dErrors.CodeNotFound, "donation not found")
	}
	return rec, nil
}

// RequestContact runs the contact gate for rec.
func (s *Session) RequestContact(ctx context.Context, rec models.DonationRecord) (gate.Outcome, error) {
	if s.limiter != nil && !s.limiter.Allow() {
		return gate.Outcome{State: s.gate.State()}, dErrors.New(dErrors.CodeRateLimited, "too many contact requests")
	}
	return s.gate.RequestContact(ctx, rec)
}

func (s *Session) CloseContact(email string) gate.Outcome {
	return s.gate.CloseContact(email)
}

func (s *Session) OnEligibilityVerdict(eligible bool) (gate.Outcome, error) {
	return s.gate.OnEligibilityVerdict(eligible)
}

func (s *Session) CancelEligibility() gate.Outcome {
	return s.gate.CancelEligibility()
}

func (s *Session) ContactState() gate.State {
	return s.gate.State()
}
