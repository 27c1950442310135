package browse

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"donorlink/internal/browse/metrics"
	"donorlink/internal/catalog"
	"donorlink/internal/contact/eligibility"
	"donorlink/internal/contact/gate"
	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/platform/sentinel"
	"donorlink/pkg/requestcontext"
)

// SessionStore persists live browse sessions.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Find(ctx context.Context, sessionID id.BrowseSessionID) (*Session, error)
	Delete(ctx context.Context, sessionID id.BrowseSessionID) error
	CountByOwner(ctx context.Context, owner id.UserID) int
}

// CatalogLoader fills a filter with every donation category.
type CatalogLoader interface {
	Load(ctx context.Context, filter *catalog.Filter) catalog.LoadReport
}

// Snapshot is the three-section view of a session.
type Snapshot struct {
	SessionID id.BrowseSessionID
	Query     string
	Medicine  []Row
	Equipment []Row
	Blood     []Row
	Contact   gate.State
	// Unavailable lists categories whose last fetch failed.
	Unavailable []models.Category
}

// Service serializes browse events per session for the HTTP surface.
type Service struct {
	sessions SessionStore
	loader   CatalogLoader
	locks    *sessionLocks
	logger   *slog.Logger
	metrics  *metrics.Metrics

	contactLimit       rate.Limit
	contactBurst       int
	maxSessionsPerUser int
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithContactRate allows perMinute contact requests per session with the given burst.
func WithContactRate(perMinute, burst int) Option {
	return func(s *Service) {
		if perMinute > 0 && burst > 0 {
			s.contactLimit = rate.Every(time.Minute / time.Duration(perMinute))
			s.contactBurst = burst
		}
	}
}

// WithMaxSessionsPerUser caps concurrently open sessions per user; zero disables the cap.
func WithMaxSessionsPerUser(n int) Option {
	return func(s *Service) {
		s.maxSessionsPerUser = n
	}
}

func NewService(sessions SessionStore, loader CatalogLoader, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		loader:   loader,
		locks:    &sessionLocks{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Open creates a session for owner and loads the catalog into it.
func (s *Service) Open(ctx context.Context, owner id.UserID) (*Snapshot, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if s.maxSessionsPerUser > 0 && s.sessions.CountByOwner(ctx, owner) >= s.maxSessionsPerUser {
		return nil, dErrors.New(dErrors.CodeRateLimited, "too many open browse sessions")
	}

	var opts []SessionOption
	if s.contactLimit > 0 {
		opts = append(opts, WithContactLimit(s.contactLimit, s.contactBurst))
	}
	session := NewSession(id.NewBrowseSessionID(), owner,
		eligibility.NewDeferred(s.logger), requestcontext.Now(ctx), opts...)

	report := s.loader.Load(ctx, session.Filter())
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save browse session")
	}
	s.metrics.IncrementSessionsOpened()
	s.logger.InfoContext(ctx, "browse session opened",
		"session_id", session.ID.String(),
		"failed_categories", len(report.Failed),
		"request_id", requestcontext.RequestID(ctx),
	)

	snap := snapshot(session)
	snap.Unavailable = report.Failed
	return snap, nil
}

// Close ends a session. Any pending screening is dismissed.
func (s *Service) Close(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) error {
	return s.withSession(ctx, owner, sessionID, func(_ context.Context, session *Session) error {
		session.CancelEligibility()
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			return s.translateStoreErr(err)
		}
		return nil
	}, false)
}

func (s *Service) SetQuery(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID, query string) (*Snapshot, error) {
	var snap *Snapshot
	err := s.withSession(ctx, owner, sessionID, func(_ context.Context, session *Session) error {
		session.SetSearchQuery(query)
		snap = snapshot(session)
		return nil
	}, true)
	return snap, err
}

// Donations returns the three filtered sections.
func (s *Service) Donations(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) (*Snapshot, error) {
	var snap *Snapshot
	err := s.withSession(ctx, owner, sessionID, func(_ context.Context, session *Session) error {
		snap = snapshot(session)
		return nil
	}, true)
	return snap, err
}

// DonationsIn returns one filtered section.
func (s *Service) DonationsIn(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID, category models.Category) ([]Row, error) {
	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown donation category")
	}
	var rows []Row
	err := s.withSession(ctx, owner, sessionID, func(_ context.Context, session *Session) error {
		rows = session.Filtered(category)
		return nil
	}, true)
	return rows, err
}

func (s *Service) ContactState(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) (gate.State, error) {
	var state gate.State
	err := s.withSession(ctx, owner, sessionID, func(_ context.Context, session *Session) error {
		state = session.ContactState()
		return nil
	}, true)
	return state, err
}

// RequestContact runs the gate for the addressed donation.
func (s *Service) RequestContact(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID, category models.Category, donationID string) (gate.Outcome, error) {
	var out gate.Outcome
	err := s.withSession(ctx, owner, sessionID, func(ctx context.Context, session *Session) error {
		rec, err := session.Find(category, donationID)
		if err != nil {
			return err
		}
		out, err = session.RequestContact(ctx, rec)
		if err != nil {
			s.metrics.IncrementContactOutcome(metrics.OutcomeRejected)
			s.logger.InfoContext(ctx, "contact request rejected",
				"session_id", sessionID.String(),
				"category", category.String(),
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			return err
		}
		if out.Screening() {
			s.metrics.IncrementContactOutcome(metrics.OutcomeScreening)
		} else {
			s.metrics.IncrementContactOutcome(metrics.OutcomeRevealed)
		}
		s.logger.InfoContext(ctx, "contact requested",
			"session_id", sessionID.String(),
			"category", category.String(),
			"phase", out.State.Phase().String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	}, true)
	return out, err
}

func (s *Service) CloseContact(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID, email string) (gate.Outcome, error) {
	var out gate.Outcome
	err := s.withSession(ctx, owner, sessionID, func(_ context.Context, session *Session) error {
		before := session.ContactState()
		out = session.CloseContact(email)
		if before.Phase() != out.State.Phase() {
			s.metrics.IncrementContactOutcome(metrics.OutcomeClosed)
		}
		return nil
	}, true)
	return out, err
}

// SubmitVerdict delivers the eligibility verdict for the pending screening.
func (s *Service) SubmitVerdict(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID, eligible bool) (gate.Outcome, error) {
	var out gate.Outcome
	err := s.withSession(ctx, owner, sessionID, func(ctx context.Context, session *Session) error {
		var err error
		out, err = session.OnEligibilityVerdict(eligible)
		if err != nil {
			return err
		}
		if eligible {
			s.metrics.IncrementContactOutcome(metrics.OutcomeRevealed)
		} else {
			s.metrics.IncrementContactOutcome(metrics.OutcomeDenied)
		}
		s.logger.InfoContext(ctx, "eligibility verdict applied",
			"session_id", sessionID.String(),
			"eligible", eligible,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	}, true)
	return out, err
}

// CancelEligibility dismisses a pending screening; no-op otherwise.
func (s *Service) CancelEligibility(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) (gate.Outcome, error) {
	var out gate.Outcome
	err := s.withSession(ctx, owner, sessionID, func(_ context.Context, session *Session) error {
		wasAwaiting := session.ContactState().IsAwaiting()
		out = session.CancelEligibility()
		if wasAwaiting {
			s.metrics.IncrementContactOutcome(metrics.OutcomeCancelled)
		}
		return nil
	}, true)
	return out, err
}

// Reload refetches every category. The fetch runs outside the session lock;
// only swapping the collections in is serialized with other events.
func (s *Service) Reload(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) (*Snapshot, error) {
	if _, err := s.lookup(ctx, owner, sessionID); err != nil {
		return nil, err
	}

	fresh := catalog.NewFilter()
	report := s.loader.Load(ctx, fresh)

	var snap *Snapshot
	err := s.withSession(ctx, owner, sessionID, func(_ context.Context, session *Session) error {
		session.Filter().Replace(fresh)
		snap = snapshot(session)
		snap.Unavailable = report.Failed
		return nil
	}, true)
	return snap, err
}

func (s *Service) withSession(
	ctx context.Context,
	owner id.UserID,
	sessionID id.BrowseSessionID,
	fn func(ctx context.Context, session *Session) error,
	touch bool,
) error {
	return s.locks.run(ctx, sessionID.String(), func(ctx context.Context) error {
		session, err := s.lookup(ctx, owner, sessionID)
		if err != nil {
			return err
		}
		if err := fn(ctx, session); err != nil {
			return err
		}
		if touch {
			if err := s.sessions.Save(ctx, session); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save browse session")
			}
		}
		return nil
	})
}

// lookup hides sessions owned by someone else behind not-found.
func (s *Service) lookup(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) (*Session, error) {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, s.translateStoreErr(err)
	}
	if session.Owner != owner {
		return nil, dErrors.New(dErrors.CodeNotFound, "browse session not found")
	}
	return session, nil
}

func (s *Service) translateStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "browse session not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "browse session store failure")
}

// OnSessionEvicted keeps the active-session gauge accurate. It runs from the
// session store, possibly while the session's shard lock is held, so it must
// not touch the session.
func (s *Service) OnSessionEvicted(_ *Session) {
	s.metrics.DecrementActiveSessions()
}

func snapshot(session *Session) *Snapshot {
	return &Snapshot{
		SessionID: session.ID,
		Query:     session.SearchQuery(),
		Medicine:  session.FilteredMedicine(),
		Equipment: session.FilteredEquipment(),
		Blood:     session.FilteredBlood(),
		Contact:   session.ContactState(),
	}
}
