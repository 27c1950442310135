package browse

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"donorlink/internal/catalog"
	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
)

type stubSource struct {
	mu      sync.Mutex
	records map[models.Category][]models.DonationRecord
	errs    map[models.Category]error
}

func (s *stubSource) Fetch(_ context.Context, category models.Category) ([]models.DonationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[category]; err != nil {
		return nil, err
	}
	return s.records[category], nil
}

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	source  *stubSource
	store   *MemorySessionStore
	service *Service
	owner   id.UserID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.source = &stubSource{records: fixtureRecords(), errs: map[models.Category]error{}}
	s.store = NewMemorySessionStore(time.Minute, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := catalog.NewLoader(s.source, catalog.WithLogger(logger))
	s.service = NewService(s.store, loader,
		WithLogger(logger),
		WithMaxSessionsPerUser(2),
	)
	s.owner = id.UserID(uuid.New())
}

func (s *ServiceSuite) open() id.BrowseSessionID {
	snap, err := s.service.Open(s.ctx, s.owner)
	s.Require().NoError(err)
	return snap.SessionID
}

func (s *ServiceSuite) TestOpenLoadsAllSections() {
	snap, err := s.service.Open(s.ctx, s.owner)
	s.Require().NoError(err)

	s.Len(snap.Medicine, 3)
	s.Len(snap.Equipment, 2)
	s.Len(snap.Blood, 1)
	s.Empty(snap.Unavailable)
	s.True(snap.Contact.IsIdle())
}

func (s *ServiceSuite) TestOpenWithBloodFailure() {
	s.source.errs[models.CategoryBlood] = errors.New("permission denied")

	snap, err := s.service.Open(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Len(snap.Medicine, 3)
	s.Empty(snap.Blood)
	s.Equal([]models.Category{models.CategoryBlood}, snap.Unavailable)
}

func (s *ServiceSuite) TestOpenRequiresOwner() {
	_, err := s.service.Open(s.ctx, id.UserID{})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestSessionCapPerUser() {
	s.open()
	s.open()
	_, err := s.service.Open(s.ctx, s.owner)
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))

	_, err = s.service.Open(s.ctx, id.UserID(uuid.New()))
	s.NoError(err, "cap is per user")
}

func (s *ServiceSuite) TestSetQueryFiltersSections() {
	sid := s.open()

	snap, err := s.service.SetQuery(s.ctx, s.owner, sid, "insulin")
	s.Require().NoError(err)
	s.Equal("insulin", snap.Query)
	s.Len(snap.Medicine, 1)
	s.Len(snap.Equipment, 1)
	s.Empty(snap.Blood)

	rows, err := s.service.DonationsIn(s.ctx, s.owner, sid, models.CategoryEquipment)
	s.Require().NoError(err)
	s.Equal("e1", rows[0].ID)
}

func (s *ServiceSuite) TestOtherUsersCannotSeeSession() {
	sid := s.open()
	_, err := s.service.Donations(s.ctx, id.UserID(uuid.New()), sid)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUnknownSession() {
	_, err := s.service.ContactState(s.ctx, s.owner, id.NewBrowseSessionID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDirectContactReveal() {
	sid := s.open()

	out, err := s.service.RequestContact(s.ctx, s.owner, sid, models.CategoryMedicine, "m2")
	s.Require().NoError(err)
	s.True(out.Revealed())

	snap, err := s.service.Donations(s.ctx, s.owner, sid)
	s.Require().NoError(err)
	s.Equal("aspirin@x.org", snap.Medicine[1].ContactEmail)
	s.Empty(snap.Medicine[0].ContactEmail)

	out, err = s.service.CloseContact(s.ctx, s.owner, sid, "aspirin@x.org")
	s.Require().NoError(err)
	s.True(out.State.IsIdle())
}

func (s *ServiceSuite) TestRestrictedFlow() {
	sid := s.open()

	out, err := s.service.RequestContact(s.ctx, s.owner, sid, models.CategoryMedicine, "m3")
	s.Require().NoError(err)
	s.True(out.Screening())
	s.Equal("Adderall", out.State.ItemName())

	s.Run("second request while awaiting is rejected", func() {
		_, err := s.service.RequestContact(s.ctx, s.owner, sid, models.CategoryMedicine, "m2")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("eligible verdict reveals", func() {
		out, err := s.service.SubmitVerdict(s.ctx, s.owner, sid, true)
		s.Require().NoError(err)
		s.True(out.Revealed())

		rows, err := s.service.DonationsIn(s.ctx, s.owner, sid, models.CategoryMedicine)
		s.Require().NoError(err)
		s.Equal("adderall@x.org", rows[2].ContactEmail)
	})

	s.Run("verdict without screening is rejected", func() {
		_, err := s.service.SubmitVerdict(s.ctx, s.owner, sid, true)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

func (s *ServiceSuite) TestCancelEligibility() {
	sid := s.open()
	_, err := s.service.RequestContact(s.ctx, s.owner, sid, models.CategoryMedicine, "m3")
	s.Require().NoError(err)

	out, err := s.service.CancelEligibility(s.ctx, s.owner, sid)
	s.Require().NoError(err)
	s.True(out.State.IsIdle())
	s.Empty(out.Notice)

	out, err = s.service.CancelEligibility(s.ctx, s.owner, sid)
	s.Require().NoError(err)
	s.True(out.State.IsIdle())
}

func (s *ServiceSuite) TestRequestUnknownDonation() {
	sid := s.open()
	_, err := s.service.RequestContact(s.ctx, s.owner, sid, models.CategoryBlood, "nope")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDonationsInRejectsUnknownCategory() {
	sid := s.open()
	_, err := s.service.DonationsIn(s.ctx, s.owner, sid, models.Category("organs"))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestReloadKeepsQueryAndGate() {
	sid := s.open()
	_, err := s.service.SetQuery(s.ctx, s.owner, sid, "asp")
	s.Require().NoError(err)
	_, err = s.service.RequestContact(s.ctx, s.owner, sid, models.CategoryMedicine, "m2")
	s.Require().NoError(err)

	s.source.mu.Lock()
	s.source.records[models.CategoryMedicine] = append(s.source.records[models.CategoryMedicine],
		models.DonationRecord{ID: "m4", Category: models.CategoryMedicine, Name: "Aspirin Forte", ContactEmail: "forte@x.org"})
	s.source.errs[models.CategoryEquipment] = errors.New("timeout")
	s.source.mu.Unlock()

	snap, err := s.service.Reload(s.ctx, s.owner, sid)
	s.Require().NoError(err)
	s.Equal("asp", snap.Query)
	s.Len(snap.Medicine, 2)
	s.Empty(snap.Equipment)
	s.Equal([]models.Category{models.CategoryEquipment}, snap.Unavailable)
	s.True(snap.Contact.IsRevealedFor("aspirin@x.org"))
}

func (s *ServiceSuite) TestContactRateLimit() {
	s.service = NewService(s.store, catalog.NewLoader(s.source),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithContactRate(1, 1),
	)
	sid := s.open()

	_, err := s.service.RequestContact(s.ctx, s.owner, sid, models.CategoryMedicine, "m2")
	s.Require().NoError(err)
	_, err = s.service.RequestContact(s.ctx, s.owner, sid, models.CategoryMedicine, "m1")
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
}

func (s *ServiceSuite) TestCloseSession() {
	sid := s.open()
	s.Require().NoError(s.service.Close(s.ctx, s.owner, sid))

	_, err := s.service.Donations(s.ctx, s.owner, sid)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.True(dErrors.HasCode(s.service.Close(s.ctx, s.owner, sid), dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestConcurrentEventsOnOneSession() {
	sid := s.open()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = s.service.RequestContact(s.ctx, s.owner, sid, models.CategoryBlood, "b1")
			} else {
				_, _ = s.service.CloseContact(s.ctx, s.owner, sid, "blood@x.org")
			}
		}(i)
	}
	wg.Wait()

	state, err := s.service.ContactState(s.ctx, s.owner, sid)
	s.Require().NoError(err)
	s.False(state.IsAwaiting())
}
