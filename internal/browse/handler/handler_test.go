package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"donorlink/internal/browse"
	"donorlink/internal/browse/handler/mocks"
	"donorlink/internal/contact/gate"
	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/testutil"
)

const (
	testUser    = "7c3a1c1e-9d0a-4a52-9b7e-3f0c2f4b8a11"
	testSession = "0f1d7a52-61a2-4c7b-8d0e-2b9a34cfe901"
)

type BrowseHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
	owner   id.UserID
	sid     id.BrowseSessionID
}

func TestBrowseHandlerSuite(t *testing.T) {
	suite.Run(t, new(BrowseHandlerSuite))
}

func (s *BrowseHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)

	var err error
	s.owner, err = id.ParseUserID(testUser)
	s.Require().NoError(err)
	s.sid, err = id.ParseBrowseSessionID(testSession)
	s.Require().NoError(err)
}

func (s *BrowseHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *BrowseHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	req := testutil.NewJSONRequest(s.T(), method, path, body)
	req = testutil.WithUserID(req, testUser)
	req = testutil.WithRequestID(req, "req-1")
	return testutil.DoRequest(s.router, req)
}

func (s *BrowseHandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	return *testutil.UnmarshalResponse[map[string]any](s.T(), w)
}

func sessionPath(suffix string) string {
	return "/browse/sessions/" + testSession + suffix
}

func (s *BrowseHandlerSuite) snapshot() *browse.Snapshot {
	return &browse.Snapshot{
		SessionID: s.sid,
		Query:     "insulin",
		Medicine: []browse.Row{{
			DonationRecord: models.DonationRecord{
				ID: "m1", Category: models.CategoryMedicine, Name: "Insulin",
				Quantity: 3, ContactEmail: "donor@example.org",
			},
			Restricted: true,
		}},
		Equipment: []browse.Row{},
		Blood:     []browse.Row{},
		Contact:   gate.Idle(),
	}
}

func (s *BrowseHandlerSuite) TestOpen() {
	s.Run("creates a session for the caller", func() {
		s.service.EXPECT().Open(gomock.Any(), s.owner).Return(s.snapshot(), nil)

		w := s.do(http.MethodPost, "/browse/sessions", nil)

		s.Equal(http.StatusCreated, w.Code)
		resp := s.decode(w)
		s.Equal(testSession, resp["session_id"])
		s.Equal("insulin", resp["query"])
		medicine := resp["medicine"].([]any)
		s.Require().Len(medicine, 1)
		row := medicine[0].(map[string]any)
		s.Equal("Insulin", row["name"])
		s.Equal(true, row["restricted"])
		s.NotContains(row, "contact_email")
	})

	s.Run("rejects anonymous callers", func() {
		w := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/browse/sessions"))
		testutil.AssertStatusAndError(s.T(), w, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("maps the session cap to 429", func() {
		s.service.EXPECT().Open(gomock.Any(), s.owner).
			Return(nil, dErrors.New(dErrors.CodeRateLimited, "too many sessions"))

		w := s.do(http.MethodPost, "/browse/sessions", nil)
		s.Equal(http.StatusTooManyRequests, w.Code)
	})
}

func (s *BrowseHandlerSuite) TestSessionID() {
	s.Run("malformed session id is a bad request", func() {
		w := s.do(http.MethodGet, "/browse/sessions/not-a-uuid/donations", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("unknown session is not found", func() {
		s.service.EXPECT().Donations(gomock.Any(), s.owner, s.sid).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "browse session not found"))

		w := s.do(http.MethodGet, sessionPath("/donations"), nil)
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *BrowseHandlerSuite) TestClose() {
	s.service.EXPECT().Close(gomock.Any(), s.owner, s.sid).Return(nil)

	w := s.do(http.MethodDelete, sessionPath(""), nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *BrowseHandlerSuite) TestSetQuery() {
	s.Run("passes the query through", func() {
		s.service.EXPECT().SetQuery(gomock.Any(), s.owner, s.sid, "insulin").Return(s.snapshot(), nil)

		w := s.do(http.MethodPut, sessionPath("/query"), map[string]string{"query": "insulin"})
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("empty query is allowed", func() {
		s.service.EXPECT().SetQuery(gomock.Any(), s.owner, s.sid, "").Return(s.snapshot(), nil)

		w := s.do(http.MethodPut, sessionPath("/query"), map[string]string{"query": ""})
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("malformed body", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPut, sessionPath("/query"), "{")
		w := testutil.DoRequest(s.router, testutil.WithUserID(req, testUser))
		testutil.AssertStatusAndError(s.T(), w, http.StatusBadRequest, "bad_request")
	})
}

func (s *BrowseHandlerSuite) TestDonationsIn() {
	s.Run("lists one category", func() {
		rows := []browse.Row{{
			DonationRecord: models.DonationRecord{
				ID: "b1", Category: models.CategoryBlood, BloodType: "O+", Location: "Leeds",
				Age: 31, ContactEmail: "blood@example.org",
			},
			ContactVisible: true,
		}}
		s.service.EXPECT().DonationsIn(gomock.Any(), s.owner, s.sid, models.CategoryBlood).Return(rows, nil)

		w := s.do(http.MethodGet, sessionPath("/donations/blood"), nil)

		s.Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal("blood", resp["category"])
		row := resp["donations"].([]any)[0].(map[string]any)
		s.Equal("O+", row["blood_type"])
		s.Equal("blood@example.org", row["contact_email"])
	})

	s.Run("unknown category", func() {
		w := s.do(http.MethodGet, sessionPath("/donations/organs"), nil)
		testutil.AssertStatusAndError(s.T(), w, http.StatusBadRequest, "invalid_input")
	})
}

func (s *BrowseHandlerSuite) TestRequestContact() {
	s.Run("unrestricted item reveals at once", func() {
		s.service.EXPECT().
			RequestContact(gomock.Any(), s.owner, s.sid, models.CategoryEquipment, "e1").
			Return(gate.Outcome{State: gate.Revealed("kit@example.org")}, nil)

		w := s.do(http.MethodPost, sessionPath("/contact"),
			map[string]string{"category": "equipment", "donation_id": "e1"})

		s.Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal("revealed", resp["state"])
		s.Equal("kit@example.org", resp["email"])
	})

	s.Run("restricted item starts screening without leaking the email", func() {
		s.service.EXPECT().
			RequestContact(gomock.Any(), s.owner, s.sid, models.CategoryMedicine, "m1").
			Return(gate.Outcome{State: gate.AwaitingEligibility("donor@example.org", "Insulin")}, nil)

		w := s.do(http.MethodPost, sessionPath("/contact"),
			map[string]string{"category": "medicine", "donation_id": "m1"})

		s.Equal(http.StatusAccepted, w.Code)
		resp := s.decode(w)
		s.Equal("Insulin", resp["item_name"])
		s.NotContains(resp, "email")
	})

	s.Run("missing donation id", func() {
		w := s.do(http.MethodPost, sessionPath("/contact"), map[string]string{"category": "medicine"})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("pending screening conflicts", func() {
		s.service.EXPECT().
			RequestContact(gomock.Any(), s.owner, s.sid, models.CategoryMedicine, "m2").
			Return(gate.Outcome{}, dErrors.New(dErrors.CodeInvalidState, "an eligibility screening is already pending"))

		w := s.do(http.MethodPost, sessionPath("/contact"),
			map[string]string{"category": "medicine", "donation_id": "m2"})
		testutil.AssertStatusAndError(s.T(), w, http.StatusConflict, "invalid_state")
	})
}

func (s *BrowseHandlerSuite) TestVerdict() {
	s.Run("ineligible verdict carries the notice", func() {
		s.service.EXPECT().SubmitVerdict(gomock.Any(), s.owner, s.sid, false).
			Return(gate.Outcome{State: gate.Idle(), Notice: gate.NoticeIneligible}, nil)

		w := s.do(http.MethodPost, sessionPath("/contact/eligibility"), map[string]bool{"eligible": false})

		s.Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal("idle", resp["state"])
		s.Equal(gate.NoticeIneligible, resp["notice"])
	})

	s.Run("eligible is required", func() {
		w := s.do(http.MethodPost, sessionPath("/contact/eligibility"), map[string]string{})
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *BrowseHandlerSuite) TestCancelAndClose() {
	s.service.EXPECT().CancelEligibility(gomock.Any(), s.owner, s.sid).
		Return(gate.Outcome{State: gate.Idle()}, nil)
	w := s.do(http.MethodDelete, sessionPath("/contact/eligibility"), nil)
	s.Equal(http.StatusOK, w.Code)

	s.service.EXPECT().CloseContact(gomock.Any(), s.owner, s.sid, "kit@example.org").
		Return(gate.Outcome{State: gate.Idle()}, nil)
	w = s.do(http.MethodPost, sessionPath("/contact/close"), map[string]string{"email": " kit@example.org "})
	s.Equal(http.StatusOK, w.Code)
}

func (s *BrowseHandlerSuite) TestContactStateAndReload() {
	s.service.EXPECT().ContactState(gomock.Any(), s.owner, s.sid).Return(gate.Revealed("kit@example.org"), nil)
	w := s.do(http.MethodGet, sessionPath("/contact"), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("kit@example.org", s.decode(w)["email"])

	snap := s.snapshot()
	snap.Unavailable = []models.Category{models.CategoryBlood}
	s.service.EXPECT().Reload(gomock.Any(), s.owner, s.sid).Return(snap, nil)
	w = s.do(http.MethodPost, sessionPath("/reload"), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal([]any{"blood"}, s.decode(w)["unavailable"])
}
