package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"donorlink/internal/browse"
	"donorlink/internal/contact/gate"
	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/platform/httputil"
	"donorlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the browse operations the HTTP surface needs.
type Service interface {
	Open(ctx context.Context, owner id.UserID) (*browse.Snapshot, error)
	Close(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) error
	SetQuery(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID, query string) (*browse.Snapshot, error)
	Donations(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) (*browse.Snapshot, error)
	DonationsIn(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID, category models.Category) ([]browse.Row, error)
	ContactState(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) (gate.State, error)
	RequestContact(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID, category models.Category, donationID string) (gate.Outcome, error)
	CloseContact(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID, email string) (gate.Outcome, error)
	SubmitVerdict(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID, eligible bool) (gate.Outcome, error)
	CancelEligibility(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) (gate.Outcome, error)
	Reload(ctx context.Context, owner id.UserID, sessionID id.BrowseSessionID) (*browse.Snapshot, error)
}

// Handler wires browse endpoints to the browse service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts browse endpoints on the router. Callers mount it behind
// the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/browse/sessions", h.HandleOpen)
	r.Route("/browse/sessions/{sessionID}", func(r chi.Router) {
		r.Delete("/", h.HandleClose)
		r.Post("/reload", h.HandleReload)
		r.Put("/query", h.HandleSetQuery)
		r.Get("/donations", h.HandleDonations)
		r.Get("/donations/{category}", h.HandleDonationsIn)
		r.Get("/contact", h.HandleContactState)
		r.Post("/contact", h.HandleRequestContact)
		r.Post("/contact/close", h.HandleCloseContact)
		r.Post("/contact/eligibility", h.HandleVerdict)
		r.Delete("/contact/eligibility", h.HandleCancelEligibility)
	})
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}

func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (id.UserID, id.BrowseSessionID, bool) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return id.UserID{}, id.BrowseSessionID{}, false
	}
	sessionID, err := id.ParseBrowseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, id.BrowseSessionID{}, false
	}
	return userID, sessionID, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	log := h.logger.InfoContext
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		log = h.logger.ErrorContext
	}
	log(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}

// HandleOpen handles POST /browse/sessions.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	snap, err := h.service.Open(ctx, userID)
	if err != nil {
		h.fail(ctx, w, "open browse session failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromSnapshot(snap))
}

// HandleClose handles DELETE /browse/sessions/{sessionID}.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if err := h.service.Close(ctx, userID, sessionID); err != nil {
		h.fail(ctx, w, "close browse session failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReload handles POST /browse/sessions/{sessionID}/reload.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	snap, err := h.service.Reload(ctx, userID, sessionID)
	if err != nil {
		h.fail(ctx, w, "reload browse session failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSnapshot(snap))
}

// HandleSetQuery handles PUT /browse/sessions/{sessionID}/query.
func (h *Handler) HandleSetQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetQueryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	snap, err := h.service.SetQuery(ctx, userID, sessionID, req.Query)
	if err != nil {
		h.fail(ctx, w, "set search query failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSnapshot(snap))
}

// HandleDonations handles GET /browse/sessions/{sessionID}/donations.
func (h *Handler) HandleDonations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	snap, err := h.service.Donations(ctx, userID, sessionID)
	if err != nil {
		h.fail(ctx, w, "list donations failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSnapshot(snap))
}

// HandleDonationsIn handles GET /browse/sessions/{sessionID}/donations/{category}.
func (h *Handler) HandleDonationsIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	category, err := models.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rows, err := h.service.DonationsIn(ctx, userID, sessionID, category)
	if err != nil {
		h.fail(ctx, w, "list donations failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SectionResponse{
		Category:  category.String(),
		Donations: FromRows(rows),
	})
}

// HandleContactState handles GET /browse/sessions/{sessionID}/contact.
func (h *Handler) HandleContactState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	state, err := h.service.ContactState(ctx, userID, sessionID)
	if err != nil {
		h.fail(ctx, w, "read contact state failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromState(state))
}

// HandleRequestContact handles POST /browse/sessions/{sessionID}/contact.
func (h *Handler) HandleRequestContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ContactRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	out, err := h.service.RequestContact(ctx, userID, sessionID, req.ParsedCategory(), req.DonationID)
	if err != nil {
		h.fail(ctx, w, "contact request failed", err)
		return
	}
	status := http.StatusOK
	if out.Screening() {
		status = http.StatusAccepted
	}
	httputil.WriteJSON(w, status, FromOutcome(out))
}

// HandleCloseContact handles POST /browse/sessions/{sessionID}/contact/close.
func (h *Handler) HandleCloseContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CloseContactRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	out, err := h.service.CloseContact(ctx, userID, sessionID, req.Email)
	if err != nil {
		h.fail(ctx, w, "close contact failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOutcome(out))
}

// HandleVerdict handles POST /browse/sessions/{sessionID}/contact/eligibility.
func (h *Handler) HandleVerdict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VerdictRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	out, err := h.service.SubmitVerdict(ctx, userID, sessionID, *req.Eligible)
	if err != nil {
		h.fail(ctx, w, "eligibility verdict failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOutcome(out))
}

// HandleCancelEligibility handles DELETE /browse/sessions/{sessionID}/contact/eligibility.
func (h *Handler) HandleCancelEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	out, err := h.service.CancelEligibility(ctx, userID, sessionID)
	if err != nil {
		h.fail(ctx, w, "cancel eligibility failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOutcome(out))
}
