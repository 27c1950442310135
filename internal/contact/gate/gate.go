// Package gate decides, per contact request, whether a donor's contact
// address is revealed directly or only after an eligibility screening.
package gate

import (
	"context"

	"donorlink/internal/donation/models"
	dErrors "donorlink/pkg/domain-errors"
)

// NoticeIneligible is shown when a screening ends with a negative verdict.
const NoticeIneligible = "You are not eligible to contact this donor."

// resolver is implemented by screens that want to know their verdict was consumed.
type resolver interface {
	Resolved()
}

// Outcome is the result of one gate transition.
type Outcome struct {
	State State
	// Notice is a user-facing message; only a negative verdict sets it.
	Notice string
}

// Revealed reports whether the transition ended with an address revealed.
func (o Outcome) Revealed() bool {
	return o.State.Phase() == PhaseRevealed
}

// Screening reports whether the transition opened an eligibility screening.
func (o Outcome) Screening() bool {
	return o.State.IsAwaiting()
}

// Gate is the contact state machine for one browse session. It holds at most
// one outstanding contact request. A Gate is not safe for concurrent use.
type Gate struct {
	state  State
	screen Screen
}

func New(screen Screen) *Gate {
	return &Gate{state: Idle(), screen: screen}
}

func (g *Gate) State() State {
	return g.state
}

// IsRevealed reports whether email may currently be shown.
func (g *Gate) IsRevealed(email string) bool {
	return g.state.IsRevealedFor(email)
}

// RequestContact starts a contact episode for rec. Unrestricted records are
// revealed immediately, replacing any earlier reveal. Restricted medicines
// open a screening instead. A request while a screening is pending is rejected.
func (g *Gate) RequestContact(ctx context.Context, rec models.DonationRecord) (Outcome, error) {
	if g.state.IsAwaiting() {
		return Outcome{State: g.state}, dErrors.New(dErrors.CodeInvalidState,
			"an eligibility screening is already pending")
	}
	if rec.ContactEmail == "" {
		return Outcome{State: g.state}, dErrors.New(dErrors.CodeInvalidInput,
			"donation has no contact address")
	}

	if !IsRestricted(rec) {
		g.state = Revealed(rec.ContactEmail)
		return Outcome{State: g.state}, nil
	}

	if g.screen == nil {
		return Outcome{State: g.state}, dErrors.New(dErrors.CodeUnavailable,
			"eligibility screening is not available")
	}
	if err := g.screen.Present(ctx, rec.Name); err != nil {
		return Outcome{State: g.state}, dErrors.Wrap(err, dErrors.CodeUnavailable,
			"failed to present eligibility screening")
	}
	g.state = AwaitingEligibility(rec.ContactEmail, rec.Name)
	return Outcome{State: g.state}, nil
}

// OnEligibilityVerdict resolves the pending screening. A verdict with no
// screening pending is rejected.
func (g *Gate) OnEligibilityVerdict(eligible bool) (Outcome, error) {
	if !g.state.IsAwaiting() {
		return Outcome{State: g.state}, dErrors.New(dErrors.CodeInvalidState,
			"no eligibility screening is pending")
	}
	email := g.state.Email()
	if r, ok := g.screen.(resolver); ok {
		r.Resolved()
	}
	if eligible {
		g.state = Revealed(email)
		return Outcome{State: g.state}, nil
	}
	g.state = Idle()
	return Outcome{State: g.state, Notice: NoticeIneligible}, nil
}

// CancelEligibility abandons a pending screening without a reveal or notice.
// It is a no-op when no screening is pending.
func (g *Gate) CancelEligibility() Outcome {
	if !g.state.IsAwaiting() {
		return Outcome{State: g.state}
	}
	if g.screen != nil {
		g.screen.Dismiss()
	}
	g.state = Idle()
	return Outcome{State: g.state}
}

// CloseContact hides email if it is the revealed address; otherwise no-op.
func (g *Gate) CloseContact(email string) Outcome {
	if g.state.IsRevealedFor(email) {
		g.state = Idle()
	}
	return Outcome{State: g.state}
}
