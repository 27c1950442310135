package gate

import "context"

//go:generate mockgen -source=screen.go -destination=mocks/mocks.go -package=mocks

// Screen presents the eligibility questionnaire. The verdict arrives later
// through Gate.OnEligibilityVerdict.
type Screen interface {
	Present(ctx context.Context, itemName string) error
	Dismiss()
}
