package gate

// Phase tags the gate state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingEligibility
	PhaseRevealed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingEligibility:
		return "awaiting_eligibility"
	case PhaseRevealed:
		return "revealed"
	}
	return "unknown"
}

// State is the single tagged value describing a gate. Only the fields that
// belong to the phase are set: AwaitingEligibility carries email and item
// name, Revealed carries email, Idle carries nothing.
type State struct {
	phase    Phase
	email    string
	itemName string
}

func Idle() State {
	return State{phase: PhaseIdle}
}

func AwaitingEligibility(email, itemName string) State {
	return State{phase: PhaseAwaitingEligibility, email: email, itemName: itemName}
}

func Revealed(email string) State {
	return State{phase: PhaseRevealed, email: email}
}

func (s State) Phase() Phase { return s.phase }

// Email is the contact address the state refers to. It must only be shown to
// the user when IsRevealedFor reports true.
func (s State) Email() string { return s.email }

func (s State) ItemName() string { return s.itemName }

func (s State) IsIdle() bool { return s.phase == PhaseIdle }

func (s State) IsAwaiting() bool { return s.phase == PhaseAwaitingEligibility }

// IsRevealedFor reports whether email is the currently revealed address.
func (s State) IsRevealedFor(email string) bool {
	return s.phase == PhaseRevealed && email != "" && s.email == email
}
