package login

// State identifies a position in the login state machine. Transitions are
// linear; there is no branching back.
type State int

const (
	// StateIdle is the initial state before any network traffic.
	StateIdle State = iota

	// StateSessionInit means the session cookie request has been issued.
	StateSessionInit

	// StateTokenFetch means the anti-forgery token is being fetched.
	StateTokenFetch

	// StatePhaseOneSent means the challenge request has been posted.
	StatePhaseOneSent

	// StatePhaseOneReceived means the challenge response has been parsed.
	StatePhaseOneReceived

	// StateProofComputed means the client proof has been derived.
	StateProofComputed

	// StatePhaseTwoSent means the authentication request has been posted.
	StatePhaseTwoSent

	// StatePhaseTwoReceived means the authentication response has been parsed.
	StatePhaseTwoReceived

	// StateVerified is the terminal success state.
	StateVerified

	// StateFailed is the terminal failure state, reachable from any state.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSessionInit:
		return "SessionInit"
	case StateTokenFetch:
		return "TokenFetch"
	case StatePhaseOneSent:
		return "PhaseOneSent"
	case StatePhaseOneReceived:
		return "PhaseOneReceived"
	case StateProofComputed:
		return "ProofComputed"
	case StatePhaseTwoSent:
		return "PhaseTwoSent"
	case StatePhaseTwoReceived:
		return "PhaseTwoReceived"
	case StateVerified:
		return "Verified"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
