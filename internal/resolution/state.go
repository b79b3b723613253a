package resolution

// State identifies where a resolution session is in its lifecycle.
type State string

const (
	StateIdle        State = "Idle"
	StateSearching   State = "Searching"
	StateKnownFood   State = "KnownFood"
	StateUnknownFood State = "UnknownFood"
	StateEstimating  State = "Estimating"
	StateReviewing   State = "Reviewing"
	StateCommitting  State = "Committing"
	StateDone        State = "Done"
	StateFailed      State = "Failed"
)

// transitions is the legality table for session state changes. Cancel is
// allowed from every state and is handled separately.
var transitions = map[State][]State{
	StateIdle:        {StateSearching, StateKnownFood, StateUnknownFood},
	StateSearching:   {StateSearching, StateKnownFood, StateUnknownFood},
	StateKnownFood:   {StateCommitting},
	StateUnknownFood: {StateEstimating},
	StateEstimating:  {StateReviewing, StateFailed},
	StateReviewing:   {StateReviewing, StateCommitting},
	StateCommitting:  {StateDone, StateFailed},
	// Failed re-enters Estimating on retry, or Committing on a manual
	// re-attempt after a failed write.
	StateFailed: {StateEstimating, StateCommitting},
	StateDone:   {},
}

// canTransition reports whether moving from one state to another is legal.
func canTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
