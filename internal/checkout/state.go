package checkout

// State is a checkout attempt's position in the saga.
type State string

const (
	StateIdle               State = "Idle"
	StateCustomerResolution State = "CustomerResolution"
	StateOrderCreation      State = "OrderCreation"
	StateItemInsertion      State = "ItemInsertion"
	StateCompleted          State = "Completed"
	StateFailed             State = "Failed"
)

var transitions = map[State][]State{
	StateIdle:               {StateCustomerResolution, StateFailed},
	StateCustomerResolution: {StateOrderCreation, StateFailed},
	StateOrderCreation:      {StateItemInsertion, StateFailed},
	StateItemInsertion:      {StateCompleted, StateFailed},
}

// CanTransitionTo reports whether a checkout in from may move to to.
// Completed and Failed are terminal.
func CanTransitionTo(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}
