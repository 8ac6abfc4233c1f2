package messaging

import "fmt"

// State tracks the broker connection lifecycle. Transitions go through a
// single function so publish/consume cannot run against a half-built
// channel.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateBound
	StateConsuming
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateBound:
		return "bound"
	case StateConsuming:
		return "consuming"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var validTransitions = map[State][]State{
	StateDisconnected: {StateConnecting},
	StateConnecting:   {StateBound, StateFailed, StateDisconnected},
	StateBound:        {StateConsuming, StateFailed, StateDisconnected},
	StateConsuming:    {StateFailed, StateDisconnected},
	StateFailed:       {StateDisconnected},
}

func (s State) canBecome(to State) bool {
	for _, next := range validTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
