// Turn state machine.
//
// The loop alternates between asking the model what to do (Deciding) and
// executing the requested tools (Acting) until a terminal condition or the
// round bound is hit.

package agent

import (
	"github.com/sharkdev/cidinha/model"
	"github.com/sharkdev/cidinha/tools"
)

// State is the orchestrator's position in the turn loop.
type State int

const (
	// StateDeciding: the model is asked what to do next.
	StateDeciding State = iota
	// StateActing: requested tool calls are being executed.
	StateActing
	// StateDone: the turn has a final message.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDeciding:
		return "deciding"
	case StateActing:
		return "acting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// stepResult is one executed tool call within an Acting step.
type stepResult struct {
	meta   tools.Metadata
	result tools.Result
}

// nextAfterDeciding routes based on the model's reply: tool calls move to
// Acting, anything else ends the turn.
func nextAfterDeciding(reply model.Message) State {
	if reply.HasToolCalls() {
		return StateActing
	}
	return StateDone
}

// nextAfterActing ends the turn only when every executed tool in the step is
// terminal and none of the outputs signals a failure. A failed terminal tool
// goes back to the model so it can retry with adjusted arguments.
func nextAfterActing(results []stepResult) State {
	if len(results) == 0 {
		return StateDeciding
	}
	for _, r := range results {
		if !r.meta.Terminal {
			return StateDeciding
		}
		if r.result.Failed() {
			return StateDeciding
		}
	}
	return StateDone
}
