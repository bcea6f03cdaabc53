// Response normalization.
//
// Reduces the final message of a turn into a canonical reply string. The
// reply is never empty: pending tool work and content-free messages fall
// back to fixed sentinels.

package agent

import (
	"github.com/sharkdev/cidinha/model"
)

// Sentinel replies for turns that end without renderable text.
const (
	// MsgProcessing: the loop ended with tool work still pending.
	MsgProcessing = "🤔 Processando ferramentas..."
	// MsgDone: the model produced no text but nothing is pending.
	MsgDone = "✅ Feito."
)

// normalizeResponse reduces the final message into the reply string.
// Text blocks are concatenated with newlines; non-text blocks are ignored.
func normalizeResponse(final model.Message, state State) string {
	if state != StateDone || final.HasToolCalls() {
		return MsgProcessing
	}
	if text := final.Text(); text != "" {
		return text
	}
	return MsgDone
}
