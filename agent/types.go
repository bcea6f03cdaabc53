// Package agent provides the conversational turn orchestrator.
//
// Contains the turn input/output types exchanged with the UI/session layer.
package agent

import (
	"github.com/sharkdev/cidinha/auth"
	"github.com/sharkdev/cidinha/llm"
	"github.com/sharkdev/cidinha/storage"
)

// Attachment is a file uploaded with the turn.
type Attachment struct {
	Name string
	MIME string
	Data []byte
}

// Identity names the speaker for context injection.
type Identity struct {
	Name  string
	Email string
}

// TurnInput is everything the session layer hands over for one turn.
type TurnInput struct {
	// History is the prior conversation as raw records. Records with
	// empty or unrecognized roles are dropped, not rejected.
	History []storage.ChatRecord

	// NewText is the user's new message, possibly empty.
	NewText string

	// Attachments uploaded with this turn.
	Attachments []Attachment

	// Credential is the session's delegated Google credential, if logged in.
	Credential *auth.Credential

	// Identity of the speaker, if known.
	Identity *Identity
}

// TurnOutput is the single assistant reply produced for a turn.
type TurnOutput struct {
	Role    string
	Content string

	// Rounds is the number of model decision rounds consumed.
	Rounds int

	// Usage is the accumulated token usage across model calls, when the
	// provider reports it.
	Usage *llm.TokenUsage
}
