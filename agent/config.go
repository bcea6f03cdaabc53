// Agent configuration.
//
// Information Hiding:
// - Default values hidden
// - Termination and cache policy knobs in one place

package agent

import (
	"time"
)

// DefaultMaxRounds bounds the decide/act loop per turn.
const DefaultMaxRounds = 8

// DefaultModelTimeout bounds a single model call.
const DefaultModelTimeout = 60 * time.Second

// Config holds orchestrator configuration.
type Config struct {
	// SystemPrompt overrides the built-in assistant prompt when set.
	SystemPrompt string

	// Contacts are known name <email> pairs injected into the prompt.
	Contacts []string

	// MaxRounds is the maximum number of decide/act round-trips per turn.
	// Zero means DefaultMaxRounds.
	MaxRounds int

	// ResetCachePerTurn clears the tool result cache at the start of every
	// turn. Off by default: entries expire by TTL instead.
	ResetCachePerTurn bool

	// ModelTimeout bounds each model call. Zero means DefaultModelTimeout.
	ModelTimeout time.Duration

	// ToolTimeout bounds each tool call. Zero uses the executor default.
	ToolTimeout time.Duration

	// Clock is the time source for the temporal prompt context.
	// Nil means time.Now.
	Clock func() time.Time
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		MaxRounds:    DefaultMaxRounds,
		ModelTimeout: DefaultModelTimeout,
	}
}

func (c Config) maxRounds() int {
	if c.MaxRounds <= 0 {
		return DefaultMaxRounds
	}
	return c.MaxRounds
}

func (c Config) modelTimeout() time.Duration {
	if c.ModelTimeout <= 0 {
		return DefaultModelTimeout
	}
	return c.ModelTimeout
}

func (c Config) clock() func() time.Time {
	if c.Clock == nil {
		return time.Now
	}
	return c.Clock
}
