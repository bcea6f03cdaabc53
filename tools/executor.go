// Tool executor with argument normalization and timeout.
//
// Information Hiding:
// - Argument canonicalization hidden from tools
// - Timeout policy hidden from the orchestration loop

package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sharkdev/cidinha/internal/canonjson"
)

// DefaultToolTimeout bounds a single tool execution.
const DefaultToolTimeout = 30 * time.Second

// Executor runs tools with normalized arguments and a per-call timeout.
type Executor struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewExecutor creates a tool executor. A zero timeout uses DefaultToolTimeout.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout == 0 {
		timeout = DefaultToolTimeout
	}
	return &Executor{timeout: timeout, logger: slog.Default()}
}

// WithLogger sets the logger used for execution records.
func (e *Executor) WithLogger(logger *slog.Logger) *Executor {
	e.logger = logger
	return e
}

// Execute normalizes the raw arguments and runs the tool under the
// configured timeout. Model-emitted arguments arrive in whatever shape the
// provider produced (object, string-wrapped object, null); normalization
// happens here so tools only ever see a plain JSON object.
func (e *Executor) Execute(ctx context.Context, tool Tool, rawArgs json.RawMessage) Result {
	name := tool.Metadata().Name

	args, err := canonjson.NormalizeArguments(rawArgs)
	if err != nil {
		e.logger.Warn("tool arguments rejected", "tool", name, "error", err)
		return FailureResultf("argumentos inválidos para '%s': %v", name, err)
	}

	if err := ctx.Err(); err != nil {
		return FailureResult(err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	result := tool.Execute(ctx, args)
	elapsed := time.Since(started)

	if result.Err != nil {
		e.logger.Warn("tool execution failed",
			"tool", name, "duration", elapsed, "error", result.Err)
	} else {
		e.logger.Debug("tool executed",
			"tool", name, "duration", elapsed, "output_len", len(result.Output))
	}

	return result
}
