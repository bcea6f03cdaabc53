// Conversational turn orchestrator.
//
// One Invoke call processes one turn: normalize the input, then alternate
// between model decisions and tool executions until the turn terminates.
// Model and auth failures become graceful user-visible replies, never
// errors past the Invoke boundary.
//
// Information Hiding:
// - Loop state and round accounting hidden
// - Cache consultation and credential binding hidden from tools
// - Provider communication hidden behind llm.Client

package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sharkdev/cidinha/auth"
	"github.com/sharkdev/cidinha/llm"
	"github.com/sharkdev/cidinha/model"
	"github.com/sharkdev/cidinha/toolcache"
	"github.com/sharkdev/cidinha/tools"
)

// expiredSessionNote is injected into the turn when a refresh fails so the
// model tells the user to authenticate again.
const expiredSessionNote = "\n[SISTEMA]: A sessão do Google expirou e não pôde ser renovada. " +
	"Peça para o usuário fazer login novamente antes de usar agenda ou e-mail."

// Agent orchestrates one conversational turn at a time.
type Agent struct {
	config      Config
	client      *llm.Client
	registry    *tools.Registry
	executor    *tools.Executor
	cache       *toolcache.Cache
	authManager *auth.Manager
	logger      *slog.Logger
}

// New creates an orchestrator over the given provider and tool registry.
func New(config Config, provider llm.Provider, registry *tools.Registry) *Agent {
	return &Agent{
		config:      config,
		client:      llm.NewClient(provider),
		registry:    registry,
		executor:    tools.NewExecutor(config.ToolTimeout),
		cache:       toolcache.New(0),
		authManager: auth.NewManager(),
		logger:      slog.Default(),
	}
}

// WithCache replaces the tool result cache (shared across agents, or tuned TTL).
func (a *Agent) WithCache(cache *toolcache.Cache) *Agent {
	if cache != nil {
		a.cache = cache
	}
	return a
}

// WithAuthManager replaces the credential lifecycle manager.
func (a *Agent) WithAuthManager(manager *auth.Manager) *Agent {
	if manager != nil {
		a.authManager = manager
	}
	return a
}

// WithLogger sets the logger.
func (a *Agent) WithLogger(logger *slog.Logger) *Agent {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Cache returns the tool result cache, for stats reporting.
func (a *Agent) Cache() *toolcache.Cache {
	return a.cache
}

// Invoke processes one turn and always produces a reply.
func (a *Agent) Invoke(ctx context.Context, in TurnInput) TurnOutput {
	started := time.Now()

	if a.config.ResetCachePerTurn {
		cleared := a.cache.Clear()
		a.logger.Debug("tool cache reset for turn", "cleared", cleared)
	}

	cred, authNote := a.prepareCredential(ctx, in.Credential)
	turnTools := a.registry.ForTurn(cred)

	messages := normalizeHistory(in.History)
	userMsg := buildUserMessage(in)
	if authNote != "" {
		userMsg.Content = append(userMsg.Content, model.TextBlock{Text: authNote})
	}
	messages = append(messages, userMsg)

	request := llm.Request{
		System: buildSystemPrompt(a.config),
		Tools:  toolDefinitions(a.registry.List()),
	}

	var totalUsage llm.TokenUsage
	var usageSeen bool
	state := StateDeciding
	final := model.Message{Role: model.RoleAssistant}
	rounds := 0

	for state != StateDone {
		if rounds >= a.config.maxRounds() {
			a.logger.Warn("round bound reached, forcing termination", "rounds", rounds)
			break
		}
		if ctx.Err() != nil {
			a.logger.Warn("turn cancelled", "error", ctx.Err())
			break
		}
		rounds++

		request.Messages = messages
		reply, err := a.decide(ctx, request)
		if err != nil {
			a.logger.Error("model invocation failed", "error", err, "round", rounds)
			return TurnOutput{
				Role:    "assistant",
				Content: fmt.Sprintf("Desculpe, ocorreu um erro interno no agente: %v", err),
				Rounds:  rounds,
				Usage:   usagePtr(totalUsage, usageSeen),
			}
		}
		if reply.Usage != nil {
			totalUsage.Add(reply.Usage)
			usageSeen = true
		}

		messages = append(messages, reply.Message)
		final = reply.Message

		state = nextAfterDeciding(reply.Message)
		if state != StateActing {
			continue
		}

		results, resultMessages := a.act(ctx, turnTools, reply.Message.ToolCalls())
		messages = append(messages, resultMessages...)

		state = nextAfterActing(results)
		if state == StateDone {
			// Terminal tools end the turn with their own output.
			final = model.AssistantText(joinResults(results))
		}
	}

	content := normalizeResponse(final, state)
	a.logger.Info("turn finished",
		"state", state.String(),
		"rounds", rounds,
		"duration", time.Since(started),
		"reply_len", len(content))

	return TurnOutput{
		Role:    "assistant",
		Content: content,
		Rounds:  rounds,
		Usage:   usagePtr(totalUsage, usageSeen),
	}
}

// Stream produces a direct streaming reply without consulting tools. Used
// for plain conversational turns where tool routing is not wanted.
func (a *Agent) Stream(ctx context.Context, in TurnInput, chunks chan<- string) (*llm.TokenUsage, error) {
	messages := append(normalizeHistory(in.History), buildUserMessage(in))

	ctx, cancel := context.WithTimeout(ctx, a.config.modelTimeout())
	defer cancel()
	return a.client.StreamChat(ctx, llm.Request{
		System:   buildSystemPrompt(a.config),
		Messages: messages,
	}, chunks)
}

// prepareCredential validates the session credential. A failed refresh or an
// unusable credential downgrades the turn to anonymous; the note tells the
// model to ask for a re-login only when a refresh actually failed.
func (a *Agent) prepareCredential(ctx context.Context, cred *auth.Credential) (*auth.Credential, string) {
	if cred == nil {
		return nil, ""
	}

	ok, err := a.authManager.EnsureValid(ctx, cred)
	if ok {
		return cred, ""
	}
	if errors.Is(err, auth.ErrRefreshFailed) {
		a.logger.Warn("credential refresh failed, proceeding without credential", "error", err)
		return nil, expiredSessionNote
	}
	a.logger.Debug("no usable credential for turn", "error", err)
	return nil, ""
}

// decide asks the model for the next step under the model-call timeout.
func (a *Agent) decide(ctx context.Context, request llm.Request) (llm.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, a.config.modelTimeout())
	defer cancel()
	return a.client.Chat(ctx, request)
}

// act executes the requested tool calls in the order the model emitted
// them, consulting the cache before every execution. Results come back both
// as step results (for routing) and as tool-result messages (for the model).
func (a *Agent) act(ctx context.Context, turnTools *tools.TurnRegistry, calls []model.ToolCallBlock) ([]stepResult, []model.Message) {
	results := make([]stepResult, 0, len(calls))
	messages := make([]model.Message, 0, len(calls))

	for _, call := range calls {
		meta, result := a.runToolCall(ctx, turnTools, call)
		results = append(results, stepResult{meta: meta, result: result})
		messages = append(messages, model.ToolResult(call.Name, call.ID, result.Text()))
	}

	return results, messages
}

// runToolCall resolves and executes one tool call. Unknown tools and
// execution failures become failure results, never panics or errors.
func (a *Agent) runToolCall(ctx context.Context, turnTools *tools.TurnRegistry, call model.ToolCallBlock) (tools.Metadata, tools.Result) {
	tool, err := turnTools.Resolve(call.Name)
	if err != nil {
		a.logger.Warn("model requested unknown tool", "tool", call.Name)
		return tools.Metadata{Name: call.Name}, tools.FailureResult(err)
	}
	meta := tool.Metadata()

	if cached, ok := a.cache.Get(call.Name, call.Arguments); ok {
		a.logger.Info("tool served from cache", "tool", call.Name)
		return meta, tools.SuccessResult(cached)
	}

	result := a.executor.Execute(ctx, tool, call.Arguments)
	if !result.Failed() {
		a.cache.Set(call.Name, call.Arguments, result.Output, 0)
	}
	return meta, result
}

// joinResults concatenates step outputs for a terminal-ending step.
func joinResults(results []stepResult) string {
	if len(results) == 1 {
		return results[0].result.Text()
	}
	var parts []string
	for _, r := range results {
		parts = append(parts, r.result.Text())
	}
	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += p
	}
	return out
}

// toolDefinitions converts registry metadata to model tool definitions.
func toolDefinitions(metas []tools.Metadata) []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(metas))
	for _, meta := range metas {
		defs = append(defs, llm.ToolDefinition{
			Name:        meta.Name,
			Description: meta.Description,
			Parameters:  meta.Schema(),
		})
	}
	return defs
}

func usagePtr(usage llm.TokenUsage, seen bool) *llm.TokenUsage {
	if !seen {
		return nil
	}
	return &usage
}
