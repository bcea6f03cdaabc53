// Command execution for CLI commands.
//
// Information Hiding:
// - Provider and registry assembly hidden
// - Session persistence plumbing hidden
// - Output formatting hidden

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sharkdev/cidinha/agent"
	"github.com/sharkdev/cidinha/auth"
	"github.com/sharkdev/cidinha/config"
	"github.com/sharkdev/cidinha/llm"
	"github.com/sharkdev/cidinha/storage"
	"github.com/sharkdev/cidinha/toolcache"
	"github.com/sharkdev/cidinha/tools"
)

// Options holds CLI execution options.
type Options struct {
	Provider  string
	MaxRounds int
	Verbose   bool

	// Stream prints the reply incrementally and skips tool routing.
	Stream bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{}
}

// Ask processes a single question and prints the reply.
func Ask(ctx context.Context, question string, opts Options) error {
	settings, a, store, err := setup(opts)
	if err != nil {
		return err
	}
	defer store.Close()

	in := agent.TurnInput{
		NewText:    question,
		Credential: buildCredential(settings),
		Identity:   buildIdentity(settings),
	}

	if opts.Stream {
		return streamReply(ctx, a, in)
	}

	out := a.Invoke(ctx, in)
	fmt.Printf("%s\n", out.Content)
	if opts.Verbose {
		printTurnStats(out, a.Cache())
	}
	return nil
}

// streamReply prints a direct reply as it arrives.
func streamReply(ctx context.Context, a *agent.Agent, in agent.TurnInput) error {
	chunks := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for c := range chunks {
			fmt.Print(c)
		}
	}()

	_, err := a.Stream(ctx, in, chunks)
	close(chunks)
	<-done
	fmt.Println()
	return err
}

// Chat starts an interactive chat session with optional persistence.
func Chat(ctx context.Context, sessionID string, opts Options) error {
	settings, a, store, err := setup(opts)
	if err != nil {
		return err
	}
	defer store.Close()

	session := sessionID
	if session == "" {
		session = "default"
	}

	history, err := store.Load(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(history) > 0 {
		fmt.Printf("Retomando sessão '%s' (%d mensagens)\n\n", session, len(history))
	}

	cred := buildCredential(settings)
	identity := buildIdentity(settings)

	fmt.Printf("Cidinha pronta. Digite 'sair' para encerrar.\n\n")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "sair" || input == "exit" || input == "quit" {
			break
		}

		out := a.Invoke(ctx, agent.TurnInput{
			History:    history,
			NewText:    input,
			Credential: cred,
			Identity:   identity,
		})

		fmt.Printf("\n%s\n\n", out.Content)
		if opts.Verbose {
			printTurnStats(out, a.Cache())
		}

		history = append(history,
			storage.ChatRecord{Role: "user", Content: input},
			storage.ChatRecord{Role: "assistant", Content: out.Content},
		)
		if err := store.Save(ctx, session, history); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
		}
	}

	return scanner.Err()
}

// Learn adds a document file to a knowledge collection.
func Learn(ctx context.Context, collection, path string, opts Options) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	store, err := storage.OpenSqlite(settings.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if err := store.AddDocument(ctx, collection, string(content)); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	fmt.Printf("Documento adicionado à coleção '%s' (%d bytes)\n", collection, len(content))
	return nil
}

// Sessions lists stored conversation sessions.
func Sessions(ctx context.Context, opts Options) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	store, err := storage.OpenSqlite(settings.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("Nenhuma sessão salva.")
		return nil
	}
	for _, s := range sessions {
		fmt.Println(s)
	}
	return nil
}

// ListTools lists all available tools.
func ListTools(verbose bool) {
	registry := tools.NewRegistry()

	// Register the full tool set (errors ignored - no duplicates in this list)
	_ = registry.Register(tools.NewCheckCalendarTool())
	_ = registry.Register(tools.NewCreateEventTool())
	_ = registry.Register(tools.NewCheckEmailTool())
	_ = registry.Register(tools.NewSendEmailTool())
	_ = registry.Register(tools.NewReadNewsTool("", nil))
	_ = registry.Register(tools.NewWebSearchTool())
	_ = registry.Register(tools.NewSharkHelperTool(nil, nil))
	_ = registry.Register(tools.NewRPGHelperTool(nil, nil))
	_ = registry.Register(tools.NewCodeHelperTool(nil))

	fmt.Println("Available tools:")
	fmt.Println()

	for _, meta := range registry.List() {
		fmt.Printf("  %s\n", meta.Name)
		fmt.Printf("    %s\n", meta.Description)

		if verbose && len(meta.Parameters) > 0 {
			fmt.Println("    Parameters:")
			for _, param := range meta.Parameters {
				req := ""
				if param.Required {
					req = "*"
				}
				fmt.Printf("      %s%s: %s - %s\n", param.Name, req, param.ParamType, param.Description)
			}
		}
		fmt.Println()
	}
}

// Helper functions

// loadSettings resolves settings for the selected provider.
func loadSettings(opts Options) (config.Settings, error) {
	if opts.Provider == "" {
		return config.Settings{}, fmt.Errorf("--provider is required for this command")
	}
	return config.New(opts.Provider)
}

// setup assembles the agent and its storage for a command run.
// The caller owns closing the returned storage.
func setup(opts Options) (config.Settings, *agent.Agent, *storage.SqliteStorage, error) {
	settings, err := loadSettings(opts)
	if err != nil {
		return config.Settings{}, nil, nil, err
	}

	provider, err := createProvider(opts.Provider, settings)
	if err != nil {
		return config.Settings{}, nil, nil, err
	}

	store, err := storage.OpenSqlite(settings.DBPath)
	if err != nil {
		return config.Settings{}, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	client := llm.NewClient(provider)
	registry, err := buildRegistry(settings, client, store)
	if err != nil {
		store.Close()
		return config.Settings{}, nil, nil, err
	}

	agentConfig := agent.DefaultConfig()
	agentConfig.Contacts = settings.Contacts
	agentConfig.MaxRounds = settings.Agent.MaxRounds
	agentConfig.ModelTimeout = settings.Agent.ModelTimeout
	agentConfig.ToolTimeout = settings.Agent.ToolTimeout
	agentConfig.ResetCachePerTurn = settings.Agent.ResetCachePerTurn
	if opts.MaxRounds > 0 {
		agentConfig.MaxRounds = opts.MaxRounds
	}
	if loc, err := time.LoadLocation(settings.Timezone); err == nil {
		agentConfig.Clock = func() time.Time { return time.Now().In(loc) }
	}

	a := agent.New(agentConfig, provider, registry).
		WithCache(toolcache.New(settings.Cache.TTL))

	return settings, a, store, nil
}

// buildRegistry registers the full tool set against the shared storage and
// model client.
func buildRegistry(settings config.Settings, client *llm.Client, docs storage.DocumentStorage) (*tools.Registry, error) {
	registry := tools.NewRegistry()

	all := []tools.Tool{
		tools.NewCheckCalendarTool(),
		tools.NewCreateEventTool(),
		tools.NewCheckEmailTool(),
		tools.NewSendEmailTool(),
		tools.NewReadNewsTool(settings.News.APIKey, client),
		tools.NewWebSearchTool(),
		tools.NewSharkHelperTool(docs, client),
		tools.NewRPGHelperTool(docs, client),
		tools.NewCodeHelperTool(client),
	}
	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// buildCredential converts the configured Google tokens to a session
// credential. Returns nil when the user never logged in.
func buildCredential(settings config.Settings) *auth.Credential {
	g := settings.Google
	if g.AccessToken == "" && g.RefreshToken == "" {
		return nil
	}
	return &auth.Credential{
		AccessToken:   g.AccessToken,
		RefreshToken:  g.RefreshToken,
		TokenEndpoint: "https://oauth2.googleapis.com/token",
		ClientID:      g.ClientID,
		ClientSecret:  g.ClientSecret,
		Scopes: []string{
			"https://www.googleapis.com/auth/calendar",
			"https://www.googleapis.com/auth/gmail.modify",
		},
	}
}

// buildIdentity converts the configured user into turn identity context.
func buildIdentity(settings config.Settings) *agent.Identity {
	if settings.User.Name == "" || settings.User.Email == "" {
		return nil
	}
	return &agent.Identity{Name: settings.User.Name, Email: settings.User.Email}
}

func createProvider(providerName string, settings config.Settings) (llm.Provider, error) {
	providerType, err := llm.ParseProviderType(providerName)
	if err != nil {
		return nil, err
	}

	apiKey, err := config.APIKeyFor(providerName)
	if err != nil {
		return nil, err
	}

	return providerType.
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
}

func printTurnStats(out agent.TurnOutput, cache *toolcache.Cache) {
	fmt.Printf("(%d rounds", out.Rounds)
	if out.Usage != nil {
		fmt.Printf(", %d tokens", out.Usage.TotalTokens)
	}
	stats := cache.Stats()
	if stats.Hits+stats.Misses > 0 {
		fmt.Printf(", cache hit rate %.0f%%", stats.HitRate()*100)
	}
	fmt.Printf(")\n\n")
}
