// Package main provides the cidinha CLI entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/sharkdev/cidinha/cli"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider  string
	maxRounds int
	verbose   bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "cidinha",
		Short: "Assistente executiva da SharkDev",
		Long: `Cidinha is SharkDev's executive assistant agent.

It answers in Portuguese and can check and schedule Google Calendar events,
read and send Gmail messages, fetch news, search the web, and answer
questions from the local knowledge base.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(verbose)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "gemini", "LLM provider (gemini, openai, anthropic, deepseek)")
	rootCmd.PersistentFlags().IntVarP(&maxRounds, "max-rounds", "m", 0, "Maximum decide/act rounds per turn (0 = configured default)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	// Add commands
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(learnCmd())
	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() cli.Options {
	return cli.Options{
		Provider:  provider,
		MaxRounds: maxRounds,
		Verbose:   verbose,
	}
}

func askCmd() *cobra.Command {
	var stream bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := options()
			opts.Stream = stream
			return cli.Ask(context.Background(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "Stream the reply incrementally (skips tools)")
	return cmd
}

func chatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Conversation history persists per session in the local SQLite database,
so a later 'chat --session work' resumes where it left off.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), sessionID, options())
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID for conversation persistence")
	return cmd
}

func learnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "learn [collection] [file]",
		Short: "Add a document to a knowledge collection",
		Long: `Add a document file to a knowledge collection.

Documents feed the AjudaShark (collection 'shark_helper') and DuvidasRPG
(collection 'my_collection') tools.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Learn(context.Background(), args[0], args[1], options())
		},
	}
}

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List stored conversation sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Sessions(context.Background(), options())
		},
	}
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		Run: func(cmd *cobra.Command, args []string) {
			cli.ListTools(verbose)
		},
	}
}

// configureLogging routes structured logs to stderr, at debug level when
// verbose.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
