package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"llmbox/internal/llm/registry"
	"llmbox/internal/transcript"
)

func main() {
	fs := Flags()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("Failed to parse flags: %v", err)
	}

	// Load configuration
	config, err := LoadConfig(fs)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(config.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := registry.New(config.LLM, logger)
	if err != nil {
		logger.Fatal("failed to create llm client", zap.Error(err))
	}

	opts := []ChatOption{
		WithParams(config.Params),
		WithSystemPrompt(config.SystemPrompt),
		WithRecallLimit(config.RecallLimit),
		WithTypingDelay(config.TypingDelay),
		WithChatLogger(logger),
	}

	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	// The transcript archive is optional
	if config.DatabaseURL != "" {
		store, err := transcript.Open(ctx, config.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to open transcript archive", zap.Error(err))
		}
		defer store.Close()

		count, err := store.Count(ctx)
		if err != nil {
			logger.Fatal("failed to count archived messages", zap.Error(err))
		}
		green.Printf("\n✓ Transcript archive contains %d messages\n", count)
		opts = append(opts, WithArchive(store))
	} else {
		yellow.Println("\n⚠️  DATABASE_URL not set; transcripts will not be archived.")
	}

	chatBot := NewChatBot(client, os.Stdin, os.Stdout, opts...)

	// Run interactive chat
	if err := chatBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("chat error", zap.Error(err))
		os.Exit(1)
	}
}

// newLogger builds a production logger at level, or a development logger
// for debug.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}
