package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"llmbox/internal/llm"
	"llmbox/internal/llm/registry"
)

// Config holds all configuration values
type Config struct {
	LLM          registry.Config
	Params       llm.Params
	SystemPrompt string
	DatabaseURL  string
	LogLevel     string
	RecallLimit  int
	TypingDelay  time.Duration
}

// Flags registers the command-line flags LoadConfig understands.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("llmbox", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file (default ./llmbox.yaml)")
	fs.StringP("provider", "p", "", "LLM provider: anthropic, openai, groq, openrouter, gemini")
	fs.StringP("model", "m", "", "model identifier (provider default when empty)")
	fs.String("transport", "", "transport: http or sdk")
	fs.String("log_level", "", "log level: debug, info, warn, error")
	return fs
}

// LoadConfig loads configuration from .env, the environment (LLMBOX_ prefix),
// an optional YAML file and flags, in increasing order of precedence.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}
	return loadConfig(v)
}

func loadConfig(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("LLMBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database_url", "LLMBOX_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	v.SetDefault("provider", string(llm.ProviderAnthropic))
	v.SetDefault("transport", registry.TransportHTTP)
	v.SetDefault("timeout", 60*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("recall_limit", 3)
	v.SetDefault("typing_delay", 5*time.Millisecond)

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("llmbox")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		LLM: registry.Config{
			Provider:  v.GetString("provider"),
			Model:     v.GetString("model"),
			BaseURL:   v.GetString("base_url"),
			Timeout:   v.GetDuration("timeout"),
			Transport: v.GetString("transport"),
			APIKey:    v.GetString("api_key"),
			AuthToken: v.GetString("auth_token"),
		},
		Params:       loadParams(v),
		SystemPrompt: v.GetString("system_prompt"),
		DatabaseURL:  v.GetString("database_url"),
		LogLevel:     v.GetString("log_level"),
		RecallLimit:  v.GetInt("recall_limit"),
		TypingDelay:  v.GetDuration("typing_delay"),
	}

	if _, err := llm.ParseProvider(cfg.LLM.Provider); err != nil {
		return nil, err
	}
	if cfg.RecallLimit < 1 {
		return nil, fmt.Errorf("recall_limit must be positive, got %d", cfg.RecallLimit)
	}
	return cfg, nil
}

// loadParams sets only the generation parameters present in the config, so
// providers fall back to their own defaults for the rest.
func loadParams(v *viper.Viper) llm.Params {
	var opts []llm.CallOption
	if v.IsSet("params.max_tokens") {
		opts = append(opts, llm.WithMaxTokens(v.GetInt("params.max_tokens")))
	}
	if v.IsSet("params.temperature") {
		opts = append(opts, llm.WithTemperature(v.GetFloat64("params.temperature")))
	}
	if v.IsSet("params.top_p") {
		opts = append(opts, llm.WithTopP(v.GetFloat64("params.top_p")))
	}
	if v.IsSet("params.top_k") {
		opts = append(opts, llm.WithTopK(v.GetInt("params.top_k")))
	}
	if v.IsSet("params.stop_sequences") {
		opts = append(opts, llm.WithStopSequences(v.GetStringSlice("params.stop_sequences")...))
	}
	return llm.ApplyOptions(opts...)
}
