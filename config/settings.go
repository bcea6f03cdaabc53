// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific configuration lookup

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds all application configuration.
type Settings struct {
	LLM    LLMConfig
	Agent  AgentConfig
	Cache  CacheConfig
	News   NewsConfig
	Google GoogleConfig
	User   UserConfig

	// DBPath is the SQLite database for sessions and knowledge documents.
	DBPath string

	// Contacts are "Name: email" entries injected into the system prompt.
	Contacts []string

	// Timezone is the default timezone for scheduling tools.
	Timezone string
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider    string
	Model       string
	MaxTokens   uint32
	Temperature float64
}

// AgentConfig holds turn execution configuration.
type AgentConfig struct {
	MaxRounds         int
	ModelTimeout      time.Duration
	ToolTimeout       time.Duration
	ResetCachePerTurn bool
}

// CacheConfig holds tool result cache configuration.
type CacheConfig struct {
	TTL time.Duration
}

// NewsConfig holds the GNews API configuration.
type NewsConfig struct {
	APIKey string
}

// GoogleConfig holds the OAuth client used for calendar and mail access.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
}

// UserConfig identifies the session owner.
type UserConfig struct {
	Name  string
	Email string
}

// providerInfo holds configuration for a specific LLM provider.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
}

// Supported providers and their configuration.
var providers = map[string]providerInfo{
	"openai":    {"OPENAI_MODEL", "gpt-4-turbo", "OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022", "ANTHROPIC_API_KEY"},
	"deepseek":  {"DEEPSEEK_MODEL", "deepseek-chat", "DEEPSEEK_API_KEY"},
	"gemini":    {"GEMINI_MODEL", "gemini-2.0-flash", "GEMINI_API_KEY"},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"google": "gemini",
	"gpt":    "openai",
}

// defaultDBPath is the unified database path for sessions and documents.
const defaultDBPath = ".cidinha/cidinha.db"

// New creates settings for the specified provider, loading values from
// environment variables. Returns an error if the provider is unknown or
// environment variables contain invalid values.
func New(provider string) (Settings, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return Settings{}, err
	}

	maxTokens, err := getEnvUint32("LLM_MAX_TOKENS", 4096)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return Settings{}, err
	}

	maxRounds, err := getEnvInt("AGENT_MAX_ROUNDS", 8)
	if err != nil {
		return Settings{}, err
	}

	modelTimeout, err := getEnvSeconds("AGENT_MODEL_TIMEOUT_SECONDS", 60*time.Second)
	if err != nil {
		return Settings{}, err
	}

	toolTimeout, err := getEnvSeconds("AGENT_TOOL_TIMEOUT_SECONDS", 30*time.Second)
	if err != nil {
		return Settings{}, err
	}

	resetCache, err := getEnvBool("AGENT_RESET_CACHE_PER_TURN", false)
	if err != nil {
		return Settings{}, err
	}

	cacheTTL, err := getEnvSeconds("TOOL_CACHE_TTL_SECONDS", 10*time.Minute)
	if err != nil {
		return Settings{}, err
	}

	// Get model from environment or use default
	model := os.Getenv(info.modelEnv)
	if model == "" {
		model = info.defaultModel
	}

	dbPath := os.Getenv("CIDINHA_DB")
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	timezone := os.Getenv("CIDINHA_TIMEZONE")
	if timezone == "" {
		timezone = "America/Sao_Paulo"
	}

	return Settings{
		LLM: LLMConfig{
			Provider:    provider,
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
		Agent: AgentConfig{
			MaxRounds:         maxRounds,
			ModelTimeout:      modelTimeout,
			ToolTimeout:       toolTimeout,
			ResetCachePerTurn: resetCache,
		},
		Cache: CacheConfig{TTL: cacheTTL},
		News:  NewsConfig{APIKey: os.Getenv("GNEWS_API_KEY")},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			AccessToken:  os.Getenv("GOOGLE_ACCESS_TOKEN"),
			RefreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),
		},
		User: UserConfig{
			Name:  os.Getenv("CIDINHA_USER_NAME"),
			Email: os.Getenv("CIDINHA_USER_EMAIL"),
		},
		DBPath:   dbPath,
		Contacts: parseContacts(os.Getenv("CIDINHA_CONTACTS")),
		Timezone: timezone,
	}, nil
}

// MustNew creates settings for the specified provider.
// Panics if the provider is unknown or environment variables are invalid.
// Use this only when configuration errors should be fatal.
func MustNew(provider string) Settings {
	settings, err := New(provider)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderInfo returns configuration for a provider.
func getProviderInfo(provider string) (providerInfo, error) {
	info, ok := providers[provider]
	if !ok {
		return providerInfo{}, fmt.Errorf("unknown provider: %q", provider)
	}
	return info, nil
}

// APIKeyFor returns the API key for a provider from environment variables.
func APIKeyFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	key := os.Getenv(info.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}
	return key, nil
}

// ModelFor returns the model for a provider, checking environment first.
func ModelFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	if val := os.Getenv(info.modelEnv); val != "" {
		return val, nil
	}
	return info.defaultModel, nil
}

// SupportedProviders returns the list of supported provider names.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	return result
}

// parseContacts splits a semicolon-separated contact list.
func parseContacts(raw string) []string {
	if raw == "" {
		return nil
	}
	var contacts []string
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			contacts = append(contacts, part)
		}
	}
	return contacts
}

// Environment variable helpers with proper error handling

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvUint32(key string, defaultVal uint32) (uint32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(i), nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return b, nil
}

func getEnvSeconds(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return time.Duration(secs) * time.Second, nil
}
