package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Apify      ApifyConfig      `yaml:"apify" mapstructure:"apify"`
	Groq       GroqConfig       `yaml:"groq" mapstructure:"groq"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Resilience ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ApifyConfig holds the scraping provider settings.
type ApifyConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// GroqConfig holds Groq API settings.
type GroqConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// OpenAIConfig holds OpenAI Responses API settings.
type OpenAIConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	ReasoningEffort string `yaml:"reasoning_effort" mapstructure:"reasoning_effort"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// RoleConfig picks the provider and model for one pipeline role.
type RoleConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
}

// String renders the role as provider/model.
func (r RoleConfig) String() string {
	return r.Provider + "/" + r.Model
}

// LLMConfig assigns models to the summarizer, evaluator and validator.
type LLMConfig struct {
	Summarizer RoleConfig `yaml:"summarizer" mapstructure:"summarizer"`
	Evaluator  RoleConfig `yaml:"evaluator" mapstructure:"evaluator"`
	Validator  RoleConfig `yaml:"validator" mapstructure:"validator"`
}

// Roles returns every configured role keyed by name.
func (l LLMConfig) Roles() map[string]RoleConfig {
	return map[string]RoleConfig{
		"summarizer": l.Summarizer,
		"evaluator":  l.Evaluator,
		"validator":  l.Validator,
	}
}

// StoreConfig configures the lead store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// NotionConfig holds Notion API credentials and the lead database ID.
type NotionConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	LeadDB    string  `yaml:"lead_db" mapstructure:"lead_db"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID  string  `yaml:"client_id" mapstructure:"client_id"`
	Username  string  `yaml:"username" mapstructure:"username"`
	KeyPath   string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL  string  `yaml:"login_url" mapstructure:"login_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxProfiles        int `yaml:"max_profiles" mapstructure:"max_profiles"`
	ProfileTimeoutSecs int `yaml:"profile_timeout_secs" mapstructure:"profile_timeout_secs"`
	MaxInFlight        int `yaml:"max_inflight" mapstructure:"max_inflight"`
}

// ProfileTimeout returns the per-profile budget.
func (b BatchConfig) ProfileTimeout() time.Duration {
	return time.Duration(b.ProfileTimeoutSecs) * time.Second
}

// ResilienceConfig configures the provider circuit breakers and the
// already-processed lookup retries.
type ResilienceConfig struct {
	FailureThreshold    int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs    int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
	DedupMaxAttempts    int `yaml:"dedup_max_attempts" mapstructure:"dedup_max_attempts"`
	DedupInitialBackoff int `yaml:"dedup_initial_backoff_ms" mapstructure:"dedup_initial_backoff_ms"`
	DedupMaxBackoff     int `yaml:"dedup_max_backoff_ms" mapstructure:"dedup_max_backoff_ms"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	APIKey      string   `yaml:"api_key" mapstructure:"api_key"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("apify.base_url", "https://api.apify.com/v2")
	v.SetDefault("apify.rate_limit", 5)
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.reasoning_effort", "high")

	v.SetDefault("llm.summarizer.provider", "groq")
	v.SetDefault("llm.summarizer.model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.evaluator.provider", "anthropic")
	v.SetDefault("llm.evaluator.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.validator.provider", "gemini")
	v.SetDefault("llm.validator.model", "gemini-2.5-flash")

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "leadscout.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("notion.rate_limit", 3)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rate_limit", 10)

	v.SetDefault("batch.max_profiles", 100)
	v.SetDefault("batch.profile_timeout_secs", 180)
	v.SetDefault("batch.max_inflight", 2)

	v.SetDefault("resilience.failure_threshold", 5)
	v.SetDefault("resilience.reset_timeout_secs", 30)
	v.SetDefault("resilience.dedup_max_attempts", 3)
	v.SetDefault("resilience.dedup_initial_backoff_ms", 200)
	v.SetDefault("resilience.dedup_max_backoff_ms", 2000)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Defaults returns a Config holding only the built-in defaults.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are plain scalars and slices; decoding cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// WriteExample writes the default configuration as YAML.
func WriteExample(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Defaults()); err != nil {
		return eris.Wrap(err, "config: encode example")
	}
	return eris.Wrap(enc.Close(), "config: encode example")
}

// Validate checks that the keys required by mode are present. Modes are
// "serve", "process" and "export".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve", "process":
		if c.Apify.Token == "" {
			errs = append(errs, "apify.token is required")
		}
		errs = append(errs, c.validateLLM()...)
		errs = append(errs, c.validateBatch()...)
		if mode == "serve" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	case "export":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}
	errs = append(errs, c.validateStore()...)

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) providerKey(provider string) (string, bool) {
	switch provider {
	case "groq":
		return c.Groq.Key, true
	case "anthropic":
		return c.Anthropic.Key, true
	case "openai":
		return c.OpenAI.Key, true
	case "gemini":
		return c.Gemini.Key, true
	}
	return "", false
}

func (c *Config) validateLLM() []string {
	var errs []string
	seen := make(map[string]bool)
	for _, role := range []string{"summarizer", "evaluator", "validator"} {
		rc := c.LLM.Roles()[role]
		if rc.Model == "" {
			errs = append(errs, fmt.Sprintf("llm.%s.model is required", role))
		}
		key, ok := c.providerKey(rc.Provider)
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("llm.%s.provider %q is not supported", role, rc.Provider))
		case key == "" && !seen[rc.Provider]:
			errs = append(errs, fmt.Sprintf("%s.key is required", rc.Provider))
			seen[rc.Provider] = true
		}
	}
	if c.LLM.Evaluator.Provider == c.LLM.Validator.Provider && c.LLM.Evaluator.Model == c.LLM.Validator.Model {
		errs = append(errs, fmt.Sprintf("llm.validator must differ from llm.evaluator (both %s)", c.LLM.Evaluator))
	}
	return errs
}

func (c *Config) validateBatch() []string {
	var errs []string
	if c.Batch.MaxProfiles < 1 || c.Batch.MaxProfiles > 100 {
		errs = append(errs, "batch.max_profiles must be between 1 and 100")
	}
	if c.Batch.ProfileTimeoutSecs <= 0 {
		errs = append(errs, "batch.profile_timeout_secs must be > 0")
	}
	if c.Batch.MaxInFlight < 1 {
		errs = append(errs, "batch.max_inflight must be >= 1")
	}
	return errs
}

func (c *Config) validateStore() []string {
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return []string{"store.sqlite_path is required"}
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required"}
		}
	case "notion":
		var errs []string
		if c.Notion.Token == "" {
			errs = append(errs, "notion.token is required")
		}
		if c.Notion.LeadDB == "" {
			errs = append(errs, "notion.lead_db is required")
		}
		return errs
	case "salesforce":
		var errs []string
		if c.Salesforce.ClientID == "" {
			errs = append(errs, "salesforce.client_id is required")
		}
		if c.Salesforce.Username == "" {
			errs = append(errs, "salesforce.username is required")
		}
		if c.Salesforce.KeyPath == "" {
			errs = append(errs, "salesforce.key_path is required")
		} else if _, err := os.Stat(c.Salesforce.KeyPath); err != nil {
			errs = append(errs, fmt.Sprintf("salesforce.key_path %q is not readable", c.Salesforce.KeyPath))
		}
		return errs
	default:
		return []string{fmt.Sprintf("store.driver %q is not supported", c.Store.Driver)}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}

	zap.ReplaceGlobals(logger)
	return nil
}
