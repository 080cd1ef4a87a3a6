package model

import "time"

// Config is the full tool configuration, loadable from
// ~/.tgscout/config.yaml and overridable by flags and TGSCOUT_* env vars.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Providers   ProvidersConfig   `yaml:"providers" json:"providers"`
	Hunt        HuntConfig        `yaml:"hunt" json:"hunt"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Analysis    AnalysisConfig    `yaml:"analysis" json:"analysis"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// HTTPConfig holds shared HTTP client settings for all providers.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" json:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy" json:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy" json:"no_proxy,omitempty"`
}

// ProvidersConfig enables and configures the concrete search providers.
// Providers with missing credentials are skipped, not errors.
type ProvidersConfig struct {
	Google   GoogleConfig   `yaml:"google" json:"google"`
	Bing     BingConfig     `yaml:"bing" json:"bing"`
	Reddit   RedditConfig   `yaml:"reddit" json:"reddit"`
	Telegram TelegramConfig `yaml:"telegram" json:"telegram"`
	Feeds    FeedsConfig    `yaml:"feeds" json:"feeds"`
}

// GoogleConfig configures the Custom Search JSON API adapter.
type GoogleConfig struct {
	APIKey   string `yaml:"api_key" json:"api_key,omitempty"`
	EngineID string `yaml:"engine_id" json:"engine_id,omitempty"`
}

// BingConfig configures the HTML scrape adapter.
type BingConfig struct {
	Enabled       bool `yaml:"enabled" json:"enabled"`
	RespectRobots bool `yaml:"respect_robots" json:"respect_robots"`
}

// RedditConfig configures the public JSON API adapter.
type RedditConfig struct {
	Enabled    bool     `yaml:"enabled" json:"enabled"`
	Subreddits []string `yaml:"subreddits" json:"subreddits,omitempty"` // Default scoped sub-collections
}

// TelegramConfig configures the Bot API adapter.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token" json:"bot_token,omitempty"`
}

// FeedsConfig configures the RSS/Atom feed adapter.
type FeedsConfig struct {
	URLs []string `yaml:"urls" json:"urls,omitempty"` // %s is replaced with the query where present
}

// HuntConfig tunes the aggregation run itself.
type HuntConfig struct {
	RequestDelay  time.Duration `yaml:"request_delay" json:"request_delay"` // Mandatory pause after each provider call
	MaxVariations int           `yaml:"max_variations" json:"max_variations"`
	MinConfidence int           `yaml:"min_confidence" json:"min_confidence"` // Quality-filter floor
	Retries       int           `yaml:"retries" json:"retries"`               // Extra attempts per query on transient errors
	RetryBackoff  time.Duration `yaml:"retry_backoff" json:"retry_backoff"`   // Linear: attempt n waits n*backoff
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
	Capacity int           `yaml:"capacity" json:"capacity"` // Max entries in the memory layer
	Dir      string        `yaml:"dir" json:"dir,omitempty"` // Empty disables the disk layer
}

// AnalysisConfig configures the optional AI annotation step.
type AnalysisConfig struct {
	Provider  string        `yaml:"provider" json:"provider,omitempty"` // "openai" or empty to disable
	Model     string        `yaml:"model" json:"model,omitempty"`
	APIKey    string        `yaml:"-" json:"-"` // Env only, never persisted
	BaseURL   string        `yaml:"base_url" json:"base_url,omitempty"`
	MaxTokens int           `yaml:"max_tokens" json:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// ConcurrencyConfig bounds parallelism and request rates.
type ConcurrencyConfig struct {
	ProviderWorkers   int     `yaml:"provider_workers" json:"provider_workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" json:"verbose"`
	Format  string `yaml:"format" json:"format"` // json, csv, text
}

// DefaultConfig returns sensible defaults for every section.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "tgscout/0.3 (+https://github.com/osintlab/tgscout)",
			MaxBodyBytes: 2_000_000,
		},
		Providers: ProvidersConfig{
			Bing:   BingConfig{Enabled: true, RespectRobots: true},
			Reddit: RedditConfig{Enabled: true, Subreddits: []string{"TelegramChannels", "Telegram"}},
		},
		Hunt: HuntConfig{
			RequestDelay:  1500 * time.Millisecond,
			MaxVariations: 100,
			MinConfidence: 30,
			Retries:       2,
			RetryBackoff:  2 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTL:      10 * time.Minute,
			Capacity: 100,
		},
		Analysis: AnalysisConfig{
			MaxTokens: 1000,
			Timeout:   30 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			ProviderWorkers:   4,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}
