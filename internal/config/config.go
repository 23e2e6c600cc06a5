package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "SCREENER_CONFIG"
	environmentEnv     = "ENVIRONMENT"
	logLevelEnv        = "LOG_LEVEL"
	logFormatEnv       = "LOG_FORMAT"
	defaultProviderEnv = "DEFAULT_LLM_PROVIDER"
	openAIModelEnv     = "OPENAI__MODEL"
	openAIKeyEnv       = "OPENAI__API_KEY"
	openAITempEnv      = "OPENAI__TEMPERATURE"
	anthropicModelEnv  = "ANTHROPIC__MODEL"
	anthropicKeyEnv    = "ANTHROPIC__API_KEY"
	anthropicTempEnv   = "ANTHROPIC__TEMPERATURE"
	resultsDirEnv      = "RESULTS_DIR"
	storageBackendEnv  = "STORAGE_BACKEND"
	databaseDSNEnv     = "DATABASE_DSN"
	redisURLEnv        = "REDIS_URL"
	httpAddrEnv        = "HTTP_ADDR"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// dotenvFiles are loaded in order; variables already set in the process win.
var dotenvFiles = []string{".env.defaults", ".env.secrets"}

// Config holds high-level settings required across the application.
type Config struct {
	Environment string         `yaml:"environment"`
	Logging     LoggingConfig  `yaml:"logging"`
	LLM         LLMConfig      `yaml:"llm"`
	Pipeline    PipelineConfig `yaml:"pipeline"`
	Fetcher     FetcherConfig  `yaml:"fetcher"`
	Cache       CacheConfig    `yaml:"cache"`
	Storage     StorageConfig  `yaml:"storage"`
	HTTP        HTTPConfig     `yaml:"http"`
}

// LoggingConfig sets the slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LLMConfig pre-configures both providers; DefaultProvider picks the active one.
type LLMConfig struct {
	DefaultProvider   string            `yaml:"defaultProvider"`
	OpenAI            LLMProviderConfig `yaml:"openai"`
	Anthropic         LLMProviderConfig `yaml:"anthropic"`
	RequestsPerMinute int               `yaml:"requestsPerMinute"`
}

// LLMProviderConfig describes how to reach one provider.
type LLMProviderConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"apiKey"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Active returns the provider name and settings selected by DefaultProvider.
func (c LLMConfig) Active() (string, LLMProviderConfig) {
	if c.DefaultProvider == ProviderAnthropic {
		return ProviderAnthropic, c.Anthropic
	}
	return ProviderOpenAI, c.OpenAI
}

// PipelineConfig toggles optional stages.
type PipelineConfig struct {
	Credibility      bool `yaml:"credibility"`
	Sentiment        bool `yaml:"sentiment"`
	SentimentWorkers int  `yaml:"sentimentWorkers"`
}

// FetcherConfig tunes article downloads.
type FetcherConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// CacheConfig enables the Redis article cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string        `yaml:"redisUrl"`
	TTL      time.Duration `yaml:"ttl"`
}

// StorageConfig selects where screening results live.
type StorageConfig struct {
	Backend           string        `yaml:"backend"`
	ResultsDir        string        `yaml:"resultsDir"`
	DSN               string        `yaml:"dsn"`
	ReconcileInterval time.Duration `yaml:"reconcileInterval"`
}

// HTTPConfig describes the API listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads .env files and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	loadDotenv()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalise()

	return cfg
}

func loadDotenv() {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("config: cannot load %s: %v", file, err)
		}
	}
}

func (c *Config) applyEnvOverrides() {
	setString(&c.Environment, environmentEnv)
	setString(&c.Logging.Level, logLevelEnv)
	setString(&c.Logging.Format, logFormatEnv)
	setString(&c.LLM.DefaultProvider, defaultProviderEnv)
	setString(&c.LLM.OpenAI.Model, openAIModelEnv)
	setString(&c.LLM.OpenAI.APIKey, openAIKeyEnv)
	setFloat(&c.LLM.OpenAI.Temperature, openAITempEnv)
	setString(&c.LLM.Anthropic.Model, anthropicModelEnv)
	setString(&c.LLM.Anthropic.APIKey, anthropicKeyEnv)
	setFloat(&c.LLM.Anthropic.Temperature, anthropicTempEnv)
	setString(&c.Storage.ResultsDir, resultsDirEnv)
	setString(&c.Storage.Backend, storageBackendEnv)
	setString(&c.Storage.DSN, databaseDSNEnv)
	setString(&c.Cache.RedisURL, redisURLEnv)
	setString(&c.HTTP.Addr, httpAddrEnv)
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: %s=%q is not a number, keeping %v", env, v, *dst)
		return
	}
	*dst = parsed
}

func (c *Config) normalise() {
	switch c.LLM.DefaultProvider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		log.Printf("config: unknown llm provider %q, reverting to %s", c.LLM.DefaultProvider, ProviderOpenAI)
		c.LLM.DefaultProvider = ProviderOpenAI
	}

	switch c.Storage.Backend {
	case BackendFile, BackendPostgres, BackendSQLite:
	default:
		log.Printf("config: unknown storage backend %q, reverting to %s", c.Storage.Backend, BackendFile)
		c.Storage.Backend = BackendFile
	}

	if c.Pipeline.SentimentWorkers < 1 {
		c.Pipeline.SentimentWorkers = 1
	}
}

func mergeConfig(base, override Config) Config {
	if override.Environment != "" {
		base.Environment = override.Environment
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.LLM.DefaultProvider != "" {
		base.LLM.DefaultProvider = override.LLM.DefaultProvider
	}
	if override.LLM.RequestsPerMinute != 0 {
		base.LLM.RequestsPerMinute = override.LLM.RequestsPerMinute
	}
	base.LLM.OpenAI = mergeProvider(base.LLM.OpenAI, override.LLM.OpenAI)
	base.LLM.Anthropic = mergeProvider(base.LLM.Anthropic, override.LLM.Anthropic)

	// Stage toggles are booleans, so a pipeline block in the file replaces the defaults wholesale.
	if override.Pipeline != (PipelineConfig{}) {
		base.Pipeline = override.Pipeline
	}

	if override.Fetcher.Timeout != 0 {
		base.Fetcher.Timeout = override.Fetcher.Timeout
	}
	if override.Fetcher.UserAgent != "" {
		base.Fetcher.UserAgent = override.Fetcher.UserAgent
	}

	if override.Cache.RedisURL != "" {
		base.Cache.RedisURL = override.Cache.RedisURL
	}
	if override.Cache.TTL != 0 {
		base.Cache.TTL = override.Cache.TTL
	}

	if override.Storage.Backend != "" {
		base.Storage.Backend = override.Storage.Backend
	}
	if override.Storage.ResultsDir != "" {
		base.Storage.ResultsDir = override.Storage.ResultsDir
	}
	if override.Storage.DSN != "" {
		base.Storage.DSN = override.Storage.DSN
	}
	if override.Storage.ReconcileInterval != 0 {
		base.Storage.ReconcileInterval = override.Storage.ReconcileInterval
	}

	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}

	return base
}

func mergeProvider(base, override LLMProviderConfig) LLMProviderConfig {
	if override.Endpoint != "" {
		base.Endpoint = override.Endpoint
	}
	if override.Model != "" {
		base.Model = override.Model
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.Temperature != 0 {
		base.Temperature = override.Temperature
	}
	if override.MaxTokens != 0 {
		base.MaxTokens = override.MaxTokens
	}
	if override.Timeout != 0 {
		base.Timeout = override.Timeout
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Environment: "development",
		Logging:     LoggingConfig{Level: "info", Format: "text"},
		LLM: LLMConfig{
			DefaultProvider: ProviderOpenAI,
			OpenAI: LLMProviderConfig{
				Endpoint:  "https://api.openai.com/v1/chat/completions",
				Model:     "gpt-4o",
				MaxTokens: 4096,
				Timeout:   120 * time.Second,
			},
			Anthropic: LLMProviderConfig{
				Endpoint:  "https://api.anthropic.com/v1/messages",
				Model:     "claude-3-5-sonnet-20241022",
				MaxTokens: 4096,
				Timeout:   120 * time.Second,
			},
			RequestsPerMinute: 60,
		},
		Pipeline: PipelineConfig{Credibility: true, Sentiment: true, SentimentWorkers: 4},
		Fetcher: FetcherConfig{
			Timeout:   30 * time.Second,
			UserAgent: "AdverseScreener/1.0",
		},
		Cache: CacheConfig{TTL: 24 * time.Hour},
		Storage: StorageConfig{
			Backend:           BackendFile,
			ResultsDir:        "results",
			ReconcileInterval: 15 * time.Minute,
		},
		HTTP: HTTPConfig{Addr: ":5001"},
	}
}
