package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	EDGAR     EDGARConfig     `yaml:"edgar" envconfig:"EDGAR"`
	OpenAI    OpenAIConfig    `yaml:"openai" envconfig:"OPENAI"`
	StockLoan StockLoanConfig `yaml:"stock_loan" envconfig:"STOCK_LOAN"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	// Searches fan out over many EDGAR requests; they get a longer budget
	// than ordinary API calls.
	SearchTimeout time.Duration `yaml:"search_timeout" envconfig:"SEARCH_TIMEOUT" default:"10m"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains inbound rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ExportsDir string `yaml:"exports_dir" envconfig:"EXPORTS_DIR" default:"exports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// EDGARConfig configures the SEC EDGAR client. The SEC requires a
// descriptive User-Agent with a contact address on every request.
type EDGARConfig struct {
	UserAgent      string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"B. Dyson Capital Advisors contact@bdysoncapital.com"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"20s"`
	RPS            float64       `yaml:"rps" envconfig:"RPS" default:"8"`
	Burst          int           `yaml:"burst" envconfig:"BURST" default:"8"`
	MaxConcurrency int           `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"5"`
}

// OpenAIConfig configures the LLM extraction client. An empty APIKey
// disables company search; the other search modes do not need it.
type OpenAIConfig struct {
	APIKey         string        `yaml:"api_key" envconfig:"API_KEY"`
	Model          string        `yaml:"model" envconfig:"MODEL" default:"gpt-5-nano"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
	MaxRetries     int           `yaml:"max_retries" envconfig:"MAX_RETRIES" default:"2"`
}

// StockLoanConfig configures the Interactive Brokers shortstock feed.
type StockLoanConfig struct {
	Host    string        `yaml:"host" envconfig:"HOST" default:"ftp2.interactivebrokers.com:21"`
	User    string        `yaml:"user" envconfig:"USER" default:"shortstock"`
	File    string        `yaml:"file" envconfig:"FILE" default:"usa.txt"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"60s"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("LCF", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// A config file fills in anything the environment left at zero
	if configFile := findConfigFile(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg.merge(fileCfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// merge fills zero-valued fields from a file config (env takes precedence)
func (c *Config) merge(file *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = file.Server.Port
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = file.Paths.DataDir
	}
	if c.Paths.ExportsDir == "" {
		c.Paths.ExportsDir = file.Paths.ExportsDir
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = file.Paths.LogsDir
	}
	if c.EDGAR.UserAgent == "" {
		c.EDGAR.UserAgent = file.EDGAR.UserAgent
	}
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = file.OpenAI.APIKey
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = file.OpenAI.Model
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.EDGAR.UserAgent == "" {
		return fmt.Errorf("EDGAR user agent must not be empty (SEC requirement)")
	}

	if c.EDGAR.MaxConcurrency <= 0 {
		return fmt.Errorf("EDGAR max concurrency must be positive")
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, "app.log")
	}

	return nil
}

// findConfigFile returns the path of the first config file found
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}
