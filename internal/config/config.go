package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. INDENT_SERVER_PORT
const EnvPrefix = "INDENT"

// Store backends
const (
	BackendAppScript = "appscript"
	BackendSheets    = "sheets"
	BackendWorkbook  = "workbook"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Store     StoreConfig     `yaml:"store" envconfig:"STORE"`
	Cache     CacheConfig     `yaml:"cache" envconfig:"CACHE"`
	Auth      AuthConfig      `yaml:"auth" envconfig:"AUTH"`
	Jobs      JobsConfig      `yaml:"jobs" envconfig:"JOBS"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// StoreConfig selects and configures the spreadsheet row store
type StoreConfig struct {
	Backend         string        `yaml:"backend" envconfig:"BACKEND"`
	AppScriptURL    string        `yaml:"app_script_url" envconfig:"APP_SCRIPT_URL"`
	SpreadsheetID   string        `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	CredentialsFile string        `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	WorkbookPath    string        `yaml:"workbook_path" envconfig:"WORKBOOK_PATH"`
	Timeout         time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	UploadFolderID  string        `yaml:"upload_folder_id" envconfig:"UPLOAD_FOLDER_ID"`
}

// CacheConfig configures the sheet snapshot cache
type CacheConfig struct {
	Backend    string        `yaml:"backend" envconfig:"BACKEND"`
	RedisURL   string        `yaml:"redis_url" envconfig:"REDIS_URL"`
	TTL        time.Duration `yaml:"ttl" envconfig:"TTL"`
	MaxEntries int           `yaml:"max_entries" envconfig:"MAX_ENTRIES"`
	KeyPrefix  string        `yaml:"key_prefix" envconfig:"KEY_PREFIX"`
}

// AuthConfig configures session tokens
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" envconfig:"TOKEN_TTL"`
	Issuer    string        `yaml:"issuer" envconfig:"ISSUER"`
}

// JobsConfig configures scheduled background jobs (cron syntax)
type JobsConfig struct {
	Enabled        bool   `yaml:"enabled" envconfig:"ENABLED"`
	WarmCache      string `yaml:"warm_cache" envconfig:"WARM_CACHE"`
	Snapshot       string `yaml:"snapshot" envconfig:"SNAPSHOT"`
	SnapshotDir    string `yaml:"snapshot_dir" envconfig:"SNAPSHOT_DIR"`
	SnapshotRetain int    `yaml:"snapshot_retain" envconfig:"SNAPSHOT_RETAIN"` // 0 keeps every snapshot
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
}

// TelemetryConfig configures OpenTelemetry
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// Load builds the configuration from defaults, then the YAML file (if one
// is found), then environment variables. Later sources win.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server read and write timeouts must be positive")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch c.Store.Backend {
	case BackendAppScript:
		u, err := url.Parse(c.Store.AppScriptURL)
		if c.Store.AppScriptURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("store backend %q requires a valid app_script_url", BackendAppScript)
		}
	case BackendSheets:
		if c.Store.SpreadsheetID == "" || c.Store.CredentialsFile == "" {
			return fmt.Errorf("store backend %q requires spreadsheet_id and credentials_file", BackendSheets)
		}
	case BackendWorkbook:
		if c.Store.WorkbookPath == "" {
			return fmt.Errorf("store backend %q requires workbook_path", BackendWorkbook)
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache backend %q requires redis_url", CacheRedis)
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("auth jwt_secret must be at least 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token_ttl must be positive")
	}

	if c.Jobs.Enabled && c.Jobs.SnapshotDir == "" {
		return fmt.Errorf("jobs snapshot_dir is required when jobs are enabled")
	}
	if c.Jobs.SnapshotRetain < 0 {
		return fmt.Errorf("jobs snapshot_retain cannot be negative")
	}

	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/indentdesk.log",
		},
		Store: StoreConfig{
			Backend: BackendAppScript,
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:    CacheMemory,
			TTL:        2 * time.Minute,
			MaxEntries: 64,
			KeyPrefix:  "indentdesk:",
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
			Issuer:   "indentdesk",
		},
		Jobs: JobsConfig{
			Enabled:        false,
			WarmCache:      "*/5 * * * *",
			Snapshot:       "30 23 * * *",
			SnapshotDir:    "snapshots",
			SnapshotRetain: 90,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      54 * time.Second,
			PongWait:        60 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "indentdesk",
			Environment:   "development",
			EnableMetrics: true,
			EnableTracing: false,
			TraceExporter: "none",
			SampleRatio:   1.0,
		},
	}
}
