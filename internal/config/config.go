// ABOUTME: Configuration loading and parsing for amld-site
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete amld-site configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	// BaseURL is the external URL of the site, used for sitemap entries.
	BaseURL string `yaml:"base_url"`
}

// DatabaseConfig holds MongoDB connection configuration.
// The timeout and pool knobs are forwarded to the driver unchanged.
type DatabaseConfig struct {
	URI         string `yaml:"uri"`
	Name        string `yaml:"name"`
	MaxPoolSize uint64 `yaml:"max_pool_size"`
	// IPFamily of 4 restricts dialing to IPv4; 0 leaves it to the resolver.
	IPFamily int `yaml:"ip_family"`

	ServerSelectionTimeout time.Duration `yaml:"-"`
	SocketTimeout          time.Duration `yaml:"-"`
	MaxConnIdleTime        time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	ServerSelectionTimeoutRaw string `yaml:"server_selection_timeout"`
	SocketTimeoutRaw          string `yaml:"socket_timeout"`
	MaxConnIdleTimeRaw        string `yaml:"max_conn_idle_time"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// CloudinaryConfig holds credentials for the image upload host
type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// SMTPConfig holds credentials for outbound contact-form mail
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// From must be an address on the sending domain; To receives the form submissions.
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults matching the connection options the site has always run with.
const (
	DefaultDatabaseName           = "amld"
	DefaultMaxPoolSize            = 10
	DefaultServerSelectionTimeout = 5 * time.Second
	DefaultSocketTimeout          = 45 * time.Second
	DefaultMaxConnIdleTime        = 30 * time.Second
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in connection knobs that were left unset.
func (c *Config) applyDefaults() {
	if c.Database.Name == "" {
		c.Database.Name = DefaultDatabaseName
	}
	if c.Database.MaxPoolSize == 0 {
		c.Database.MaxPoolSize = DefaultMaxPoolSize
	}
	if c.Database.ServerSelectionTimeout == 0 {
		c.Database.ServerSelectionTimeout = DefaultServerSelectionTimeout
	}
	if c.Database.SocketTimeout == 0 {
		c.Database.SocketTimeout = DefaultSocketTimeout
	}
	if c.Database.MaxConnIdleTime == 0 {
		c.Database.MaxConnIdleTime = DefaultMaxConnIdleTime
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
// A missing database URI is a startup error, never a per-request one.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.URI == "" {
		return fmt.Errorf("database.uri is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
		return fmt.Errorf("cloudinary.cloud_name, cloudinary.api_key, and cloudinary.api_secret are required")
	}

	if c.SMTP.Host == "" || c.SMTP.Username == "" || c.SMTP.Password == "" {
		return fmt.Errorf("smtp.host, smtp.username, and smtp.password are required")
	}

	if c.SMTP.From == "" || c.SMTP.To == "" {
		return fmt.Errorf("smtp.from and smtp.to are required")
	}

	if c.Database.IPFamily != 0 && c.Database.IPFamily != 4 && c.Database.IPFamily != 6 {
		return fmt.Errorf("database.ip_family must be 0, 4, or 6 (got %d)", c.Database.IPFamily)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Database.ServerSelectionTimeoutRaw != "" {
		cfg.Database.ServerSelectionTimeout, err = time.ParseDuration(cfg.Database.ServerSelectionTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing server_selection_timeout %q: %w", cfg.Database.ServerSelectionTimeoutRaw, err)
		}
	}

	if cfg.Database.SocketTimeoutRaw != "" {
		cfg.Database.SocketTimeout, err = time.ParseDuration(cfg.Database.SocketTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing socket_timeout %q: %w", cfg.Database.SocketTimeoutRaw, err)
		}
	}

	if cfg.Database.MaxConnIdleTimeRaw != "" {
		cfg.Database.MaxConnIdleTime, err = time.ParseDuration(cfg.Database.MaxConnIdleTimeRaw)
		if err != nil {
			return fmt.Errorf("parsing max_conn_idle_time %q: %w", cfg.Database.MaxConnIdleTimeRaw, err)
		}
	}

	return nil
}
