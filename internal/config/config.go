// Package config provides configuration loading and management for the index settings synchronizer.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/index-settings-sync/internal/telemetry"
)

// StorageType names a backend for sync metadata and cached search keys
type StorageType string

const (
	// StorageTypeFile keeps metadata in a single JSON file guarded by a file lock
	StorageTypeFile StorageType = "file"

	// StorageTypeDatabase keeps metadata in PostgreSQL
	StorageTypeDatabase StorageType = "database"

	// StorageTypeEmbedded keeps metadata in an embedded Pebble store
	StorageTypeEmbedded StorageType = "embedded"

	// StorageTypeMemory keeps metadata in process memory only
	StorageTypeMemory StorageType = "memory"
)

const (
	// EnvPrefix prefixes every environment variable read by the CLI
	EnvPrefix = "INDEX_SETTINGS"

	// APIKeyEnvVar holds the admin API key when remote.apiKeyFile is not set
	APIKeyEnvVar = "INDEX_SETTINGS_API_KEY"

	// DatabasePasswordEnvVar holds the database password when database.passwordFile is not set
	DatabasePasswordEnvVar = "INDEX_SETTINGS_DATABASE_PASSWORD"

	// DefaultSearchKeyTTL is how long a generated secured search key stays cached
	DefaultSearchKeyTTL = 24 * time.Hour

	// MaxSearchKeyTTL is the validity of an issued secured search key; a
	// longer cache would hand out expired keys
	MaxSearchKeyTTL = 25 * time.Hour

	// DefaultEmbeddedPath is the embedded store directory when none is configured
	DefaultEmbeddedPath = ".index-settings"

	// DefaultWatchInterval is the drift analysis interval of the serve command
	DefaultWatchInterval = 5 * time.Minute

	stateFileRelPath = "index-settings/state.json"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// AppName scopes generated artifacts such as the search key description
	AppName string `yaml:"appName"`

	// SettingsPath is the directory holding one settings file per index.
	// When empty, "config" relative to the working directory is used.
	SettingsPath string `yaml:"settingsPath,omitempty"`

	// NameSeparator is replaced by a dash in settings file names, "_" by default
	NameSeparator string `yaml:"nameSeparator,omitempty"`

	// Synchronous makes remote mutations block until the service applied them
	Synchronous bool `yaml:"synchronous,omitempty"`

	Remote     RemoteConfig      `yaml:"remote"`
	Storage    *StorageConfig    `yaml:"storage,omitempty"`
	SearchKeys *SearchKeysConfig `yaml:"searchKeys,omitempty"`
	Logging    *LoggingConfig    `yaml:"logging,omitempty"`
	Watch      *WatchConfig      `yaml:"watch,omitempty"`
	Telemetry  *telemetry.Config `yaml:"telemetry,omitempty"`
}

// RemoteConfig defines how to reach the hosted search service
type RemoteConfig struct {
	// ApplicationID identifies the application on the search service
	ApplicationID string `yaml:"applicationId"`

	// APIKeyFile is the path to a file containing the admin API key
	APIKeyFile string `yaml:"apiKeyFile,omitempty"`

	// Host is the API domain, the request host is "<applicationId>.<host>"
	Host string `yaml:"host,omitempty"`

	// Timeout bounds each HTTP request (e.g., "10s")
	Timeout string `yaml:"timeout,omitempty"`

	// TaskPollInterval is the initial delay between task status checks (e.g., "500ms")
	TaskPollInterval string `yaml:"taskPollInterval,omitempty"`
}

// StorageConfig selects and configures the metadata backend
type StorageConfig struct {
	Type     StorageType            `yaml:"type,omitempty"`
	File     *FileStorageConfig     `yaml:"file,omitempty"`
	Database *DatabaseConfig        `yaml:"database,omitempty"`
	Embedded *EmbeddedStorageConfig `yaml:"embedded,omitempty"`
}

// FileStorageConfig defines file-based metadata storage
type FileStorageConfig struct {
	// Path is the JSON state file. Defaults to the XDG data directory.
	Path string `yaml:"path,omitempty"`
}

// EmbeddedStorageConfig defines embedded key-value metadata storage
type EmbeddedStorageConfig struct {
	// Path is the store directory
	Path string `yaml:"path,omitempty"`
}

// SearchKeysConfig defines caching of secured search keys
type SearchKeysConfig struct {
	// TTL is how long a generated key stays cached (e.g., "24h")
	TTL string `yaml:"ttl,omitempty"`
}

// WatchConfig lists the indices the serve command analyses periodically
type WatchConfig struct {
	// Indices are the index names to analyse
	Indices []string `yaml:"indices,omitempty"`

	// Interval between two analyses (e.g., "5m")
	Interval string `yaml:"interval,omitempty"`
}

// LoggingConfig defines log output
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"`

	// File enables a rotated log file in addition to stderr
	File string `yaml:"file,omitempty"`

	// MaxSizeMB is the size at which the log file is rotated
	MaxSizeMB int `yaml:"maxSizeMB,omitempty"`

	// MaxBackups is the number of rotated files to keep
	MaxBackups int `yaml:"maxBackups,omitempty"`

	// MaxAgeDays is the number of days to keep rotated files
	MaxAgeDays int `yaml:"maxAgeDays,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// This is the recommended approach for production deployments
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from INDEX_SETTINGS_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	secret, err := readSecret(d.PasswordFile, DatabasePasswordEnvVar)
	if err != nil {
		return "", fmt.Errorf("no database password configured: %w", err)
	}
	return secret, nil
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	// URL-escape the password to handle special characters
	escapedPassword := url.QueryEscape(password)

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		escapedPassword,
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// GetAPIKey returns the admin API key, read from APIKeyFile or the
// INDEX_SETTINGS_API_KEY environment variable
func (r *RemoteConfig) GetAPIKey() (string, error) {
	secret, err := readSecret(r.APIKeyFile, APIKeyEnvVar)
	if err != nil {
		return "", fmt.Errorf("no search API key configured: %w", err)
	}
	return secret, nil
}

// GetTimeout returns the per-request timeout, zero meaning the client default
func (r *RemoteConfig) GetTimeout() time.Duration {
	d, _ := time.ParseDuration(r.Timeout)
	return d
}

// GetTaskPollInterval returns the initial task poll delay, zero meaning the client default
func (r *RemoteConfig) GetTaskPollInterval() time.Duration {
	d, _ := time.ParseDuration(r.TaskPollInterval)
	return d
}

func readSecret(path, envVar string) (string, error) {
	if path != "" {
		// Use filepath.Clean to prevent path traversal attacks
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return "", fmt.Errorf("failed to read secret from file %s: %w", path, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}

	return "", fmt.Errorf("set a file path or the %s environment variable", envVar)
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	// As of now, this is required because there's no other options to load
	// configuration. Once we add more options, we can remove this check.
	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	// Read the entire file into memory
	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML content
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Validate the config
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetNameSeparator returns the index name separator, using "_" if not specified
func (c *Config) GetNameSeparator() string {
	if c.NameSeparator == "" {
		return "_"
	}
	return c.NameSeparator
}

// GetStorageType returns the configured storage type, defaulting to file
func (c *Config) GetStorageType() StorageType {
	if c.Storage == nil || c.Storage.Type == "" {
		return StorageTypeFile
	}
	return c.Storage.Type
}

// GetFileStatePath returns the JSON state file path. Without an explicit path
// the file lives under the XDG data directory, which is created on demand.
func (c *Config) GetFileStatePath() (string, error) {
	if c.Storage != nil && c.Storage.File != nil && c.Storage.File.Path != "" {
		return c.Storage.File.Path, nil
	}
	path, err := xdg.DataFile(stateFileRelPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve state file location: %w", err)
	}
	return path, nil
}

// GetEmbeddedPath returns the embedded store directory
func (c *Config) GetEmbeddedPath() string {
	if c.Storage != nil && c.Storage.Embedded != nil && c.Storage.Embedded.Path != "" {
		return c.Storage.Embedded.Path
	}
	return DefaultEmbeddedPath
}

// GetDatabaseConfig returns the database settings, nil when not configured
func (c *Config) GetDatabaseConfig() *DatabaseConfig {
	if c.Storage == nil {
		return nil
	}
	return c.Storage.Database
}

// GetSearchKeyTTL returns how long secured search keys are cached
func (c *Config) GetSearchKeyTTL() time.Duration {
	if c.SearchKeys == nil || c.SearchKeys.TTL == "" {
		return DefaultSearchKeyTTL
	}
	d, err := time.ParseDuration(c.SearchKeys.TTL)
	if err != nil || d <= 0 {
		return DefaultSearchKeyTTL
	}
	return d
}

// GetWatchInterval returns the drift analysis interval
func (c *Config) GetWatchInterval() time.Duration {
	if c.Watch == nil || c.Watch.Interval == "" {
		return DefaultWatchInterval
	}
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil || d <= 0 {
		return DefaultWatchInterval
	}
	return d
}

// GetWatchedIndices returns the indices analysed by the serve command
func (c *Config) GetWatchedIndices() []string {
	if c.Watch == nil {
		return nil
	}
	return c.Watch.Indices
}

// Validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.AppName == "" {
		return fmt.Errorf("appName is required")
	}

	if c.Remote.ApplicationID == "" {
		return fmt.Errorf("remote.applicationId is required")
	}

	if err := validateDuration("remote.timeout", c.Remote.Timeout); err != nil {
		return err
	}
	if err := validateDuration("remote.taskPollInterval", c.Remote.TaskPollInterval); err != nil {
		return err
	}
	if c.SearchKeys != nil {
		if err := validateDuration("searchKeys.ttl", c.SearchKeys.TTL); err != nil {
			return err
		}
		if c.SearchKeys.TTL != "" {
			if ttl, _ := time.ParseDuration(c.SearchKeys.TTL); ttl > MaxSearchKeyTTL {
				return fmt.Errorf("searchKeys.ttl %s exceeds the search key validity of %s", ttl, MaxSearchKeyTTL)
			}
		}
	}

	if c.Watch != nil {
		if err := validateDuration("watch.interval", c.Watch.Interval); err != nil {
			return err
		}
		for i, index := range c.Watch.Indices {
			if strings.TrimSpace(index) == "" {
				return fmt.Errorf("watch.indices[%d] cannot be empty", i)
			}
		}
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return c.validateStorage()
}

// validateStorage validates the storage section
func (c *Config) validateStorage() error {
	switch c.GetStorageType() {
	case StorageTypeFile, StorageTypeEmbedded, StorageTypeMemory:
		return nil
	case StorageTypeDatabase:
		db := c.GetDatabaseConfig()
		if db == nil {
			return fmt.Errorf("storage.database is required when storage.type is %s", StorageTypeDatabase)
		}
		if db.Host == "" || db.Database == "" || db.User == "" {
			return fmt.Errorf("storage.database: host, user and database are required")
		}
		if err := validateDuration("storage.database.connMaxLifetime", db.ConnMaxLifetime); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("storage.type must be one of %s, %s, %s or %s, got %s",
			StorageTypeFile, StorageTypeDatabase, StorageTypeEmbedded, StorageTypeMemory, c.Storage.Type)
	}
}

// validateDuration accepts empty values and valid positive durations
func validateDuration(field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s must be a valid duration (e.g., '500ms', '10s', '1h'): %w", field, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive", field)
	}
	return nil
}
