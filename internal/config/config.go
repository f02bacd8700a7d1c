package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the anvilmerge server.
type Config struct {
	LogLevel string `yaml:"log_level" env:"ANVILMERGE_LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Merge behaviour
	Policy    string `yaml:"policy" env:"ANVILMERGE_POLICY" validate:"oneof=item-target storage-target no-book-on-book strict allow-all"`
	RulesFile string `yaml:"rules_file" env:"ANVILMERGE_RULES_FILE"` // empty = embedded rules
	HandleAll bool   `yaml:"handle_all" env:"ANVILMERGE_HANDLE_ALL"`

	// Permissions
	Permission     string   `yaml:"permission" env:"ANVILMERGE_PERMISSION" validate:"required"`
	AllowedPlayers []string `yaml:"allowed_players" env:"ANVILMERGE_ALLOWED_PLAYERS" envSeparator:","`

	HTTP     HTTPConfig     `yaml:"http" envPrefix:"ANVILMERGE_HTTP_"`
	Cache    CacheConfig    `yaml:"cache" envPrefix:"ANVILMERGE_CACHE_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"ANVILMERGE_DB_"`
}

// HTTPConfig configures the HTTP bridge.
type HTTPConfig struct {
	Addr         string        `yaml:"addr" env:"ADDR" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" validate:"gt=0"`
}

// CacheConfig configures the merge result cache. Size 0 disables it.
type CacheConfig struct {
	Size int           `yaml:"size" env:"SIZE" validate:"gte=0"`
	TTL  time.Duration `yaml:"ttl" env:"TTL" validate:"gte=0"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the merge log.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" env:"ENABLED"`
	Host     string `yaml:"host" env:"HOST" validate:"required_if=Enabled true"`
	Port     int    `yaml:"port" env:"PORT" validate:"required_if=Enabled true,gte=0,lte=65535"`
	User     string `yaml:"user" env:"USER" validate:"required_if=Enabled true"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME" validate:"required_if=Enabled true"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:   "info",
		Policy:     "item-target",
		Permission: "anvilmerge.use",

		// HTTP bridge callers are trusted; the host plugin narrows this.
		AllowedPlayers: []string{"*"},

		HTTP: HTTPConfig{
			Addr:         "127.0.0.1:8085",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Size: 1024,
			TTL:  5 * time.Minute,
		},
		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "anvilmerge",
			DBName:  "anvilmerge",
			SSLMode: "disable",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (a
// missing file keeps defaults), then a .env file in the working directory,
// then ANVILMERGE_* environment variables. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports every violation at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
