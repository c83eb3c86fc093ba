// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct. It is built once
// at startup and passed down explicitly; nothing reads it as ambient
// global state.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Search        SearchConfig       `mapstructure:"search"`
	Session       SessionConfig      `mapstructure:"session"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	CEP           CEPConfig          `mapstructure:"cep"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Schemas       SchemasConfig      `mapstructure:"schemas"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
	EnablePprof     bool   `mapstructure:"enable_pprof"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	Index      string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SearchConfig tunes the live-search pipeline.
type SearchConfig struct {
	MinQueryLength int `mapstructure:"min_query_length"`
	MaxResults     int `mapstructure:"max_results"`
	DebounceMillis int `mapstructure:"debounce_millis"`
	CacheTTL       int `mapstructure:"cache_ttl"` // seconds
}

// SessionConfig tunes cookie sessions and CSRF tokens.
type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name"`
	TTL        int    `mapstructure:"ttl"` // seconds
	Secure     bool   `mapstructure:"secure"`
}

// NotificationConfig holds settings for toasts and reminders.
type NotificationConfig struct {
	ToastDuration int `mapstructure:"toast_duration"` // seconds

	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
		ToPhone  string `mapstructure:"to_phone"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`

	Reminder struct {
		Interval         int `mapstructure:"interval"`           // seconds between scans
		DeadlineWindow   int `mapstructure:"deadline_window"`    // days ahead for deadlines
		AppointmentAhead int `mapstructure:"appointment_window"` // extra minutes of slack
	} `mapstructure:"reminder"`
}

// CEPConfig holds settings for the postal-code address lookup.
type CEPConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// SchemasConfig locates the request payload schema registry.
type SchemasConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
}
