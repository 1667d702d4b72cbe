package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the application: the Telegram
// transport, the Postgres database, the OpenAI fallback, session retention
// and the rate limiter.
type Config struct {
	Env           string          `yaml:"env"`            // Env is the current environment: local, dev, prod.
	Token         string          `yaml:"token"`          // Token is the unique telegram bot token.
	PollerTimeout time.Duration   `yaml:"poller_timeout"` // PollerTimeout closes the telegram long poller.
	AdminIDs      []int64         `yaml:"admin_ids"`      // AdminIDs whitelists telegram users for admin commands.
	MigrationsDir string          `yaml:"migrations_dir"` // MigrationsDir holds the SQL migration files.
	Database      PostgresConfig  `yaml:"postgres"`       // Database holds the postgres configuration.
	OpenAI        OpenAIConfig    `yaml:"openai"`         // OpenAI holds the fallback completion settings.
	Session       SessionConfig   `yaml:"session"`        // Session holds history retention settings.
	RateLimit     RateLimitConfig `yaml:"rate_limit"`     // RateLimit holds the sliding-window limiter settings.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Name     string `yaml:"db_name"`  // Name is the name of the database.
}

// OpenAIConfig holds the settings of the conversational fallback.
type OpenAIConfig struct {
	APIKey       string  `yaml:"api_key"`       // APIKey authenticates against the completions API.
	Model        string  `yaml:"model"`         // Model is the completion model name.
	MaxTokens    int     `yaml:"max_tokens"`    // MaxTokens caps the reply length.
	Temperature  float64 `yaml:"temperature"`   // Temperature is the sampling temperature.
	SystemPrompt string  `yaml:"system_prompt"` // SystemPrompt opens every fallback conversation.
}

// SessionConfig holds conversation history retention settings.
type SessionConfig struct {
	MaxHistoryMessages int           `yaml:"max_history_messages"` // MaxHistoryMessages bounds the context window.
	MaxAge             time.Duration `yaml:"max_age"`              // MaxAge is the idle age after which sessions are swept.
	CleanupInterval    time.Duration `yaml:"cleanup_interval"`     // CleanupInterval is the sweep period.
}

// RateLimitConfig holds the sliding-window limiter settings.
type RateLimitConfig struct {
	Enabled     bool          `yaml:"enabled"`      // Enabled turns the limiter on.
	MaxRequests int           `yaml:"max_requests"` // MaxRequests is the per-window cap per user.
	Window      time.Duration `yaml:"window"`       // Window is the trailing interval requests count in.
}

// MustLoad loads the configuration from a YAML file and returns a Config struct.
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		panic("config path is empty")
	}

	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		panic("config error: " + err.Error())
	}

	setDefaults()

	adminIDs := make([]int64, 0, len(viper.GetIntSlice("telegram.admin_ids")))
	for _, id := range viper.GetIntSlice("telegram.admin_ids") {
		adminIDs = append(adminIDs, int64(id))
	}

	return &Config{
		Env:           viper.GetString("env"),
		Token:         viper.GetString("telegram.token"),
		PollerTimeout: viper.GetDuration("telegram.timeout"),
		AdminIDs:      adminIDs,
		MigrationsDir: viper.GetString("migrations_dir"),
		Database: PostgresConfig{
			Host:     viper.GetString("postgres.host"),
			Port:     viper.GetString("postgres.port"),
			User:     viper.GetString("postgres.user"),
			Password: viper.GetString("postgres.password"),
			Name:     viper.GetString("postgres.db_name"),
		},
		OpenAI: OpenAIConfig{
			APIKey:       viper.GetString("openai.api_key"),
			Model:        viper.GetString("openai.model"),
			MaxTokens:    viper.GetInt("openai.max_tokens"),
			Temperature:  viper.GetFloat64("openai.temperature"),
			SystemPrompt: viper.GetString("openai.system_prompt"),
		},
		Session: SessionConfig{
			MaxHistoryMessages: viper.GetInt("session.max_history_messages"),
			MaxAge:             viper.GetDuration("session.max_age"),
			CleanupInterval:    viper.GetDuration("session.cleanup_interval"),
		},
		RateLimit: RateLimitConfig{
			Enabled:     viper.GetBool("rate_limit.enabled"),
			MaxRequests: viper.GetInt("rate_limit.max_requests"),
			Window:      viper.GetDuration("rate_limit.window"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("telegram.timeout", 10*time.Second)
	viper.SetDefault("migrations_dir", "migrations")
	viper.SetDefault("openai.model", "gpt-3.5-turbo")
	viper.SetDefault("openai.max_tokens", 800)
	viper.SetDefault("openai.temperature", 0.2)
	viper.SetDefault("openai.system_prompt",
		"Ты — полезный корпоративный ассистент компании Навикон. Отвечай кратко, вежливо, на русском языке.")
	viper.SetDefault("session.max_history_messages", 10)
	viper.SetDefault("session.max_age", 7*24*time.Hour)
	viper.SetDefault("session.cleanup_interval", time.Hour)
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.max_requests", 10)
	viper.SetDefault("rate_limit.window", time.Minute)
}
