package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "SECURITY_WATCHDOG_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	googleAPIKeyEnv  = "GOOGLE_API_KEY"
	googleCSEIDEnv   = "GOOGLE_CSE_ID"
	geminiAPIKeyEnv  = "GEMINI_API_KEY"
	telegramBotEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
	defaultRefresh   = 1800
	defaultSearchGap = 21600
)

// Config holds all settings required across the application.
type Config struct {
	Logging       LoggingConfig             `yaml:"logging"`
	Scheduler     SchedulerConfig           `yaml:"scheduler"`
	Search        SearchAPIConfig           `yaml:"search"`
	Gemini        GeminiConfig              `yaml:"gemini"`
	Storage       StorageConfig             `yaml:"storage"`
	Notifications NotificationConfig        `yaml:"notifications"`
	Sources       map[string][]SourceConfig `yaml:"sources"`
	Searches      []SearchQueryConfig       `yaml:"searches"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines the two collection cadences, in seconds.
type SchedulerConfig struct {
	RefreshIntervalSeconds int `yaml:"refresh_interval_seconds"`
	SearchIntervalSeconds  int `yaml:"search_interval_seconds"`
}

// RefreshInterval is the sleep between collection cycles.
func (s SchedulerConfig) RefreshInterval() time.Duration {
	if s.RefreshIntervalSeconds <= 0 {
		return defaultRefresh * time.Second
	}
	return time.Duration(s.RefreshIntervalSeconds) * time.Second
}

// SearchInterval is the minimum gap between search-API sweeps. The
// search quota is tighter than feed polling, so this is deliberately
// longer than the refresh interval.
func (s SchedulerConfig) SearchInterval() time.Duration {
	if s.SearchIntervalSeconds <= 0 {
		return defaultSearchGap * time.Second
	}
	return time.Duration(s.SearchIntervalSeconds) * time.Second
}

// SearchAPIConfig wires the Google Custom Search JSON API.
type SearchAPIConfig struct {
	APIKey string `yaml:"apiKey"`
	CSEID  string `yaml:"cseId"`
}

// GeminiConfig defines how to contact the Gemini generateContent API.
type GeminiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// StorageConfig selects the export repository: a Postgres DSN when set,
// otherwise a JSON log file.
type StorageConfig struct {
	DSN        string `yaml:"dsn"`
	ExportFile string `yaml:"exportFile"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SourceConfig describes one monitored feed within a category.
type SourceConfig struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Keywords []string `yaml:"keywords"`
}

// SearchQueryConfig is a standing search query with the category its
// results are filtered against.
type SearchQueryConfig struct {
	Query    string `yaml:"query"`
	Category string `yaml:"category"`
}

// Load reads .env and YAML configuration (if present) and applies
// environment overrides.
func Load() Config {
	_ = godotenv.Load()

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

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.DSN = v
	}

	if v := os.Getenv(googleAPIKeyEnv); v != "" {
		c.Search.APIKey = v
	}
	if v := os.Getenv(googleCSEIDEnv); v != "" {
		c.Search.CSEID = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}

	if v := os.Getenv(telegramBotEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scheduler.RefreshIntervalSeconds > 0 {
		base.Scheduler.RefreshIntervalSeconds = override.Scheduler.RefreshIntervalSeconds
	}
	if override.Scheduler.SearchIntervalSeconds > 0 {
		base.Scheduler.SearchIntervalSeconds = override.Scheduler.SearchIntervalSeconds
	}

	if override.Search.APIKey != "" {
		base.Search.APIKey = override.Search.APIKey
	}
	if override.Search.CSEID != "" {
		base.Search.CSEID = override.Search.CSEID
	}

	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}

	if override.Storage.DSN != "" {
		base.Storage.DSN = override.Storage.DSN
	}
	if override.Storage.ExportFile != "" {
		base.Storage.ExportFile = override.Storage.ExportFile
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}
	if len(override.Searches) > 0 {
		base.Searches = override.Searches
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{
			RefreshIntervalSeconds: defaultRefresh,
			SearchIntervalSeconds:  defaultSearchGap,
		},
		Gemini: GeminiConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			Model:    "gemini-1.5-flash-latest",
		},
		Storage: StorageConfig{ExportFile: "data/security_watch_log.json"},
		Sources: map[string][]SourceConfig{
			"sensors_devices": {
				{
					Name:     "The Hacker News",
					URL:      "https://feeds.feedburner.com/TheHackersNews",
					Keywords: []string{"iot", "firmware", "sensor", "embedded", "device"},
				},
			},
			"network_transit": {
				{
					Name:     "Bleeping Computer",
					URL:      "https://www.bleepingcomputer.com/feed/",
					Keywords: []string{"mqtt", "protocol", "botnet", "router", "network"},
				},
			},
			"destination_storage": {
				{
					Name:     "Security Week",
					URL:      "https://www.securityweek.com/feed/",
					Keywords: []string{"cloud", "database", "storage", "breach", "leak"},
				},
			},
		},
	}
}
