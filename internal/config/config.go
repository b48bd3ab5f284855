package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config combines the static app settings from config.yaml with the
// credentials read from the environment (.env). Credentials never live in
// the yaml file.
type Config struct {
	// Polling / reporting windows
	PollIntervalMin int `yaml:"poll_interval_min"`
	TradeStatDays   int `yaml:"trade_stat_days"`
	MonthlyStatDays int `yaml:"monthly_stat_days"`

	// Sizing
	FallbackOrderUSDT float64 `yaml:"fallback_order_usdt"`

	// Persistence
	StateFile    string `yaml:"state_file"`
	SettingsFile string `yaml:"settings_file"`
	JournalPath  string `yaml:"journal_path"`

	// Metrics (optional push target)
	MetricsAPIURL   string `yaml:"metrics_api_url"`
	MetricsAPIToken string `yaml:"-"`

	// Bitget API
	BitgetAPIKey     string `yaml:"-"`
	BitgetSecretKey  string `yaml:"-"`
	BitgetPassphrase string `yaml:"-"`

	// Telegram
	TelegramToken  string `yaml:"-"`
	TelegramChatID string `yaml:"-"`

	// IMAP signal mailbox
	ImapServer   string `yaml:"-"`
	ImapUsername string `yaml:"-"`
	ImapPassword string `yaml:"-"`
}

func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	cfg.applyDefaults()

	cfg.BitgetAPIKey = os.Getenv("BITGET_API_KEY")
	cfg.BitgetSecretKey = os.Getenv("BITGET_SECRET_KEY")
	cfg.BitgetPassphrase = os.Getenv("BITGET_PASSPHRASE")
	if cfg.BitgetAPIKey == "" || cfg.BitgetSecretKey == "" || cfg.BitgetPassphrase == "" {
		return nil, fmt.Errorf("BITGET_API_KEY, BITGET_SECRET_KEY and BITGET_PASSPHRASE are required")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	cfg.ImapServer = os.Getenv("IMAP_SERVER")
	cfg.ImapUsername = os.Getenv("IMAP_USERNAME")
	cfg.ImapPassword = os.Getenv("IMAP_PASSWORD")

	cfg.MetricsAPIToken = os.Getenv("METRICS_API_TOKEN")

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PollIntervalMin == 0 {
		c.PollIntervalMin = 5
	}
	if c.TradeStatDays == 0 {
		c.TradeStatDays = 10
	}
	if c.MonthlyStatDays == 0 {
		c.MonthlyStatDays = 30
	}
	if c.FallbackOrderUSDT == 0 {
		c.FallbackOrderUSDT = 10.0
	}
	if c.StateFile == "" {
		c.StateFile = "coins.json"
	}
	if c.SettingsFile == "" {
		c.SettingsFile = "settings.json"
	}
	if c.JournalPath == "" {
		c.JournalPath = "logs/orders.db"
	}
}
