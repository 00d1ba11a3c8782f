package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/rxguard/rxguard/internal/errors"
)

// Config holds all configuration for rxguard.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Dispatch   DispatchConfig   `mapstructure:"dispatch"`
	Transport  TransportConfig  `mapstructure:"transport"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string `mapstructure:"address"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DataDir     string `mapstructure:"data_dir"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	ArchivePath string `mapstructure:"archive_path"`
}

// KnowledgeConfig holds drug-knowledge overlay settings.
type KnowledgeConfig struct {
	OverlayPath string `mapstructure:"overlay_path"`
	HotReload   bool   `mapstructure:"hot_reload"`
}

// SchedulerConfig holds reminder scheduler settings.
type SchedulerConfig struct {
	DefaultTime string `mapstructure:"default_time"` // HH:MM for auto-created reminders
}

// DispatchConfig holds notification dispatcher settings.
type DispatchConfig struct {
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
	SettleDelaySeconds int    `mapstructure:"settle_delay_seconds"`
	BatchSpacingMillis int    `mapstructure:"batch_spacing_millis"`
	DefaultRecipient   string `mapstructure:"default_recipient"`
}

// TransportConfig holds outbound channel settings.
type TransportConfig struct {
	Default  string         `mapstructure:"default"` // memory, sms, telegram, discord
	SMS      SMSConfig      `mapstructure:"sms"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Discord  DiscordConfig  `mapstructure:"discord"`
}

// SMSConfig holds SMS gateway settings.
type SMSConfig struct {
	GatewayURL     string `mapstructure:"gateway_url"`
	APIKey         string `mapstructure:"api_key"`
	Sender         string `mapstructure:"sender"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
}

// DiscordConfig holds Discord bot settings.
type DiscordConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
}

// ExtractionConfig holds text-extraction collaborator settings.
type ExtractionConfig struct {
	ServiceURL          string  `mapstructure:"service_url"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
}

// Load loads configuration from file, env, and defaults.
func Load(configPath, dataDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if dataDir == "" {
		dataDir = getDefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	v.Set("storage.data_dir", dataDir)
	v.SetDefault("storage.sqlite_path", filepath.Join(dataDir, "rxguard.db"))
	v.SetDefault("storage.archive_path", filepath.Join(dataDir, "archive"))

	if configPath == "" {
		configPath = filepath.Join(dataDir, "rxguard.yaml")
	}
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Environment variables (RXGUARD_SERVER_PORT, RXGUARD_TRANSPORT_SMS_API_KEY, ...)
	v.SetEnvPrefix("RXGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Viper's AutomaticEnv only surfaces keys that already exist (via
	// SetDefault or the config file), so env-only values need an explicit
	// pass.
	loadEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvOverrides fills in the keys Unmarshal misses: secrets and paths
// that have no default and may live only in the environment. Short aliases
// (TELEGRAM_BOT_TOKEN, SMS_GATEWAY_API_KEY, ...) are honored here too.
func loadEnvOverrides(cfg *Config) {
	resolve := func(key, current string) string {
		if val := ResolveEnvWithAliases(key); val != "" {
			return val
		}
		return current
	}

	cfg.Transport.Telegram.BotToken = resolve("RXGUARD_TRANSPORT_TELEGRAM_BOT_TOKEN", cfg.Transport.Telegram.BotToken)
	cfg.Transport.Discord.Token = resolve("RXGUARD_TRANSPORT_DISCORD_TOKEN", cfg.Transport.Discord.Token)
	cfg.Transport.SMS.GatewayURL = resolve("RXGUARD_TRANSPORT_SMS_GATEWAY_URL", cfg.Transport.SMS.GatewayURL)
	cfg.Transport.SMS.APIKey = resolve("RXGUARD_TRANSPORT_SMS_API_KEY", cfg.Transport.SMS.APIKey)
	cfg.Dispatch.DefaultRecipient = resolve("RXGUARD_DISPATCH_DEFAULT_RECIPIENT", cfg.Dispatch.DefaultRecipient)
	cfg.Knowledge.OverlayPath = expandPath(resolve("RXGUARD_KNOWLEDGE_OVERLAY_PATH", cfg.Knowledge.OverlayPath))
	cfg.Extraction.ServiceURL = resolve("RXGUARD_EXTRACTION_SERVICE_URL", cfg.Extraction.ServiceURL)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)

	v.SetDefault("knowledge.hot_reload", true)

	v.SetDefault("scheduler.default_time", "08:00")

	v.SetDefault("dispatch.timeout_seconds", 10)
	v.SetDefault("dispatch.settle_delay_seconds", 2)
	v.SetDefault("dispatch.batch_spacing_millis", 500)

	v.SetDefault("transport.default", "memory")
	v.SetDefault("transport.sms.sender", "rxguard")
	v.SetDefault("transport.sms.timeout_seconds", 10)

	v.SetDefault("extraction.timeout_seconds", 30)
	v.SetDefault("extraction.confidence_threshold", 0.6)
}

func getDefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "rxguard")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".local", "share", "rxguard")
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return apperrors.New(apperrors.ErrConfigInvalid.Code,
			fmt.Sprintf("server.port %d out of range", cfg.Server.Port))
	}

	switch cfg.Transport.Default {
	case "memory":
	case "sms":
		if cfg.Transport.SMS.GatewayURL == "" {
			return apperrors.New(apperrors.ErrConfigInvalid.Code, "transport.sms.gateway_url is required")
		}
	case "telegram":
		if cfg.Transport.Telegram.BotToken == "" {
			return apperrors.New(apperrors.ErrConfigInvalid.Code, "transport.telegram.bot_token is required")
		}
	case "discord":
		if cfg.Transport.Discord.Token == "" {
			return apperrors.New(apperrors.ErrConfigInvalid.Code, "transport.discord.token is required")
		}
	default:
		return apperrors.New(apperrors.ErrConfigInvalid.Code,
			fmt.Sprintf("unknown transport %q", cfg.Transport.Default))
	}

	if cfg.Extraction.ConfidenceThreshold < 0 || cfg.Extraction.ConfidenceThreshold > 1 {
		return apperrors.New(apperrors.ErrConfigInvalid.Code, "extraction.confidence_threshold must be in [0,1]")
	}

	return nil
}
