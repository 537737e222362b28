package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Display  DisplayConfig
	Refresh  RefreshConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type UpstreamConfig struct {
	BaseURL              string
	ProductsPath         string
	SuppliersPath        string
	JobsPath             string
	ExcelUploadsPath     string
	Timeout              time.Duration
	RetryAttempts        int // 0 means a failed fetch is not retried
	RetryInitialInterval time.Duration
}

type DisplayConfig struct {
	Timezone   string
	TimeFormat string
}

// Location resolves the display timezone, falling back to the process local zone.
func (d DisplayConfig) Location() *time.Location {
	if d.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", d.Timezone).Msg("Unknown display timezone, using local")
		return time.Local
	}
	return loc
}

type RefreshConfig struct {
	Schedule string // empty disables scheduled refresh
}

type KafkaConfig struct {
	Brokers       []string
	SnapshotTopic string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ExportConfig struct {
	Filename string
}

func NewConfig() (*Config, error) {
	// Configure Viper to read .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", "*")
	viper.SetDefault("UPSTREAM_BASE_URL", "http://localhost:5002")
	viper.SetDefault("UPSTREAM_PRODUCTS_PATH", "/api/products")
	viper.SetDefault("UPSTREAM_SUPPLIERS_PATH", "/api/suppliers")
	viper.SetDefault("UPSTREAM_JOBS_PATH", "/api/productsRepair")
	viper.SetDefault("UPSTREAM_EXCEL_UPLOADS_PATH", "/api/products/excel-uploads")
	viper.SetDefault("UPSTREAM_TIMEOUT", "15s")
	viper.SetDefault("UPSTREAM_RETRY_ATTEMPTS", 0)
	viper.SetDefault("UPSTREAM_RETRY_INITIAL_INTERVAL", "500ms")
	viper.SetDefault("DISPLAY_TIMEZONE", "")
	viper.SetDefault("DISPLAY_TIME_FORMAT", "1/2/2006, 3:04:05 PM")
	viper.SetDefault("REFRESH_SCHEDULE", "")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_SNAPSHOT_TOPIC", "log_history_snapshots")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("EXPORT_FILENAME", "Log_History.xlsx")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.AllowedOrigins = splitList(viper.GetString("SERVER_ALLOWED_ORIGINS"))

	// --- Upstream entity APIs ---
	config.Upstream.BaseURL = viper.GetString("UPSTREAM_BASE_URL")
	config.Upstream.ProductsPath = viper.GetString("UPSTREAM_PRODUCTS_PATH")
	config.Upstream.SuppliersPath = viper.GetString("UPSTREAM_SUPPLIERS_PATH")
	config.Upstream.JobsPath = viper.GetString("UPSTREAM_JOBS_PATH")
	config.Upstream.ExcelUploadsPath = viper.GetString("UPSTREAM_EXCEL_UPLOADS_PATH")
	config.Upstream.Timeout = viper.GetDuration("UPSTREAM_TIMEOUT")
	config.Upstream.RetryAttempts = viper.GetInt("UPSTREAM_RETRY_ATTEMPTS")
	config.Upstream.RetryInitialInterval = viper.GetDuration("UPSTREAM_RETRY_INITIAL_INTERVAL")

	// --- Display ---
	config.Display.Timezone = viper.GetString("DISPLAY_TIMEZONE")
	config.Display.TimeFormat = viper.GetString("DISPLAY_TIME_FORMAT")

	config.Refresh.Schedule = viper.GetString("REFRESH_SCHEDULE")

	// --- Kafka ---
	config.Kafka.Brokers = splitList(viper.GetString("KAFKA_BROKERS"))
	config.Kafka.SnapshotTopic = viper.GetString("KAFKA_SNAPSHOT_TOPIC")

	config.Logging.Level = viper.GetString("LOG_LEVEL")
	config.Logging.Format = viper.GetString("LOG_FORMAT")

	config.Export.Filename = viper.GetString("EXPORT_FILENAME")

	if config.Upstream.RetryAttempts < 0 {
		config.Upstream.RetryAttempts = 0
	}

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}

// SetupLogger applies the configured level and output format to the global logger.
func SetupLogger(cfg LoggingConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if strings.EqualFold(cfg.Format, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
