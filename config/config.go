package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

// Config es la configuración completa del monitor.
type Config struct {
	Monitor  MonitorConfig   `yaml:"monitor"`
	Feeds    FeedsConfig     `yaml:"feeds"`
	Storage  StorageConfig   `yaml:"storage"`
	Log      LogConfig       `yaml:"log"`
	Universe domain.Universe `yaml:"universe"`
}

// MonitorConfig controla el comportamiento del loop del monitor.
type MonitorConfig struct {
	Venue               string  `yaml:"venue"`
	NewsIntervalSeconds int     `yaml:"news_interval_seconds"`
	MinEdgeBps          float64 `yaml:"min_edge_bps"`
	MinNotional         float64 `yaml:"min_notional"`
}

// FeedsConfig contiene los endpoints de los feeds externos.
type FeedsConfig struct {
	BinanceWS      string   `yaml:"binance_ws"`
	NewsBase       string   `yaml:"news_base"`
	NewsCategories []string `yaml:"news_categories"`
}

// StorageConfig controla dónde se archiva la telemetría.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Los valores del .env sobreescriben los del YAML para las keys
// que correspondan. Valida el universo: un anchor cero o negativo es un
// error fatal acá, nunca durante la reconciliación.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Universe.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// NewsInterval devuelve el intervalo de refresh del feed narrativo.
func (c *Config) NewsInterval() time.Duration {
	return time.Duration(c.Monitor.NewsIntervalSeconds) * time.Second
}

// Filter devuelve los umbrales de filtrado configurados.
func (c *Config) Filter() domain.FilterConfig {
	return domain.FilterConfig{
		MinEdgeBps:  c.Monitor.MinEdgeBps,
		MinNotional: c.Monitor.MinNotional,
	}
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("BINANCE_WS"); v != "" {
		cfg.Feeds.BinanceWS = v
	}
	if v := os.Getenv("NEWS_BASE"); v != "" {
		cfg.Feeds.NewsBase = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Monitor.Venue == "" {
		cfg.Monitor.Venue = "Binance"
	}
	if cfg.Monitor.NewsIntervalSeconds <= 0 {
		cfg.Monitor.NewsIntervalSeconds = 300
	}
	if cfg.Monitor.MinEdgeBps == 0 {
		cfg.Monitor.MinEdgeBps = domain.DefaultMinEdgeBps
	}
	if cfg.Monitor.MinNotional == 0 {
		cfg.Monitor.MinNotional = domain.DefaultMinNotional
	}
	if len(cfg.Feeds.NewsCategories) == 0 {
		cfg.Feeds.NewsCategories = []string{"BTC", "ETH", "Trading"}
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "basisbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
