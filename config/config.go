package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/trapmap/internal/engine"
)

// Config es la configuración completa del analizador.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Provider ProviderConfig `yaml:"provider"`
	Storage  StorageConfig  `yaml:"storage"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// AnalysisConfig controla umbrales y paralelismo del motor. Los valores
// en cero usan los umbrales por defecto del motor.
type AnalysisConfig struct {
	WarningRatioThreshold float64 `yaml:"warning_ratio_threshold"`
	WarningScoreThreshold float64 `yaml:"warning_score_threshold"`
	SafetyCutoff          float64 `yaml:"safety_cutoff"`
	MinTrapSeverity       float64 `yaml:"min_trap_severity"`
	MaxSafeMarkets        int     `yaml:"max_safe_markets"`
	Workers               int     `yaml:"workers"`
	OverroundLimit        float64 `yaml:"overround_limit"`
}

// ProviderConfig contiene el proveedor de datos de equipo y su cache.
type ProviderConfig struct {
	TransfermarktBase string `yaml:"transfermarkt_base"`
	CacheTTLSeconds   int    `yaml:"cache_ttl_seconds"`
	Enabled           bool   `yaml:"enabled"`
}

// StorageConfig controla dónde se persisten histórico y cache.
type StorageConfig struct {
	DSN      string `yaml:"dsn"`       // ruta al archivo SQLite, o ":memory:"
	CacheDSN string `yaml:"cache_dsn"` // cache del proveedor
}

// OutputConfig controla la presentación de resultados.
type OutputConfig struct {
	Table bool `yaml:"table"` // tabla completa en vez de una línea
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
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

	return &cfg, nil
}

// EngineConfig materializa la configuración del motor, partiendo de los
// defaults y aplicando solo los campos presentes en el YAML.
func (c *Config) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if c.Analysis.WarningRatioThreshold > 0 {
		cfg.WarningRatioThreshold = c.Analysis.WarningRatioThreshold
	}
	if c.Analysis.WarningScoreThreshold > 0 {
		cfg.WarningScoreThreshold = c.Analysis.WarningScoreThreshold
	}
	if c.Analysis.SafetyCutoff > 0 {
		cfg.SafetyCutoff = c.Analysis.SafetyCutoff
	}
	if c.Analysis.MinTrapSeverity > 0 {
		cfg.MinTrapSeverity = c.Analysis.MinTrapSeverity
	}
	if c.Analysis.MaxSafeMarkets > 0 {
		cfg.MaxSafeMarkets = c.Analysis.MaxSafeMarkets
	}
	if c.Analysis.Workers > 0 {
		cfg.Workers = c.Analysis.Workers
	}
	if c.Analysis.OverroundLimit > 0 {
		cfg.Detect.OverroundLimit = c.Analysis.OverroundLimit
	}
	return cfg
}

// CacheTTL devuelve la expiración del cache del proveedor.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Provider.CacheTTLSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TRANSFERMARKT_BASE"); v != "" {
		cfg.Provider.TransfermarktBase = v
	}
	if v := os.Getenv("TRAPMAP_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Provider.CacheTTLSeconds <= 0 {
		cfg.Provider.CacheTTLSeconds = 3600
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "trapmap.db"
	}
	if cfg.Storage.CacheDSN == "" {
		cfg.Storage.CacheDSN = "trapmap-cache.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
