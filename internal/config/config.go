package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Source    SourceConfig    `mapstructure:"source"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Security  SecurityConfig  `mapstructure:"security"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	LoadTimeout     time.Duration `mapstructure:"load_timeout"`
}

// SourceConfig selects where transactions come from.
type SourceConfig struct {
	Kind       string `mapstructure:"kind"`
	CSVFile    string `mapstructure:"csv_file"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// GeneratorConfig parameterizes simulated data. Upper bounds are exclusive.
type GeneratorConfig struct {
	Days      int      `mapstructure:"days"`
	MinPerDay int      `mapstructure:"min_per_day"`
	MaxPerDay int      `mapstructure:"max_per_day"`
	MinAmount int      `mapstructure:"min_amount"`
	MaxAmount int      `mapstructure:"max_amount"`
	Products  []string `mapstructure:"products"`
	Seed      uint64   `mapstructure:"seed"`
}

type DashboardConfig struct {
	EmptySelection string `mapstructure:"empty_selection"`
	TableRows      int    `mapstructure:"table_rows"`
	LegendMaxItems int    `mapstructure:"legend_max_items"`
	ChartTheme     string `mapstructure:"chart_theme"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SecurityConfig struct {
	EnableRateLimit bool     `mapstructure:"rate_limit_enabled"`
	RateLimitRPS    int      `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int      `mapstructure:"rate_limit_burst"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	TrustedProxies  []string `mapstructure:"trusted_proxies"`
}

const (
	SourceGenerator = "generator"
	SourceCSV       = "csv"
	SourceSQLite    = "sqlite"
)

var defaults = map[string]any{
	"server.host":             "localhost",
	"server.port":             8084,
	"server.read_timeout":     10 * time.Second,
	"server.write_timeout":    30 * time.Second,
	"server.idle_timeout":     60 * time.Second,
	"server.shutdown_timeout": 30 * time.Second,
	"server.load_timeout":     30 * time.Second,

	"source.kind":        SourceGenerator,
	"source.csv_file":    "data.csv",
	"source.sqlite_path": "data/sales.db",

	"generator.days":        180,
	"generator.min_per_day": 10,
	"generator.max_per_day": 30,
	"generator.min_amount":  50,
	"generator.max_amount":  5000,
	"generator.products":    []string{"Laptop Pro", "Monitor 4K", "Tablet", "Auriculares BT", "Cargador Inalámbrico"},
	"generator.seed":        0,

	"dashboard.empty_selection":  "none",
	"dashboard.table_rows":       500,
	"dashboard.legend_max_items": 8,
	"dashboard.chart_theme":      "dark",

	"logger.level":  "info",
	"logger.format": "json",

	"security.rate_limit_enabled": true,
	"security.rate_limit_rps":     100,
	"security.rate_limit_burst":   10,
	"security.allowed_origins":    []string{"http://localhost:8084"},
	"security.trusted_proxies":    []string{"127.0.0.1"},
}

// Short environment names kept from earlier deployments.
var envAliases = map[string]string{
	"logger.level":    "LOG_LEVEL",
	"logger.format":   "LOG_FORMAT",
	"source.csv_file": "CSV_FILE",
}

// Load resolves defaults, then the optional config file, then environment
// variables. Every key maps to an upper-case variable with dots replaced by
// underscores, e.g. server.port -> SERVER_PORT.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	switch c.Source.Kind {
	case SourceGenerator:
	case SourceCSV:
		if c.Source.CSVFile == "" {
			return fmt.Errorf("CSV file path cannot be empty")
		}
	case SourceSQLite:
		if c.Source.SQLitePath == "" {
			return fmt.Errorf("sqlite path cannot be empty")
		}
	default:
		return fmt.Errorf("invalid source kind %q, must be one of: %s", c.Source.Kind,
			strings.Join([]string{SourceGenerator, SourceCSV, SourceSQLite}, ", "))
	}

	if c.Generator.Days <= 0 {
		return fmt.Errorf("generator days must be positive")
	}

	if c.Generator.MaxPerDay <= c.Generator.MinPerDay || c.Generator.MinPerDay < 0 {
		return fmt.Errorf("generator per-day range [%d, %d) is empty", c.Generator.MinPerDay, c.Generator.MaxPerDay)
	}

	if c.Generator.MaxAmount <= c.Generator.MinAmount || c.Generator.MinAmount <= 0 {
		return fmt.Errorf("generator amount range [%d, %d) is invalid", c.Generator.MinAmount, c.Generator.MaxAmount)
	}

	if len(c.Generator.Products) == 0 {
		return fmt.Errorf("generator products cannot be empty")
	}

	validPolicies := []string{"none", "all"}
	if !slices.Contains(validPolicies, c.Dashboard.EmptySelection) {
		return fmt.Errorf("invalid empty selection policy %q, must be one of: %s", c.Dashboard.EmptySelection, strings.Join(validPolicies, ", "))
	}

	if c.Dashboard.TableRows <= 0 {
		return fmt.Errorf("dashboard table rows must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
