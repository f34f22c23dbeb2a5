package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Model    ModelConfig    `mapstructure:"model"`
	Decision DecisionConfig `mapstructure:"decision"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Cron     CronConfig     `mapstructure:"cron"`
	Feed     FeedConfig     `mapstructure:"alert_feed"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

// ModelConfig points at the scoring artifact and carries the risk-category
// thresholds echoed back on every prediction.
type ModelConfig struct {
	Path       string          `mapstructure:"path"`
	Thresholds ThresholdConfig `mapstructure:"risk_thresholds"`
}

type ThresholdConfig struct {
	Low    float64 `mapstructure:"low"`
	Medium float64 `mapstructure:"medium"`
}

// DecisionConfig carries the lending-rule cutoffs. These are distinct from
// the risk-category thresholds above and must not be conflated with them.
type DecisionConfig struct {
	RiskThreshold float64 `mapstructure:"risk_threshold"`
	DTIThreshold  float64 `mapstructure:"dti_threshold"`
}

type LedgerConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

type CronConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	StatsSnapshot string `mapstructure:"stats_snapshot"`
}

type FeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Buffer  int  `mapstructure:"buffer"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("model.path", "artifacts/model.json")
	v.SetDefault("model.risk_thresholds.low", 0.25)
	v.SetDefault("model.risk_thresholds.medium", 0.60)
	v.SetDefault("decision.risk_threshold", 0.20)
	v.SetDefault("decision.dti_threshold", 0.45)
	v.SetDefault("ledger.default_limit", 50)
	v.SetDefault("ledger.max_limit", 500)
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.stats_snapshot", "@every 1h")
	v.SetDefault("alert_feed.enabled", true)
	v.SetDefault("alert_feed.buffer", 16)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
