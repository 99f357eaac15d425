package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"farewatch/internal/history"
	"farewatch/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Route    RouteConfig    `mapstructure:"route"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Site     SiteConfig     `mapstructure:"site"`
	Alerting AlertingConfig `mapstructure:"alerting"`
	Database DatabaseConfig `mapstructure:"database"`
	Export   ExportConfig   `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// RouteConfig identifies the tracked trip. Airport codes and date strings are
// passed to the booking site as-is; the site is the authority on their
// validity.
type RouteConfig struct {
	Origin       string `mapstructure:"origin"`
	Destination  string `mapstructure:"destination"`
	OutboundDate string `mapstructure:"outbound_date"`
	ReturnDate   string `mapstructure:"return_date"`
	Passengers   int    `mapstructure:"passengers"`
}

// WatchConfig governs the polling loop. The interval is given in minutes,
// matching the original command-line contract. A zero deal price means no
// deal threshold is set and alerts never fire.
type WatchConfig struct {
	IntervalMinutes int           `mapstructure:"interval_minutes"`
	DealPrice       int64         `mapstructure:"deal_price"`
	SnapshotPath    string        `mapstructure:"snapshot_path"`
	ChartPath       string        `mapstructure:"chart_path"`
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
}

// Interval converts the configured minutes into a duration.
func (w WatchConfig) Interval() time.Duration {
	return time.Duration(w.IntervalMinutes) * time.Minute
}

// DealThreshold returns the deal price as an optional value; nil when unset.
func (w WatchConfig) DealThreshold() *int64 {
	if w.DealPrice <= 0 {
		return nil
	}
	price := w.DealPrice
	return &price
}

// SiteConfig captures booking-site connectivity.
type SiteConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	OutboundSelector string        `mapstructure:"outbound_selector"`
	ReturnSelector   string        `mapstructure:"return_selector"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	UserAgent        string        `mapstructure:"user_agent"`
}

// AlertingConfig defines alert routing.
type AlertingConfig struct {
	Twilio TwilioConfig `mapstructure:"twilio"`
}

// TwilioConfig 描述 Twilio 短信告警凭据。四项全部提供时通道才会启用。
type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	From       string `mapstructure:"from"`
	To         string `mapstructure:"to"`
	APIBase    string `mapstructure:"api_base"`
}

// Configured reports whether every credential required to send SMS is set.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.From != "" && t.To != ""
}

func (t TwilioConfig) partiallyConfigured() bool {
	any := t.AccountSID != "" || t.AuthToken != "" || t.From != "" || t.To != ""
	return any && !t.Configured()
}

// DatabaseConfig encapsulates the optional PostgreSQL cycle archive.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxConns        int           `mapstructure:"max_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FAREWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "farewatch")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("route.origin", "")
	v.SetDefault("route.destination", "")
	v.SetDefault("route.outbound_date", "")
	v.SetDefault("route.return_date", "")
	v.SetDefault("route.passengers", 1)

	v.SetDefault("watch.interval_minutes", 30)
	v.SetDefault("watch.deal_price", 0)
	v.SetDefault("watch.snapshot_path", "")
	v.SetDefault("watch.chart_path", "")
	v.SetDefault("watch.startup_delay", "0s")

	v.SetDefault("site.base_url", "https://www.southwest.com")
	v.SetDefault("site.outbound_selector", "#faresOutbound .product_price")
	v.SetDefault("site.return_selector", "#faresReturn .product_price")
	v.SetDefault("site.request_timeout", "30s")
	v.SetDefault("site.user_agent", "farewatch/1.0")

	v.SetDefault("alerting.twilio.account_sid", "")
	v.SetDefault("alerting.twilio.auth_token", "")
	v.SetDefault("alerting.twilio.from", "")
	v.SetDefault("alerting.twilio.to", "")
	v.SetDefault("alerting.twilio.api_base", "https://api.twilio.com")

	v.SetDefault("export.max_data_points", 100000)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values. The
// snapshot path check is a hard startup gate: a wrong extension must abort
// before the first cycle.
func (c *Config) Validate() error {
	if c.Watch.IntervalMinutes <= 0 {
		return fmt.Errorf("watch.interval_minutes must be greater than zero")
	}
	if c.Watch.DealPrice < 0 {
		return fmt.Errorf("watch.deal_price cannot be negative")
	}
	if c.Route.Passengers <= 0 {
		return fmt.Errorf("route.passengers must be greater than zero")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	if err := history.ValidateSnapshotPath(c.Watch.SnapshotPath); err != nil {
		return fmt.Errorf("watch.snapshot_path: %w", err)
	}
	if c.Alerting.Twilio.partiallyConfigured() {
		return fmt.Errorf("alerting.twilio 配置不完整: account_sid/auth_token/from/to 必须同时提供")
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
