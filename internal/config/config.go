package config

import (
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig   `envconfig:"server"`
	Database DatabaseConfig `envconfig:"db"`
	JWT      JWTConfig      `envconfig:"jwt"`
	Invite   InviteConfig   `envconfig:"invite"`
	Mail     MailConfig     `envconfig:"mail"`
	GeoIP    GeoIPConfig    `envconfig:"geoip"`
	Site     SiteConfig     `envconfig:"site"`
	Limits   LimitsConfig   `envconfig:"limits"`
	Owner    OwnerConfig    `envconfig:"owner"`

	LogLevel string `envconfig:"log_level" default:"info"`
	Timezone string `envconfig:"timezone" default:"Asia/Riyadh"`
}

type ServerConfig struct {
	Host           string        `envconfig:"host" default:"0.0.0.0"`
	Port           int           `envconfig:"port" default:"5000"`
	ReadTimeout    time.Duration `envconfig:"read_timeout" default:"30s"`
	WriteTimeout   time.Duration `envconfig:"write_timeout" default:"60s"`
	AllowedOrigins []string      `envconfig:"allowed_origins" default:"https://www.intlakaa.com,https://intlakaa.com,http://localhost:5173,http://localhost:8080"`
}

type DatabaseConfig struct {
	Host         string `envconfig:"host" default:"localhost"`
	Port         int    `envconfig:"port" default:"5432"`
	User         string `envconfig:"user" default:"postgres"`
	Password     string `envconfig:"password" default:"postgres"`
	Database     string `envconfig:"name" default:"intlakaa"`
	SSLMode      string `envconfig:"ssl_mode" default:"disable"`
	MaxOpenConns int    `envconfig:"max_open_conns" default:"25"`
	MaxIdleConns int    `envconfig:"max_idle_conns" default:"5"`
}

type JWTConfig struct {
	Secret          string `envconfig:"secret" required:"true"`
	ExpirationHours int    `envconfig:"expiration_hours" default:"24"`
}

type InviteConfig struct {
	Lifetime      time.Duration `envconfig:"lifetime" default:"48h"`
	SweepSchedule string        `envconfig:"sweep_schedule" default:"@hourly"`
}

// MailConfig configures the SendGrid v3 API used for invitation e-mails.
// An empty APIKey makes the mailer log links instead of sending them.
type MailConfig struct {
	APIKey   string        `envconfig:"sendgrid_api_key"`
	BaseURL  string        `envconfig:"base_url" default:"https://api.sendgrid.com"`
	From     string        `envconfig:"from" default:"hazem@intlakaa.com"`
	FromName string        `envconfig:"from_name" default:"انطلاقة"`
	Timeout  time.Duration `envconfig:"timeout" default:"10s"`
}

// GeoIPConfig configures the best-effort country lookup for new leads.
// URL must contain a single %s verb for the IP address.
type GeoIPConfig struct {
	URL     string        `envconfig:"url" default:"https://ipapi.co/%s/json/"`
	Timeout time.Duration `envconfig:"timeout" default:"3s"`
	Enabled bool          `envconfig:"enabled" default:"true"`
}

type SiteConfig struct {
	PublicURL string `envconfig:"public_url" default:"https://www.intlakaa.com"`
	// Dir holds the built public site; index.html inside it is rendered
	// with the stored SEO settings and is the source for seo sync.
	Dir string `envconfig:"dir"`
}

type LimitsConfig struct {
	LoginPerMinute int `envconfig:"login_per_minute" default:"10"`
	LeadsPerMinute int `envconfig:"leads_per_minute" default:"5"`
}

type OwnerConfig struct {
	Email    string `envconfig:"email"`
	Password string `envconfig:"password"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Database +
		" sslmode=" + c.SSLMode
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location resolves Timezone, falling back to UTC when unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
