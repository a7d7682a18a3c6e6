package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// ParseEnvironment falls back to Development for unknown values.
func ParseEnvironment(s string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case Production:
		return Production
	default:
		return Development
	}
}

type Config struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	APIBaseURL       string        `envconfig:"API_BASE_URL" default:"http://localhost:5000/"`
	APITimeout       time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	APIUploadTimeout time.Duration `envconfig:"API_UPLOAD_TIMEOUT" default:"60s"`
	APIRateLimit     float64       `envconfig:"API_RATE_LIMIT" default:"50"`
	APIRateBurst     int           `envconfig:"API_RATE_BURST" default:"20"`

	SessionStore       string        `envconfig:"SESSION_STORE" default:"sqlite"`
	DBDSN              string        `envconfig:"DB_DSN" default:"merchantportal.db"`
	RedisURL           string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	SessionIdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"8h"`
	CookieSecure       bool          `envconfig:"COOKIE_SECURE" default:"false"`

	TemplatesDir string `envconfig:"TEMPLATES_DIR" default:"./web/templates"`
	LocalesDir   string `envconfig:"LOCALES_DIR" default:"./web/locales"`
	LogFile      string `envconfig:"LOG_FILE"`
}

func (c Config) Environment() Environment { return ParseEnvironment(c.Env) }

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if !strings.HasSuffix(cfg.APIBaseURL, "/") {
		cfg.APIBaseURL += "/"
	}
	cfg.SessionStore = strings.ToLower(cfg.SessionStore)
	log.Printf("[config] APP_ENV=%s PORT=%s API_BASE_URL=%s SESSION_STORE=%s", cfg.Environment(), cfg.Port, cfg.APIBaseURL, cfg.SessionStore)
	return cfg, nil
}
