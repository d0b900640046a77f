package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Argon2    Argon2Config
	RateLimit RateLimitConfig
	Lockout   LockoutConfig
	Invite    InviteConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Env                string
	LogLevel           zerolog.Level
	CORSAllowedOrigins []string
}

// IsDevelopment relaxes cookie and transport security for local runs.
func (a AppConfig) IsDevelopment() bool { return a.Env == "development" }

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL           string
	RunMigrations bool
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	InviteSecret  string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	InviteExpiry  time.Duration
}

type Argon2Config struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

// RateLimitConfig rates use the limiter format, e.g. "5-M".
type RateLimitConfig struct {
	PerIP   string
	Login   string
	Signup  string
	Refresh string
}

// LockoutConfig MaxAttempts 0 disables login lockout.
type LockoutConfig struct {
	MaxAttempts int
	Cooldown    time.Duration
}

type InviteConfig struct {
	Mode string
	// EmailDelivery is "queue" (asynq) or "log".
	EmailDelivery string
}

type JobsConfig struct {
	RunWorker   bool
	DigestCron  string
	CleanupCron string
}

// required settings have no defaults; startup fails when any is missing.
type required struct {
	DatabaseURL      string `env:"DATABASE_URL" env-required:"true"`
	RedisURL         string `env:"REDIS_URL" env-required:"true"`
	JWTAccessSecret  string `env:"JWT_ACCESS_SECRET" env-required:"true"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET" env-required:"true"`
	JWTInviteSecret  string `env:"JWT_INVITE_SECRET" env-required:"true"`
	Port             string `env:"PORT" env-required:"true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("JWT_ISSUER", "jira-clone")
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRY", "168h")
	v.SetDefault("INVITE_TOKEN_EXPIRY", "48h")
	v.SetDefault("ARGON2_MEMORY", 64*1024)
	v.SetDefault("ARGON2_ITERATIONS", 3)
	v.SetDefault("ARGON2_PARALLELISM", 2)
	v.SetDefault("RATE_LIMIT_IP", "300-M")
	v.SetDefault("RATE_LIMIT_LOGIN", "20-H")
	v.SetDefault("RATE_LIMIT_SIGNUP", "3-H")
	v.SetDefault("RATE_LIMIT_REFRESH", "40-H")
	v.SetDefault("LOGIN_LOCKOUT_ATTEMPTS", 10)
	v.SetDefault("LOGIN_LOCKOUT_COOLDOWN", "15m")
	v.SetDefault("INVITE_MODE", "token")
	v.SetDefault("INVITE_EMAIL_DELIVERY", "queue")
	v.SetDefault("RUN_WORKER", true)
	v.SetDefault("DIGEST_CRON", "0 8 * * *")
	v.SetDefault("CLEANUP_CRON", "0 * * * *")
}

// Load reads required settings from the environment and optional tuning from
// the environment and, when configFile (or CONFIG_FILE) is set, that file.
func Load(configFile string) (*Config, error) {
	var req required
	if err := cleanenv.ReadEnv(&req); err != nil {
		return nil, fmt.Errorf("required configuration: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("LOG_LEVEL")))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg := &Config{
		App: AppConfig{
			Env:                strings.ToLower(v.GetString("APP_ENV")),
			LogLevel:           level,
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Server: ServerConfig{
			Port:            req.Port,
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL:           req.DatabaseURL,
			RunMigrations: v.GetBool("RUN_MIGRATIONS"),
		},
		Redis: RedisConfig{URL: req.RedisURL},
		JWT: JWTConfig{
			AccessSecret:  req.JWTAccessSecret,
			RefreshSecret: req.JWTRefreshSecret,
			InviteSecret:  req.JWTInviteSecret,
			Issuer:        v.GetString("JWT_ISSUER"),
			AccessExpiry:  v.GetDuration("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: v.GetDuration("JWT_REFRESH_EXPIRY"),
			InviteExpiry:  v.GetDuration("INVITE_TOKEN_EXPIRY"),
		},
		Argon2: Argon2Config{
			Memory:      uint32(v.GetInt("ARGON2_MEMORY")),
			Iterations:  uint32(v.GetInt("ARGON2_ITERATIONS")),
			Parallelism: uint8(v.GetInt("ARGON2_PARALLELISM")),
		},
		RateLimit: RateLimitConfig{
			PerIP:   v.GetString("RATE_LIMIT_IP"),
			Login:   v.GetString("RATE_LIMIT_LOGIN"),
			Signup:  v.GetString("RATE_LIMIT_SIGNUP"),
			Refresh: v.GetString("RATE_LIMIT_REFRESH"),
		},
		Lockout: LockoutConfig{
			MaxAttempts: v.GetInt("LOGIN_LOCKOUT_ATTEMPTS"),
			Cooldown:    v.GetDuration("LOGIN_LOCKOUT_COOLDOWN"),
		},
		Invite: InviteConfig{
			Mode:          strings.ToLower(v.GetString("INVITE_MODE")),
			EmailDelivery: strings.ToLower(v.GetString("INVITE_EMAIL_DELIVERY")),
		},
		Jobs: JobsConfig{
			RunWorker:   v.GetBool("RUN_WORKER"),
			DigestCron:  v.GetString("DIGEST_CRON"),
			CleanupCron: v.GetString("CLEANUP_CRON"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.AccessSecret == c.JWT.RefreshSecret || c.JWT.AccessSecret == c.JWT.InviteSecret || c.JWT.RefreshSecret == c.JWT.InviteSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET, JWT_REFRESH_SECRET and JWT_INVITE_SECRET must differ")
	}
	for name, d := range map[string]time.Duration{
		"JWT_ACCESS_EXPIRY":      c.JWT.AccessExpiry,
		"JWT_REFRESH_EXPIRY":     c.JWT.RefreshExpiry,
		"INVITE_TOKEN_EXPIRY":    c.JWT.InviteExpiry,
		"SHUTDOWN_TIMEOUT":       c.Server.ShutdownTimeout,
		"LOGIN_LOCKOUT_COOLDOWN": c.Lockout.Cooldown,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be a positive duration", name)
		}
	}
	if c.Lockout.MaxAttempts < 0 {
		return fmt.Errorf("LOGIN_LOCKOUT_ATTEMPTS must not be negative")
	}
	if c.Invite.Mode != "token" && c.Invite.Mode != "direct" {
		return fmt.Errorf("INVITE_MODE must be token or direct, got %q", c.Invite.Mode)
	}
	if c.Invite.EmailDelivery != "queue" && c.Invite.EmailDelivery != "log" {
		return fmt.Errorf("INVITE_EMAIL_DELIVERY must be queue or log, got %q", c.Invite.EmailDelivery)
	}
	if c.Argon2.Memory == 0 || c.Argon2.Iterations == 0 || c.Argon2.Parallelism == 0 {
		return fmt.Errorf("ARGON2_MEMORY, ARGON2_ITERATIONS and ARGON2_PARALLELISM must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
