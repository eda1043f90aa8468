package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Studio    StudioConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	Otel      OtelConfig
}

type AppConfig struct {
	Port        string
	Env         string
	Timezone    string
	LogLevel    string
	CORSOrigins string
}

type DBConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
	LogQueries bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type JWTConfig struct {
	Secret        string
	SessionMaxAge time.Duration
}

// AdminConfig holds the single dashboard account. PasswordHash wins over
// Password when both are set.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

// StudioConfig describes the studio calendar. OccupiedStatuses lists the
// appointment statuses that hold a slot, comma separated.
type StudioConfig struct {
	Name             string
	Inbox            string
	WorkStart        string
	WorkEnd          string
	SlotDuration     int
	OccupiedStatuses string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// RateLimitConfig throttles public writes. TrustedProxies is a comma
// separated list of IPs or CIDRs allowed to set X-Forwarded-For.
type RateLimitConfig struct {
	PerMinute      int
	Burst          int
	TrustedProxies string
}

type OtelConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	SampleRatio float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "studio")
	v.SetDefault("DB_SQLITE_PATH", "studio.db")
	v.SetDefault("DB_LOG_QUERIES", false)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CACHE_TTL", "5m")

	v.SetDefault("SESSION_MAX_AGE", "24h")

	v.SetDefault("STUDIO_NAME", "Photography Studio")
	v.SetDefault("WORK_START", "09:00")
	v.SetDefault("WORK_END", "17:00")
	v.SetDefault("SLOT_DURATION", 60)
	v.SetDefault("OCCUPIED_STATUSES", "pending,confirmed")

	v.SetDefault("SMTP_PORT", "587")

	v.SetDefault("RATE_LIMIT_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("TRUSTED_PROXIES", "")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "studio-booking")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SAMPLING_RATIO", 1.0)
}

// LoadConfig reads an optional .env file and then the process environment.
// Environment variables override values from the file.
func LoadConfig() (*Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, envFile string) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	cacheTTL, err := time.ParseDuration(v.GetString("REDIS_CACHE_TTL"))
	if err != nil {
		cacheTTL = 5 * time.Minute
	}

	sessionMaxAge, err := time.ParseDuration(v.GetString("SESSION_MAX_AGE"))
	if err != nil {
		sessionMaxAge = 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			Timezone:    v.GetString("APP_TIMEZONE"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			CORSOrigins: v.GetString("CORS_ORIGINS"),
		},
		DB: DBConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
			LogQueries: v.GetBool("DB_LOG_QUERIES"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: cacheTTL,
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			SessionMaxAge: sessionMaxAge,
		},
		Admin: AdminConfig{
			Username:     v.GetString("ADMIN_USERNAME"),
			Password:     v.GetString("ADMIN_PASSWORD"),
			PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		},
		Studio: StudioConfig{
			Name:             v.GetString("STUDIO_NAME"),
			Inbox:            v.GetString("STUDIO_INBOX"),
			WorkStart:        v.GetString("WORK_START"),
			WorkEnd:          v.GetString("WORK_END"),
			SlotDuration:     v.GetInt("SLOT_DURATION"),
			OccupiedStatuses: v.GetString("OCCUPIED_STATUSES"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetString("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		RateLimit: RateLimitConfig{
			PerMinute:      v.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:          v.GetInt("RATE_LIMIT_BURST"),
			TrustedProxies: v.GetString("TRUSTED_PROXIES"),
		},
		Otel: OtelConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SampleRatio: v.GetFloat64("OTEL_SAMPLING_RATIO"),
		},
	}

	return config, nil
}

// Location resolves the studio time zone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
