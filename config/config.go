package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server         Server
	Database       Database
	Log            Log
	Redis          Redis
	Auth           Auth
	Tracing        Tracing
	RateLimit      RateLimit
	Recommendation Recommendation
	GeminiApiKey   string
	GeminiModel    string
}

type Server struct {
	Port string
	Mode string // debug, release, test
}

type Database struct {
	Driver       string // postgres, sqlite
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type Log struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type Auth struct {
	JWTSecret string
}

type Tracing struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

type Recommendation struct {
	RulesFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_TTL", "5m")
	v.SetDefault("TRACING_ENDPOINT", "http://localhost:14268/api/traces")
	v.SetDefault("TRACING_SERVICE_NAME", "behavio")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	config := load(v)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("mode", config.Server.Mode).
		Str("dbDriver", config.Database.Driver).
		Str("dbHost", config.Database.Host).
		Bool("redis", config.Redis.Enabled).
		Bool("tracing", config.Tracing.Enabled).
		Bool("gemini", config.GeminiApiKey != "").
		Msg("Config loaded")
	return config, nil
}

func load(v *viper.Viper) *Config {
	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.Mode = v.GetString("SERVER_MODE")

	config.Database.Driver = v.GetString("DATABASE_DRIVER")
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	config.Database.MaxOpenConns = v.GetInt("DATABASE_MAX_OPEN_CONNS")
	config.Database.MaxIdleConns = v.GetInt("DATABASE_MAX_IDLE_CONNS")

	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Log.File = v.GetString("LOG_FILE")
	config.Log.MaxSizeMB = v.GetInt("LOG_MAX_SIZE_MB")
	config.Log.MaxBackups = v.GetInt("LOG_MAX_BACKUPS")
	config.Log.MaxAgeDays = v.GetInt("LOG_MAX_AGE_DAYS")

	config.Redis.Enabled = v.GetBool("REDIS_ENABLED")
	config.Redis.Addr = v.GetString("REDIS_ADDR")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.TTL = v.GetDuration("REDIS_TTL")

	config.Auth.JWTSecret = v.GetString("JWT_SECRET")

	config.Tracing.Enabled = v.GetBool("TRACING_ENABLED")
	config.Tracing.Endpoint = v.GetString("TRACING_ENDPOINT")
	config.Tracing.ServiceName = v.GetString("TRACING_SERVICE_NAME")
	config.Tracing.SampleRatio = v.GetFloat64("TRACING_SAMPLE_RATIO")

	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	config.RateLimit.Burst = v.GetInt("RATE_LIMIT_BURST")

	config.Recommendation.RulesFile = v.GetString("RECOMMENDATION_RULES_FILE")

	config.GeminiApiKey = v.GetString("GEMINI_API_KEY")
	config.GeminiModel = v.GetString("GEMINI_MODEL")
	return &config
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			errs = append(errs, errors.New("DATABASE_HOST and DATABASE_NAME are required for postgres"))
		}
	case "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver))
	}
	if c.Redis.Enabled && c.Redis.TTL <= 0 {
		errs = append(errs, errors.New("REDIS_TTL must be positive when redis is enabled"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, errors.New("TRACING_SAMPLE_RATIO must be within [0,1]"))
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("rate limit values must not be negative"))
	}
	return errors.Join(errs...)
}
