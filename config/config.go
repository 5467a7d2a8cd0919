package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config is read once at startup and handed to the components that need it.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	Store         string
	MongoURL      string
	MongoDB       string
	DBTimeout     time.Duration
	JWTSecret     []byte
	TokenTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	UploadDir     string
	MaxBodyBytes  int64
	AuthRate      float64
	AuthBurst     int
}

func (c Config) Development() bool { return c.Env == "development" }

// Addr returns the listen address.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "6001")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE", StoreMongo)
	v.SetDefault("MONGO_DB", "mingle")
	v.SetDefault("DB_TIMEOUT", "5s")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("UPLOAD_DIR", "public/assets")
	v.SetDefault("MAX_BODY_BYTES", int64(30<<20))
	v.SetDefault("AUTH_RATE", 5.0)
	v.SetDefault("AUTH_BURST", 10)
}

// Load reads the process environment. Call godotenv.Load first to pick up a .env file.
func Load() (Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	for _, key := range []string{"MONGO_URL", "JWT_SECRET", "REDIS_ADDR", "REDIS_PASSWORD"} {
		_ = v.BindEnv(key)
	}

	cfg := Config{
		Port:          v.GetString("PORT"),
		Env:           strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:      v.GetString("LOG_LEVEL"),
		Store:         strings.ToLower(v.GetString("STORE")),
		MongoURL:      v.GetString("MONGO_URL"),
		MongoDB:       v.GetString("MONGO_DB"),
		DBTimeout:     v.GetDuration("DB_TIMEOUT"),
		JWTSecret:     []byte(v.GetString("JWT_SECRET")),
		TokenTTL:      v.GetDuration("TOKEN_TTL"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		UploadDir:     v.GetString("UPLOAD_DIR"),
		MaxBodyBytes:  v.GetInt64("MAX_BODY_BYTES"),
		AuthRate:      v.GetFloat64("AUTH_RATE"),
		AuthBurst:     v.GetInt("AUTH_BURST"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.Store {
	case StoreMongo:
		if c.MongoURL == "" {
			errs = append(errs, errors.New("MONGO_URL is required when STORE=mongo"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE %q", c.Store))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.DBTimeout <= 0 {
		errs = append(errs, errors.New("DB_TIMEOUT must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR is required"))
	}
	return errors.Join(errs...)
}
