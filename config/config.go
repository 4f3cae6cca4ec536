package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Booking   BookingConfig
	Kafka     KafkaConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port string
	Env  string
	// CORSAllowedOrigins is a comma separated list, "*" allows any origin
	CORSAllowedOrigins string
}

// IsDevelopment reports whether verbose development settings apply.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "local"
}

type LogConfig struct {
	Level string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	TimeZone     string
	MaxIdleConns int
	MaxOpenConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type BookingConfig struct {
	DefaultSlotMinutes   int
	LockCleanupInterval  time.Duration
	LockStaleAfter       time.Duration
	SlotCacheEnabled     bool
	RequireGridAlignment bool
}

type KafkaConfig struct {
	Brokers          string
	AppointmentTopic string
}

// Enabled reports whether a broker list was configured.
func (c KafkaConfig) Enabled() bool {
	return c.Brokers != ""
}

type TelemetryConfig struct {
	Enabled       bool
	Endpoint      string
	ServiceName   string
	SamplingRatio float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")

	v.SetDefault("BOOKING_DEFAULT_SLOT_MINUTES", 30)
	v.SetDefault("BOOKING_LOCK_CLEANUP_INTERVAL", "10m")
	v.SetDefault("BOOKING_LOCK_STALE_AFTER", "10m")
	v.SetDefault("BOOKING_SLOT_CACHE_ENABLED", true)
	v.SetDefault("BOOKING_REQUIRE_GRID_ALIGNMENT", false)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_APPOINTMENT_TOPIC", "appointments.events")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SERVICE_NAME", "appointment-booking")
	v.SetDefault("OTEL_SAMPLING_RATIO", 1.0)
}

// LoadConfig reads .env when present; environment variables take precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:               v.GetString("APP_PORT"),
			Env:                v.GetString("APP_ENV"),
			CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			TimeZone:     v.GetString("DB_TIMEZONE"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Booking: BookingConfig{
			DefaultSlotMinutes:   v.GetInt("BOOKING_DEFAULT_SLOT_MINUTES"),
			LockCleanupInterval:  v.GetDuration("BOOKING_LOCK_CLEANUP_INTERVAL"),
			LockStaleAfter:       v.GetDuration("BOOKING_LOCK_STALE_AFTER"),
			SlotCacheEnabled:     v.GetBool("BOOKING_SLOT_CACHE_ENABLED"),
			RequireGridAlignment: v.GetBool("BOOKING_REQUIRE_GRID_ALIGNMENT"),
		},
		Kafka: KafkaConfig{
			Brokers:          v.GetString("KAFKA_BROKERS"),
			AppointmentTopic: v.GetString("KAFKA_APPOINTMENT_TOPIC"),
		},
		Telemetry: TelemetryConfig{
			Enabled:       v.GetBool("OTEL_ENABLED"),
			Endpoint:      v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:   v.GetString("OTEL_SERVICE_NAME"),
			SamplingRatio: v.GetFloat64("OTEL_SAMPLING_RATIO"),
		},
	}

	return config, nil
}
