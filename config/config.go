package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisBookingDB   int    `mapstructure:"REDIS_BOOKING_DB"`
	RedisTaskQueueDB int    `mapstructure:"REDIS_TASK_QUEUE_DB"`

	// Stripe secret key.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Zoom server-to-server OAuth app credentials.
	ZoomAccountID    string `mapstructure:"ZOOM_ACCOUNT_ID"`
	ZoomClientID     string `mapstructure:"ZOOM_CLIENT_ID"`
	ZoomClientSecret string `mapstructure:"ZOOM_CLIENT_SECRET"`

	// Transactional email API.
	MailAPIURL string `mapstructure:"MAIL_API_URL"`
	MailAPIKey string `mapstructure:"MAIL_API_KEY"`
	MailFrom   string `mapstructure:"MAIL_FROM"`

	// RefundUnitDivisor scales a session's stored price down to the amount
	// sent to the payment gateway on refund. It is a unit-conversion policy,
	// not workflow logic, so it lives in configuration.
	RefundUnitDivisor int `mapstructure:"REFUND_UNIT_DIVISOR"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_BOOKING_DB", 0)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 1)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("ZOOM_ACCOUNT_ID", "")
	viper.SetDefault("ZOOM_CLIENT_ID", "")
	viper.SetDefault("ZOOM_CLIENT_SECRET", "")
	viper.SetDefault("MAIL_API_URL", "")
	viper.SetDefault("MAIL_API_KEY", "")
	viper.SetDefault("MAIL_FROM", "no-reply@tutorhive.app")
	viper.SetDefault("REFUND_UNIT_DIVISOR", 300)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
