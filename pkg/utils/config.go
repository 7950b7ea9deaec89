package utils

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Events   EventsConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	DefaultPageSize int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// EventsConfig selects where booking lifecycle events go. Driver "none" disables publishing.
type EventsConfig struct {
	Driver         string
	RabbitURL      string
	RabbitExchange string
	KafkaBrokers   []string
	KafkaTopic     string
}

type TracingConfig struct {
	Endpoint    string
	ServiceName string
}

func LoadConfig() (*Config, error) {
	return LoadConfigFile(".env")
}

// LoadConfigFile reads an optional env file; environment variables always win
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "shareit")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("BOOKING_PAGE_SIZE_DEFAULT", 20)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("EVENTS_DRIVER", "none")
	v.SetDefault("RABBIT_EXCHANGE", "booking.exchange")
	v.SetDefault("KAFKA_TOPIC", "booking.events")
	v.SetDefault("OTEL_SERVICE_NAME", "shareit")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			DefaultPageSize: v.GetInt("BOOKING_PAGE_SIZE_DEFAULT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Events: EventsConfig{
			Driver:         strings.ToLower(v.GetString("EVENTS_DRIVER")),
			RabbitURL:      v.GetString("RABBIT_URL"),
			RabbitExchange: v.GetString("RABBIT_EXCHANGE"),
			KafkaBrokers:   splitList(v.GetString("KAFKA_BROKERS")),
			KafkaTopic:     v.GetString("KAFKA_TOPIC"),
		},
		Tracing: TracingConfig{
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
		},
	}

	if config.App.DefaultPageSize < 1 {
		config.App.DefaultPageSize = 20
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
