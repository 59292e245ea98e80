// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// Config is the path to the Config file.
	Config string

	// GeminiAPIKey is the API key for the Gemini text-analysis service.
	GeminiAPIKey string

	// GeminiModel is the Gemini model name used for word analysis.
	GeminiModel string

	// UseMockLLM switches word analysis to the built-in mock provider.
	UseMockLLM bool

	// CronSecret protects the notification cron endpoint. An empty value
	// leaves the endpoint open (development only).
	CronSecret string

	// PushRelayURL is the endpoint of the push delivery relay.
	PushRelayURL string

	// SchedulerEnabled turns on the in-process notification scheduler.
	SchedulerEnabled bool

	// NotificationStartHour is the first JST hour (inclusive) at which
	// reminders may be sent.
	NotificationStartHour int

	// NotificationEndHour is the last JST hour (inclusive) at which
	// reminders may be sent.
	NotificationEndHour int

	// SessionTTLHours is the lifetime of issued login sessions in hours.
	SessionTTLHours int
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	flag.StringVar(&options.GeminiModel, "model", "gemini-2.5-flash-lite", "gemini model name")
	flag.BoolVar(&options.UseMockLLM, "mock-llm", false, "use the mock word-analysis provider")
	flag.BoolVar(&options.SchedulerEnabled, "scheduler", false, "run the in-process notification scheduler")
	flag.IntVar(&options.NotificationStartHour, "notify-from", 8, "first JST hour for reminders")
	flag.IntVar(&options.NotificationEndHour, "notify-to", 22, "last JST hour for reminders")
	flag.IntVar(&options.SessionTTLHours, "session-ttl", 24*30, "session lifetime in hours")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		options.GeminiAPIKey = key
	}
	if model := os.Getenv("MODEL_NAME"); model != "" {
		options.GeminiModel = model
	}
	if os.Getenv("USE_MOCK_LLM") == "true" {
		options.UseMockLLM = true
	}
	if secret := os.Getenv("CRON_SECRET"); secret != "" {
		options.CronSecret = secret
	}
	if relay := os.Getenv("PUSH_RELAY_URL"); relay != "" {
		options.PushRelayURL = relay
	}
	if os.Getenv("SCHEDULER_ENABLED") == "true" {
		options.SchedulerEnabled = true
	}
	if h, err := strconv.Atoi(os.Getenv("NOTIFICATION_START_HOUR")); err == nil && h >= 0 && h <= 23 {
		options.NotificationStartHour = h
	}
	if h, err := strconv.Atoi(os.Getenv("NOTIFICATION_END_HOUR")); err == nil && h >= 0 && h <= 23 {
		options.NotificationEndHour = h
	}

	return options
}
