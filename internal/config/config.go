package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application, loaded once in main.
type Config struct {
	// Server
	Port     string
	LogLevel string

	// GoHighLevel API
	GHLBaseURL    string
	GHLAPIKey     string
	GHLPipelineID string
	GHLStageID    string

	// Slack incoming webhook for operator alerts
	SlackWebhookURL string

	// SMTP alert channel (optional, secondary to Slack)
	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string
	MailTo   string

	// RabbitMQ lead-event publishing (optional)
	AMQPUser string
	AMQPPass string
	AMQPHost string
	AMQPPort string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GHLBaseURL:    getEnv("GHL_BASE_URL", "https://rest.gohighlevel.com"),
		GHLAPIKey:     getEnv("GHL_API_KEY", ""),
		GHLPipelineID: getEnv("GHL_PIPELINE_ID", ""),
		GHLStageID:    getEnv("GHL_STAGE_ID", ""),

		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),

		MailHost: getEnv("MAIL_HOST", ""),
		MailPort: getEnvAsInt("MAIL_PORT", 587),
		MailUser: getEnv("MAIL_USER", ""),
		MailPass: getEnv("MAIL_PASS", ""),
		MailFrom: getEnv("MAIL_FROM", "alerts@boak.io"),
		MailTo:   getEnv("MAIL_ALERT_TO", ""),

		AMQPUser: getEnv("AMQP_USER", ""),
		AMQPPass: getEnv("AMQP_PASS", ""),
		AMQPHost: getEnv("AMQP_HOST", ""),
		AMQPPort: getEnv("AMQP_PORT", "5672"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// HasGHLConfig returns true if the CRM credentials are configured.
func (c *Config) HasGHLConfig() bool {
	return c.GHLAPIKey != "" && c.GHLPipelineID != "" && c.GHLStageID != ""
}

// HasSlackConfig returns true if the alert webhook is configured.
func (c *Config) HasSlackConfig() bool {
	return c.SlackWebhookURL != ""
}

// HasMailConfig returns true if the SMTP alert channel is configured.
func (c *Config) HasMailConfig() bool {
	return c.MailHost != "" && c.MailTo != ""
}

// HasAMQPConfig returns true if lead events should be published.
func (c *Config) HasAMQPConfig() bool {
	return c.AMQPHost != ""
}
