// Package server provides configuration helpers that define runtime defaults
// and validation for the partyline service.
package server

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the server configuration settings for both the TCP chat
// listener and the HTTP/WebSocket gateway.
type Config struct {
	// ChatAddr is the TCP listen address for the line-oriented chat protocol.
	ChatAddr string
	// HTTPAddr is the listen address of the HTTP gateway (health + WebSocket).
	HTTPAddr string
	// AllowedOrigins restricts which browser origins may open a WebSocket.
	AllowedOrigins []string
	// MaxMessageSize caps the length of a single inbound line in bytes.
	MaxMessageSize int64
	// HistoryGreets is the number of recent log entries sent privately to a
	// client right after it joins.
	HistoryGreets int
	// Verbose gates internal diagnostic output.
	Verbose bool
}

func defaultConfig() Config {
	return Config{
		ChatAddr: ":4040",
		HTTPAddr: ":8080",
		AllowedOrigins: []string{
			"http://localhost:8080",
		},
		MaxMessageSize: 512,
		HistoryGreets:  10,
	}
}

func sanitizeConfig(cfg Config) Config {
	if cfg.ChatAddr == "" {
		cfg.ChatAddr = ":4040"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 512
	}
	if cfg.HistoryGreets < 0 {
		cfg.HistoryGreets = 0
	}
	return cfg
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// NewConfigFromEnv creates a Config instance from environment variables.
// Falls back to default values if environment variables are not set.
func NewConfigFromEnv() *Config {
	cfg := defaultConfig()

	if addr := os.Getenv("CHAT_ADDR"); addr != "" {
		cfg.ChatAddr = addr
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	if maxSize := os.Getenv("MAX_MESSAGE_SIZE"); maxSize != "" {
		cfg.MaxMessageSize = parseMaxMessageSize(maxSize, cfg.MaxMessageSize)
	}

	if greets := os.Getenv("HISTORY_GREETS"); greets != "" {
		cfg.HistoryGreets = parseIntValue(greets, cfg.HistoryGreets)
	}

	if verbose := os.Getenv("CHAT_VERBOSE"); verbose != "" {
		cfg.Verbose = parseBoolValue(verbose)
	}

	return &cfg
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseMaxMessageSize(value string, defaultValue int64) int64 {
	if size, err := strconv.ParseInt(value, 10, 64); err == nil && size > 0 {
		return size
	}
	return defaultValue
}

func parseIntValue(value string, defaultValue int) int {
	if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
		return parsed
	}
	return defaultValue
}

func parseBoolValue(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}
