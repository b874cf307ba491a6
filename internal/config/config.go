package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates the service configuration.
type Config struct {
	Server ServerConfig
	Corpus CorpusConfig
	Feed   FeedConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	corpus, err := loadCorpusConfig()
	if err != nil {
		return nil, err
	}

	feed, err := loadFeedConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Corpus: corpus, Feed: feed}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// loadServerConfig resolves the listen address.
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8326"
	}

	if strings.Contains(port, ":") {
		// Accept ":8326" or "127.0.0.1:8326" as given.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// CorpusConfig describes where quotes come from and how rendered pages are cached.
type CorpusConfig struct {
	// Dir overrides the embedded corpus with a directory of <id>.txt files.
	Dir           string
	PageCacheSize int
}

func loadCorpusConfig() (CorpusConfig, error) {
	cacheSize := 256
	if override, err := parseOptionalIntEnv("PAGE_CACHE_SIZE"); err != nil {
		return CorpusConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return CorpusConfig{}, fmt.Errorf("invalid PAGE_CACHE_SIZE value %d: must be positive", *override)
		}
		cacheSize = *override
	}

	return CorpusConfig{
		Dir:           strings.TrimSpace(os.Getenv("QUOTES_DIR")),
		PageCacheSize: cacheSize,
	}, nil
}

// FeedConfig controls the live random-quote feed.
type FeedConfig struct {
	Enabled  bool
	Interval time.Duration
}

func loadFeedConfig() (FeedConfig, error) {
	enabled, err := parseBoolEnv("FEED_ENABLED", true)
	if err != nil {
		return FeedConfig{}, err
	}

	interval, err := parseDurationEnv("FEED_INTERVAL", 30*time.Second)
	if err != nil {
		return FeedConfig{}, err
	}
	if interval <= 0 {
		return FeedConfig{}, fmt.Errorf("invalid FEED_INTERVAL value %s: must be positive", interval)
	}

	return FeedConfig{Enabled: enabled, Interval: interval}, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
