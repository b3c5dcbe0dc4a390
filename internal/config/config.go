package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds service configuration.
type Config struct {
	ServerAddr   string
	GameCapacity int
	StartingCash int
	VerdictDelay time.Duration
	RevealDelay  time.Duration
}

// Load reads configuration from environment.
func Load() *Config {
	return &Config{
		ServerAddr:   getenv("SERVER_ADDR", ":8080"),
		GameCapacity: parseInt(os.Getenv("GAME_CAPACITY"), 10),
		StartingCash: parseInt(os.Getenv("STARTING_CASH"), 1200),
		VerdictDelay: parseDuration(os.Getenv("VERDICT_DELAY"), 5*time.Second),
		RevealDelay:  parseDuration(os.Getenv("REVEAL_DELAY"), time.Second),
	}
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}
