package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv returns the trimmed value of key, or defaultValue when it is unset
// or blank.
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	return getEnvAs(key, defaultValue, strconv.Atoi)
}

// GetEnvAsDuration parses key with time.ParseDuration ("90s", "5m").
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnvAs(key, defaultValue, time.ParseDuration)
}

// getEnvAs falls back to defaultValue when key is unset or does not parse.
func getEnvAs[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := parse(raw)
	if err != nil {
		return defaultValue
	}
	return v
}
