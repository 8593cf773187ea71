package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// RemainingSeconds is the whole number of seconds until t, never negative
func RemainingSeconds(t, now time.Time) int64 {
	if !t.After(now) {
		return 0
	}
	return int64(t.Sub(now) / time.Second)
}
