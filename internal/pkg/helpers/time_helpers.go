package helpers

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DeadlineLayout is the calendar date format used for project deadlines
// and course open dates.
const DeadlineLayout = "02-01-2006" // DD-MM-YYYY

// ParseDuration parses a duration string, returns the default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseFutureDate parses a DD-MM-YYYY date string and requires it to be
// strictly after the current date.
func ParseFutureDate(value string, now time.Time) (time.Time, error) {
	parsed, err := time.Parse(DeadlineLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must use the DD-MM-YYYY format: %w", err)
	}

	// Compare calendar dates, not instants
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !parsed.After(today) {
		return time.Time{}, fmt.Errorf("date %s is not in the future", value)
	}

	return parsed, nil
}
