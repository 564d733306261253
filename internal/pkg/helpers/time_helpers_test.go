package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFutureDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "future date", value: "25-01-2027"},
		{name: "tomorrow", value: "11-03-2026"},
		{name: "today", value: "10-03-2026", wantErr: true},
		{name: "yesterday", value: "09-03-2026", wantErr: true},
		{name: "iso format rejected", value: "2027-01-25", wantErr: true},
		{name: "slashes rejected", value: "25/01/2027", wantErr: true},
		{name: "garbage", value: "soon", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseFutureDate(tt.value, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, parsed.After(now.Truncate(24*time.Hour)))
		})
	}
}

func TestParseFutureDate_ComparesCalendarDates(t *testing.T) {
	// Late in the evening, tomorrow is still a valid future date even
	// though it is less than 24 hours away
	now := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)
	_, err := ParseFutureDate("11-03-2026", now)
	assert.NoError(t, err)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("nonsense", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
}
