package streaks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		name     string
		prev     int
		lastDate string
		today    string
		want     int
	}{
		{"first comment", 0, "", "2026-03-10", 1},
		{"same day", 4, "2026-03-10", "2026-03-10", 4},
		{"next day", 4, "2026-03-09", "2026-03-10", 5},
		{"gap resets", 4, "2026-03-07", "2026-03-10", 1},
		{"month boundary", 2, "2026-02-28", "2026-03-01", 3},
		{"leap day", 9, "2028-02-28", "2028-02-29", 10},
		{"year boundary", 30, "2025-12-31", "2026-01-01", 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Advance(tt.prev, tt.lastDate, tt.today))
		})
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, 3, Display(3, "2026-03-10", "2026-03-10"))
	assert.Equal(t, 3, Display(3, "2026-03-09", "2026-03-10"))
	assert.Equal(t, 0, Display(3, "2026-03-08", "2026-03-10"))
}

func TestClock_UsesZone(t *testing.T) {
	c, err := NewClock("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	// 01:30 UTC is still the previous evening in Buenos Aires (UTC-3).
	instant := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-09", c.Day(instant))

	utc, err := NewClock("")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", utc.Day(instant))

	_, err = NewClock("Not/AZone")
	assert.Error(t, err)
}
