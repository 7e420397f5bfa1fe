package scheduler

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNextFire(t *testing.T, expr, timezone string, from time.Time) time.Time {
	t.Helper()
	schedule, err := ParseSchedule(expr)
	require.NoError(t, err)
	loc, err := resolveTimezone(timezone)
	require.NoError(t, err)
	return nextFire(schedule, loc, from)
}

func TestNextFire_ValidUTC(t *testing.T) {
	from := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	// Next multiple of 5 minutes: 03:05
	assert.Equal(t, time.Date(2025, 1, 2, 3, 5, 0, 0, time.UTC), mustNextFire(t, "*/5 * * * *", "", from))
}

func TestNextFire_Timezone(t *testing.T) {
	from := time.Date(2025, 1, 2, 7, 0, 0, 0, time.UTC) // 02:00 EST (America/New_York, UTC-5)
	// Next 3AM New York should be 08:00 UTC
	assert.Equal(t, time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC), mustNextFire(t, "0 3 * * *", "America/New_York", from))
}

func TestNextFire_WithSecondsField(t *testing.T) {
	from := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 30, 0, time.UTC), mustNextFire(t, "30 * * * * *", "", from))
}

func TestNextFire_EveryDescriptor(t *testing.T) {
	from := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	assert.Equal(t, from.Add(5*time.Minute), mustNextFire(t, "@every 5m", "", from))
}

func TestParseSchedule_InvalidCron(t *testing.T) {
	_, err := ParseSchedule("invalid")
	assert.Error(t, err)
}

func TestResolveTimezone_InvalidTimezone(t *testing.T) {
	_, err := resolveTimezone("Mars/Olympus")
	assert.Error(t, err)
}
