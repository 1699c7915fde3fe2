package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtendFromUnix(t *testing.T) {
	now := int64(1_700_000_000)
	day := int64(86400)

	// No existing grant: clock starts from now.
	assert.Equal(t, now+30*day, ExtendFromUnix(now, 0, 30))

	// Expired grant: also restarts from now.
	assert.Equal(t, now+7*day, ExtendFromUnix(now, now-100, 7))

	// Unexpired grant: stacks on the remaining time.
	end := now + 5*day
	assert.Equal(t, end+30*day, ExtendFromUnix(now, end, 30))
}

func TestDaysUntil(t *testing.T) {
	now := int64(1_700_000_000)
	day := int64(86400)

	assert.Equal(t, 3, DaysUntil(now, now+3*day))
	assert.Equal(t, 0, DaysUntil(now, now+day-1))
	assert.Equal(t, -2, DaysUntil(now, now-2*day))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2023-11-14", FormatDate(1_699_999_200))
	assert.Equal(t, "", FormatDate(0))
	assert.Equal(t, "", FormatDate(-1))
}
