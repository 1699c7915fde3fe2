package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStartStop(t *testing.T) {
	f := newSweeperFixture()
	manager := NewManager(f.sweeper, Intervals{
		MembershipExpiry:   10 * time.Millisecond,
		SubscriptionExpiry: 10 * time.Millisecond,
		RenewalWarning:     10 * time.Millisecond,
		ReportCheck:        10 * time.Millisecond,
	})

	assert.False(t, manager.IsRunning())

	manager.Start()
	require.True(t, manager.IsRunning())

	// Second start is a no-op.
	manager.Start()
	require.True(t, manager.IsRunning())

	time.Sleep(50 * time.Millisecond)

	manager.Stop()
	assert.False(t, manager.IsRunning())

	// Second stop is a no-op.
	manager.Stop()
	assert.False(t, manager.IsRunning())
}

func TestManagerIntervalDefaults(t *testing.T) {
	i := Intervals{}.withDefaults()
	assert.Equal(t, 30*time.Minute, i.MembershipExpiry)
	assert.Equal(t, time.Hour, i.SubscriptionExpiry)
	assert.Equal(t, 12*time.Hour, i.RenewalWarning)
	assert.Equal(t, time.Hour, i.ReportCheck)
}
