package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeOnGross(t *testing.T) {
	assert.Equal(t, int64(30), FeeOnGross(1000))
	assert.Equal(t, int64(3000), FeeOnGross(100_000))
	assert.Equal(t, int64(0), FeeOnGross(0))
	// Truncation, never rounding up.
	assert.Equal(t, int64(0), FeeOnGross(33))
	assert.Equal(t, int64(1), FeeOnGross(34))
}

func TestNetFromGross(t *testing.T) {
	assert.Equal(t, int64(970), NetFromGross(1000))
	assert.Equal(t, int64(97_000), NetFromGross(100_000))
	// gross = net + fee always holds.
	for _, gross := range []int64{1, 33, 34, 999, 1000, 12345, 999_999} {
		assert.Equal(t, gross, NetFromGross(gross)+FeeOnGross(gross), "gross=%d", gross)
	}
}

func TestGrossFromNet(t *testing.T) {
	assert.Equal(t, int64(1000), GrossFromNet(970))
	assert.Equal(t, int64(0), GrossFromNet(0))
	assert.Equal(t, int64(0), GrossFromNet(-5))
	// Round amounts survive the round trip.
	for _, gross := range []int64{1000, 10_000, 100_000, 500_000} {
		assert.Equal(t, gross, GrossFromNet(NetFromGross(gross)), "gross=%d", gross)
	}
}

func TestAvailableBalance(t *testing.T) {
	// 1000 gross, 30 fee, nothing withdrawn.
	assert.Equal(t, int64(970), AvailableBalance(1000, 0))
	// Previous payout reduces it.
	assert.Equal(t, int64(470), AvailableBalance(1000, 500))
	// Never negative.
	assert.Equal(t, int64(0), AvailableBalance(1000, 2000))
	assert.Equal(t, int64(0), AvailableBalance(0, 0))
}
