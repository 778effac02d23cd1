package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		raw  float64
		want int64
	}{
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{1.5, 2},
		{2.5, 3},
		{2.49999, 2},
		{-0.4, 0},
		{-0.5, -1},
		{-2.5, -3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, roundHalfUp(c.raw), "roundHalfUp(%v)", c.raw)
	}
}

func TestTaxCents(t *testing.T) {
	// 18% of 1,250,000 cents.
	assert.Equal(t, int64(225000), taxCents(1250000, 1800))
	// 18% of 80,000 cents.
	assert.Equal(t, int64(14400), taxCents(80000, 1800))
	assert.Equal(t, int64(0), taxCents(0, 1800))
	// Fractional cent rounds half up: 18% of 3 cents is 0.54.
	assert.Equal(t, int64(1), taxCents(3, 1800))
}

func TestDiscountCents(t *testing.T) {
	assert.Equal(t, int64(147500), discountCents(1475000, 10))
	assert.Equal(t, int64(0), discountCents(1475000, 0))
	assert.Equal(t, int64(0), discountCents(1475000, -5))
	assert.Equal(t, int64(1475000), discountCents(1475000, 100))
	// 12.5% of 999 cents is 124.875, rounds to 125.
	assert.Equal(t, int64(125), discountCents(999, 12.5))
}

func TestStayDays(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(1), stayDays(base, base))
	assert.Equal(t, int64(1), stayDays(base, base.Add(time.Hour)))
	assert.Equal(t, int64(1), stayDays(base, base.Add(24*time.Hour)))
	assert.Equal(t, int64(2), stayDays(base, base.Add(25*time.Hour)))
	assert.Equal(t, int64(2), stayDays(base, base.Add(47*time.Hour)))
	assert.Equal(t, int64(1), stayDays(base, base.Add(-time.Hour)))
}

func TestAverageUnitCents(t *testing.T) {
	assert.Equal(t, int64(500), averageUnitCents(500, 1))
	assert.Equal(t, int64(250), averageUnitCents(500, 2))
	// 1000 over 3 averages 333.33, rounds to 333.
	assert.Equal(t, int64(333), averageUnitCents(1000, 3))
	assert.Equal(t, int64(0), averageUnitCents(0, 0))
}
