package service

import (
	"math"
	"time"
)

// roundHalfUp rounds to the nearest cent, half away from zero. Every rounded
// amount in billing (tax, discount, averaged unit prices) goes through here.
func roundHalfUp(raw float64) int64 {
	if raw >= 0 {
		return int64(math.Floor(raw + 0.5))
	}
	return -int64(math.Floor(-raw + 0.5))
}

func taxCents(subtotalCents, taxBps int64) int64 {
	return roundHalfUp(float64(subtotalCents) * float64(taxBps) / 10000.0)
}

func discountCents(totalCents int64, percent float64) int64 {
	if percent <= 0 {
		return 0
	}
	return roundHalfUp(float64(totalCents) * percent / 100.0)
}

// stayDays bills any started day as a whole day, with a one-day minimum.
func stayDays(from, to time.Time) int64 {
	if !to.After(from) {
		return 1
	}
	days := int64(math.Ceil(to.Sub(from).Hours() / 24.0))
	if days < 1 {
		return 1
	}
	return days
}

func averageUnitCents(totalCents, count int64) int64 {
	if count <= 1 {
		return totalCents
	}
	return roundHalfUp(float64(totalCents) / float64(count))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
