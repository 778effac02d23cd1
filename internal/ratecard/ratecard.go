// Package ratecard holds the static billing rates: per-ward daily room
// rates plus the scalar consultation, nursing, vital-sign, emergency and
// tax rates. The card is immutable once loaded.
package ratecard

import (
	"github.com/gosimple/slug"
	"github.com/wardbooklabs/wardbook/internal/config"
)

const generalWardKey = "general-ward"

type Card struct {
	wardDailyCents          map[string]int64
	defaultWardDailyCents   int64
	ConsultationCents       int64
	NursingDailyCents       int64
	VitalRecordingCents     int64
	EmergencySurchargeCents int64
	TaxBps                  int64
}

// New builds the card from configuration. Ward names are slug-normalized so
// "ICU", "icu" and "I.C.U" resolve to the same rate.
func New(cfg *config.Config) *Card {
	rates := cfg.Billing.Rates

	wards := make(map[string]int64, len(rates.WardDailyCents))
	for name, cents := range rates.WardDailyCents {
		wards[slug.Make(name)] = cents
	}

	defaultRate := rates.DefaultWardDailyCents
	if rate, ok := wards[generalWardKey]; ok && defaultRate == 0 {
		defaultRate = rate
	}

	return &Card{
		wardDailyCents:          wards,
		defaultWardDailyCents:   defaultRate,
		ConsultationCents:       rates.ConsultationCents,
		NursingDailyCents:       rates.NursingDailyCents,
		VitalRecordingCents:     rates.VitalRecordingCents,
		EmergencySurchargeCents: rates.EmergencySurchargeCents,
		TaxBps:                  rates.TaxBps,
	}
}

// WardDailyRate returns the daily room rate for a ward, falling back to the
// General Ward rate for wards not on the card.
func (c *Card) WardDailyRate(wardName string) int64 {
	if rate, ok := c.wardDailyCents[slug.Make(wardName)]; ok {
		return rate
	}
	return c.defaultWardDailyCents
}
