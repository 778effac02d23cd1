package ratecard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wardbooklabs/wardbook/internal/config"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Billing: config.BillingConfig{
			Rates: config.RateConfig{
				WardDailyCents: map[string]int64{
					"ICU":          500000,
					"General Ward": 150000,
				},
				ConsultationCents:       50000,
				NursingDailyCents:       30000,
				VitalRecordingCents:     5000,
				EmergencySurchargeCents: 200000,
				TaxBps:                  1800,
			},
		},
	}
}

func TestWardDailyRateNormalizesNames(t *testing.T) {
	card := New(newTestConfig())

	assert.Equal(t, int64(500000), card.WardDailyRate("ICU"))
	assert.Equal(t, int64(500000), card.WardDailyRate("icu"))
	assert.Equal(t, int64(150000), card.WardDailyRate("general ward"))
}

func TestWardDailyRateFallsBackToGeneralWard(t *testing.T) {
	card := New(newTestConfig())

	assert.Equal(t, int64(150000), card.WardDailyRate("Maternity"))
	assert.Equal(t, int64(150000), card.WardDailyRate(""))
}

func TestExplicitDefaultOverridesGeneralWard(t *testing.T) {
	cfg := newTestConfig()
	cfg.Billing.Rates.DefaultWardDailyCents = 120000
	card := New(cfg)

	assert.Equal(t, int64(120000), card.WardDailyRate("Unknown Ward"))
	assert.Equal(t, int64(150000), card.WardDailyRate("General Ward"))
}
