package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	encounterdomain "github.com/wardbooklabs/wardbook/internal/encounter/domain"
	paymentdomain "github.com/wardbooklabs/wardbook/internal/payment/domain"
	reportingdomain "github.com/wardbooklabs/wardbook/internal/reporting/domain"
	"gorm.io/datatypes"
)

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "12.50", FormatCents(1250))
	assert.Equal(t, "14750.00", FormatCents(1475000))
	assert.Equal(t, "-147.50", FormatCents(-14750))
}

func TestRenderProducesPDF(t *testing.T) {
	node, err := snowflake.NewNode(7)
	require.NoError(t, err)
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	billID := node.Generate()
	detail := &reportingdomain.BillDetail{
		Bill: billingdomain.Bill{
			ID:            billID,
			PatientID:     node.Generate(),
			SubtotalCents: 1250000,
			TaxCents:      225000,
			TotalCents:    1475000,
			PaidCents:     500000,
			PaymentStatus: billingdomain.BillPartial,
			PaymentMethod: "cash",
			Metadata:      datatypes.JSONMap{"emergency_cents": float64(200000)},
			CreatedAt:     now,
		},
		Patient: encounterdomain.Patient{
			ID:            node.Generate(),
			MedicalNumber: "MRN-1001",
			FirstName:     "Asha",
			LastName:      "Verma",
		},
		Items: []billingdomain.BillItem{
			{
				ID:             node.Generate(),
				BillID:         billID,
				Category:       billingdomain.ItemRoom,
				Description:    "Room charges, ICU (2 days)",
				Quantity:       2,
				UnitPriceCents: 500000,
				LineTotalCents: 1000000,
			},
		},
		Payments: []paymentdomain.Transaction{
			{
				ID:            node.Generate(),
				BillID:        billID,
				AmountCents:   500000,
				Method:        "cash",
				ReceiptNumber: "01HZXY2J4T5K6M7N8P9QRSTVWX",
				ProcessedAt:   now.Add(time.Hour),
			},
		},
	}

	pdf, err := NewRenderer().Render(detail)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
