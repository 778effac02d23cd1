// Package invoice renders a bill as a printable PDF receipt.
package invoice

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	reportingdomain "github.com/wardbooklabs/wardbook/internal/reporting/domain"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the invoice PDF for one bill.
func (r *Renderer) Render(detail *reportingdomain.BillDetail) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	r.header(m, detail)
	r.itemsTable(m, detail.Items)
	r.totals(m, detail)
	r.payments(m, detail)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *Renderer) header(m core.Maroto, detail *reportingdomain.BillDetail) {
	m.AddRow(12, text.NewCol(12, "WardBook Hospital", props.Text{
		Size:  16,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))
	m.AddRow(8, text.NewCol(12, "Invoice "+detail.Bill.ID.String(), props.Text{
		Size:  11,
		Align: align.Center,
	}))

	m.AddRow(6,
		text.NewCol(6, "Patient: "+detail.Patient.FullName(), props.Text{Size: 9}),
		text.NewCol(6, "MRN: "+detail.Patient.MedicalNumber, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(6, "Date: "+detail.Bill.CreatedAt.Format("02 Jan 2006"), props.Text{Size: 9}),
		text.NewCol(6, "Status: "+string(detail.Bill.PaymentStatus), props.Text{Size: 9, Align: align.Right}),
	)
	if raw, ok := detail.Bill.Metadata["emergency_cents"]; ok {
		m.AddRow(6, text.NewCol(12, "Includes emergency care surcharge of "+formatMetadataCents(raw), props.Text{
			Size:  9,
			Style: fontstyle.Italic,
		}))
	}
	m.AddRow(4, line.NewCol(12))
}

func (r *Renderer) itemsTable(m core.Maroto, items []billingdomain.BillItem) {
	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Unit", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range items {
		m.AddRow(6,
			text.NewCol(6, item.Description, props.Text{Size: 8}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, FormatCents(item.UnitPriceCents), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, FormatCents(item.LineTotalCents), props.Text{Size: 8, Align: align.Right}),
		)
	}
	m.AddRow(4, line.NewCol(12))
}

func (r *Renderer) totals(m core.Maroto, detail *reportingdomain.BillDetail) {
	rows := []struct {
		label string
		cents int64
		bold  bool
	}{
		{"Subtotal", detail.Bill.SubtotalCents, false},
		{"Tax", detail.Bill.TaxCents, false},
		{"Discount", -detail.Bill.DiscountCents, false},
		{"Total", detail.Bill.TotalCents, true},
		{"Paid", detail.Bill.PaidCents, false},
		{"Balance due", detail.Bill.TotalCents - detail.Bill.PaidCents, true},
	}
	for _, row := range rows {
		style := fontstyle.Normal
		if row.bold {
			style = fontstyle.Bold
		}
		m.AddRow(6,
			col.New(8),
			text.NewCol(2, row.label, props.Text{Size: 9, Style: style, Align: align.Right}),
			text.NewCol(2, FormatCents(row.cents), props.Text{Size: 9, Style: style, Align: align.Right}),
		)
	}
}

func (r *Renderer) payments(m core.Maroto, detail *reportingdomain.BillDetail) {
	if len(detail.Payments) == 0 {
		return
	}
	m.AddRow(4, line.NewCol(12))
	m.AddRow(8, text.NewCol(12, "Payments", props.Text{Size: 10, Style: fontstyle.Bold}))
	for _, txn := range detail.Payments {
		label := fmt.Sprintf("%s  %s via %s  receipt %s",
			txn.ProcessedAt.Format(time.RFC3339),
			FormatCents(txn.AmountCents),
			txn.Method,
			txn.ReceiptNumber,
		)
		m.AddRow(5, text.NewCol(12, label, props.Text{Size: 8}))
	}
}

// FormatCents renders integer cents as a decimal amount string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func formatMetadataCents(raw any) string {
	switch v := raw.(type) {
	case float64:
		return FormatCents(int64(v))
	case int64:
		return FormatCents(v)
	default:
		return fmt.Sprintf("%v", raw)
	}
}
