package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wardbooklabs/wardbook/internal/actorctx"
	"github.com/wardbooklabs/wardbook/internal/billing/domain"
	chargesdomain "github.com/wardbooklabs/wardbook/internal/charges/domain"
	"github.com/wardbooklabs/wardbook/internal/clock"
	encounterdomain "github.com/wardbooklabs/wardbook/internal/encounter/domain"
	"github.com/wardbooklabs/wardbook/internal/ratecard"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Charges    chargesdomain.Service
	Encounters encounterdomain.Repository
	Rates      *ratecard.Card
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	charges    chargesdomain.Service
	encounters encounterdomain.Repository
	rates      *ratecard.Card
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("billing.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		charges:    p.Charges,
		encounters: p.Encounters,
		rates:      p.Rates,
	}
}

// CalculateIPD previews the full charge breakdown for one admission. It
// performs no writes and is safe to repeat.
func (s *Service) CalculateIPD(ctx context.Context, req domain.CalculateIPDRequest) (*domain.Breakdown, error) {
	admissionID, err := snowflake.ParseString(req.AdmissionID)
	if err != nil {
		return nil, fmt.Errorf("%w: admission id %q", domain.ErrInvalidIdentifier, req.AdmissionID)
	}

	detail, err := s.encounters.FindAdmission(ctx, s.db, admissionID)
	if err != nil {
		return nil, err
	}

	discharge := s.clock.Now(ctx)
	if req.DischargeDate != nil {
		discharge = req.DischargeDate.UTC()
	}
	admitted := detail.Admission.AdmittedAt.UTC()
	if discharge.Before(admitted) {
		return nil, domain.ErrInvalidDischarge
	}

	days := stayDays(admitted, discharge)
	window := chargesdomain.Window{From: &admitted, To: &discharge}

	breakdown, err := s.buildBreakdown(ctx, detail.Patient, window, admitted, discharge)
	if err != nil {
		return nil, err
	}
	breakdown.AdmissionID = &detail.Admission.ID

	// Room charges apply only when a bed is actually assigned.
	if detail.Bed != nil {
		wardName := ""
		if detail.Ward != nil {
			wardName = detail.Ward.Name
		}
		rate := s.rates.WardDailyRate(wardName)
		breakdown.Room = &domain.RoomBreakdown{
			Ward:           wardName,
			BedNumber:      detail.Bed.BedNumber,
			Days:           days,
			DailyRateCents: rate,
			TotalCents:     days * rate,
		}
	}

	breakdown.Nursing.Days = days
	breakdown.Nursing.TotalCents += days * s.rates.NursingDailyCents

	s.finalize(breakdown)
	return breakdown, nil
}

func (s *Service) GenerateIPD(ctx context.Context, req domain.GenerateIPDRequest) (*domain.GenerateResult, error) {
	breakdown, err := s.CalculateIPD(ctx, domain.CalculateIPDRequest{
		AdmissionID:   req.AdmissionID,
		DischargeDate: req.DischargeDate,
	})
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, breakdown, req.DiscountPercent, req.PaymentMethod, "ipd")
}

// CalculateOPD previews outpatient charges over an explicit date window,
// both ends defaulting to today. A concurrently admitted patient with a bed
// still accrues room charges for the overlap of window and stay.
func (s *Service) CalculateOPD(ctx context.Context, req domain.CalculateOPDRequest) (*domain.Breakdown, error) {
	patientID, err := snowflake.ParseString(req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("%w: patient id %q", domain.ErrInvalidIdentifier, req.PatientID)
	}

	patient, err := s.encounters.FindPatient(ctx, s.db, patientID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	from := startOfDay(now)
	if req.From != nil {
		from = req.From.UTC()
	}
	to := now
	if req.To != nil {
		to = req.To.UTC()
	}
	if to.Before(from) {
		return nil, domain.ErrInvalidDateRange
	}

	window := chargesdomain.Window{From: &from, To: &to}
	breakdown, err := s.buildBreakdown(ctx, *patient, window, from, to)
	if err != nil {
		return nil, err
	}

	active, err := s.encounters.FindActiveAdmissionByPatient(ctx, s.db, patientID)
	switch {
	case errors.Is(err, encounterdomain.ErrAdmissionNotFound):
		// No active stay: pure OPD, room stays nil.
	case err != nil:
		return nil, err
	default:
		if active.Bed != nil && !active.Admission.AdmittedAt.UTC().After(to) {
			overlapStart := maxTime(active.Admission.AdmittedAt.UTC(), from)
			days := stayDays(overlapStart, to)
			wardName := ""
			if active.Ward != nil {
				wardName = active.Ward.Name
			}
			rate := s.rates.WardDailyRate(wardName)
			breakdown.Room = &domain.RoomBreakdown{
				Ward:           wardName,
				BedNumber:      active.Bed.BedNumber,
				Days:           days,
				DailyRateCents: rate,
				TotalCents:     days * rate,
			}
			breakdown.Nursing.Days = days
			breakdown.Nursing.TotalCents += days * s.rates.NursingDailyCents
			breakdown.AdmissionID = &active.Admission.ID
		}
	}

	s.finalize(breakdown)
	return breakdown, nil
}

func (s *Service) GenerateOPD(ctx context.Context, req domain.GenerateOPDRequest) (*domain.GenerateResult, error) {
	breakdown, err := s.CalculateOPD(ctx, domain.CalculateOPDRequest{
		PatientID: req.PatientID,
		From:      req.From,
		To:        req.To,
	})
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, breakdown, req.DiscountPercent, req.PaymentMethod, "opd")
}

func (s *Service) buildBreakdown(
	ctx context.Context,
	patient encounterdomain.Patient,
	window chargesdomain.Window,
	start, end time.Time,
) (*domain.Breakdown, error) {
	consultation, err := s.charges.Consultation(ctx, patient.ID, window)
	if err != nil {
		return nil, err
	}
	lab, err := s.charges.Lab(ctx, patient.ID, window)
	if err != nil {
		return nil, err
	}
	medicines, err := s.charges.Medicines(ctx, patient.ID, window)
	if err != nil {
		return nil, err
	}
	vitals, err := s.charges.VitalRecordings(ctx, patient.ID, window)
	if err != nil {
		return nil, err
	}
	equipment, err := s.charges.Equipment(ctx, patient.ID, window)
	if err != nil {
		return nil, err
	}

	breakdown := &domain.Breakdown{
		PatientID:    patient.ID,
		PatientName:  patient.FullName(),
		PeriodStart:  start,
		PeriodEnd:    end,
		Consultation: consultation,
		Lab:          lab,
		Medicines:    medicines,
		Nursing: domain.NursingBreakdown{
			VitalCount: vitals.Count,
			TotalCents: vitals.TotalCents,
		},
		Equipment:   equipment,
		SeriousCase: patient.IsSeriousCase,
	}
	if patient.IsSeriousCase {
		breakdown.EmergencyCents = s.rates.EmergencySurchargeCents
	}
	return breakdown, nil
}

func (s *Service) finalize(b *domain.Breakdown) {
	subtotal := b.Consultation.TotalCents +
		b.Lab.TotalCents +
		b.Medicines.TotalCents +
		b.Nursing.TotalCents +
		b.Equipment.TotalCents +
		b.EmergencyCents
	if b.Room != nil {
		subtotal += b.Room.TotalCents
	}

	b.SubtotalCents = subtotal
	b.TaxCents = taxCents(subtotal, s.rates.TaxBps)
	b.TotalCents = subtotal + b.TaxCents
}

// generate persists the breakdown as a bill plus line items in a single
// transaction. A failure at any point leaves no bill behind.
func (s *Service) generate(
	ctx context.Context,
	breakdown *domain.Breakdown,
	discountPercent float64,
	paymentMethod string,
	episodeType string,
) (*domain.GenerateResult, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrMissingActor
	}
	if discountPercent > 100 {
		return nil, domain.ErrInvalidDiscount
	}

	discount := discountCents(breakdown.TotalCents, discountPercent)
	finalTotal := breakdown.TotalCents - discount
	now := s.clock.Now(ctx)

	bill := domain.Bill{
		ID:            s.genID.Generate(),
		PatientID:     breakdown.PatientID,
		AdmissionID:   breakdown.AdmissionID,
		SubtotalCents: breakdown.SubtotalCents,
		TaxCents:      breakdown.TaxCents,
		DiscountCents: discount,
		TotalCents:    finalTotal,
		PaidCents:     0,
		PaymentStatus: domain.BillPending,
		PaymentMethod: paymentMethod,
		Metadata: datatypes.JSONMap{
			"episode_type": episodeType,
			"period_start": breakdown.PeriodStart.Format(time.RFC3339),
			"period_end":   breakdown.PeriodEnd.Format(time.RFC3339),
		},
		CreatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if breakdown.EmergencyCents > 0 {
		bill.Metadata["emergency_cents"] = breakdown.EmergencyCents
	}

	items := s.buildItems(bill.ID, breakdown, discount)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertBill(ctx, tx, &bill); err != nil {
			return err
		}
		return s.repo.InsertItems(ctx, tx, items)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bill generated",
		zap.String("bill_id", bill.ID.String()),
		zap.String("episode_type", episodeType),
		zap.Int64("total_cents", bill.TotalCents),
		zap.String("actor", actor.Name),
	)

	return &domain.GenerateResult{Bill: bill, Items: items, Breakdown: *breakdown}, nil
}

func (s *Service) buildItems(billID snowflake.ID, b *domain.Breakdown, discount int64) []domain.BillItem {
	items := make([]domain.BillItem, 0, 8)

	add := func(category domain.ItemCategory, description string, quantity, unit, total int64) {
		items = append(items, domain.BillItem{
			ID:             s.genID.Generate(),
			BillID:         billID,
			Category:       category,
			Description:    description,
			Quantity:       quantity,
			UnitPriceCents: unit,
			LineTotalCents: total,
		})
	}

	if b.Room != nil && b.Room.TotalCents != 0 {
		desc := fmt.Sprintf("Room charges, %s (%d days)", b.Room.Ward, b.Room.Days)
		add(domain.ItemRoom, desc, b.Room.Days, b.Room.DailyRateCents, b.Room.TotalCents)
	}
	if b.Consultation.TotalCents != 0 {
		desc := fmt.Sprintf("Doctor consultations (%d visits)", b.Consultation.Count)
		add(domain.ItemConsultation, desc, b.Consultation.Count,
			averageUnitCents(b.Consultation.TotalCents, b.Consultation.Count), b.Consultation.TotalCents)
	}
	if b.Lab.TotalCents != 0 {
		desc := fmt.Sprintf("Laboratory tests (%d tests)", b.Lab.Count)
		add(domain.ItemLabTest, desc, b.Lab.Count,
			averageUnitCents(b.Lab.TotalCents, b.Lab.Count), b.Lab.TotalCents)
	}
	if b.Medicines.TotalCents != 0 {
		desc := fmt.Sprintf("Medicines (%d prescriptions)", b.Medicines.Count)
		add(domain.ItemMedicine, desc, b.Medicines.Count,
			averageUnitCents(b.Medicines.TotalCents, b.Medicines.Count), b.Medicines.TotalCents)
	}
	if b.Nursing.TotalCents != 0 {
		desc := fmt.Sprintf("Nursing care (%d vital recordings)", b.Nursing.VitalCount)
		add(domain.ItemNursing, desc, 1, b.Nursing.TotalCents, b.Nursing.TotalCents)
	}
	if b.Equipment.TotalCents != 0 {
		desc := fmt.Sprintf("Equipment usage (%d entries)", b.Equipment.Count)
		add(domain.ItemEquipment, desc, b.Equipment.Count,
			averageUnitCents(b.Equipment.TotalCents, b.Equipment.Count), b.Equipment.TotalCents)
	}
	if b.TaxCents != 0 {
		add(domain.ItemTax, "Tax", 1, b.TaxCents, b.TaxCents)
	}
	if discount > 0 {
		add(domain.ItemDiscount, "Discount", 1, -discount, -discount)
	}
	return items
}

func (s *Service) UpdateBill(ctx context.Context, billID snowflake.ID, req domain.UpdateBillRequest) (*domain.Bill, error) {
	if req.DiscountPercent == nil && req.PaymentMethod == nil && req.PaymentStatus == nil {
		return nil, domain.ErrNoUpdatableFields
	}

	bill, err := s.repo.FindBillByID(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.CountPaymentsByBill(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}
	if payments > 0 {
		return nil, domain.ErrBillHasPayments
	}

	fields := map[string]any{"updated_at": s.clock.Now(ctx)}

	if req.DiscountPercent != nil {
		pct := *req.DiscountPercent
		if pct < 0 || pct > 100 {
			return nil, domain.ErrInvalidDiscount
		}
		base := bill.SubtotalCents + bill.TaxCents
		discount := discountCents(base, pct)
		fields["discount_cents"] = discount
		fields["total_cents"] = base - discount
		bill.DiscountCents = discount
		bill.TotalCents = base - discount
	}
	if req.PaymentMethod != nil {
		if *req.PaymentMethod == "" {
			return nil, domain.ErrInvalidPaymentMeth
		}
		fields["payment_method"] = *req.PaymentMethod
		bill.PaymentMethod = *req.PaymentMethod
	}
	if req.PaymentStatus != nil {
		status := domain.BillStatus(*req.PaymentStatus)
		if !status.Valid() {
			return nil, domain.ErrInvalidBillStatus
		}
		fields["payment_status"] = status
		bill.PaymentStatus = status
	}

	if err := s.repo.UpdateBillFields(ctx, s.db, billID, fields); err != nil {
		return nil, err
	}
	return bill, nil
}

// DeleteBill removes a bill and its items, but only while no payment has
// ever been applied to it.
func (s *Service) DeleteBill(ctx context.Context, billID snowflake.ID) error {
	if _, err := s.repo.FindBillByID(ctx, s.db, billID); err != nil {
		return err
	}

	payments, err := s.repo.CountPaymentsByBill(ctx, s.db, billID)
	if err != nil {
		return err
	}
	if payments > 0 {
		return domain.ErrBillHasPayments
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.DeleteBill(ctx, tx, billID)
	})
}
