package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/wardbooklabs/wardbook/internal/actorctx"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	"github.com/wardbooklabs/wardbook/internal/clock"
	encounterdomain "github.com/wardbooklabs/wardbook/internal/encounter/domain"
	"github.com/wardbooklabs/wardbook/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dischargeNote = "Discharged on full settlement of bill"

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Encounters encounterdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	encounters encounterdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		encounters: p.Encounters,
	}
}

// Process applies one payment to a bill. The bill update, the transaction
// row and, when the payment settles the bill, the discharge cascade all
// commit or roll back together.
func (s *Service) Process(ctx context.Context, billID snowflake.ID, req domain.ProcessRequest) (*domain.ProcessResult, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return nil, billingdomain.ErrMissingActor
	}
	if req.AmountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if req.Method == "" {
		return nil, billingdomain.ErrInvalidPaymentMeth
	}

	now := s.clock.Now(ctx)
	var result *domain.ProcessResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		bill, err := s.repo.FindBillForUpdate(ctx, tx, billID)
		if err != nil {
			return err
		}

		newPaid := bill.PaidCents + req.AmountCents
		newStatus := billingdomain.DeriveStatus(newPaid, bill.TotalCents)
		settled := newStatus == billingdomain.BillPaid && bill.PaymentStatus != billingdomain.BillPaid

		txn := domain.Transaction{
			ID:              s.genID.Generate(),
			BillID:          bill.ID,
			AmountCents:     req.AmountCents,
			Method:          req.Method,
			ReferenceNumber: req.ReferenceNumber,
			ReceiptNumber:   ulid.Make().String(),
			Status:          domain.TxnCompleted,
			Notes:           req.Notes,
			ProcessedBy:     actor.ID,
			ProcessedAt:     now,
		}
		if err := s.repo.InsertTransaction(ctx, tx, &txn); err != nil {
			return err
		}

		fields := map[string]any{
			"paid_cents":     newPaid,
			"payment_status": newStatus,
			"payment_method": req.Method,
			"updated_at":     now,
		}
		if err := s.repo.UpdateBillPayment(ctx, tx, bill.ID, fields); err != nil {
			return err
		}

		discharged := false
		if settled && bill.AdmissionID != nil {
			discharged, err = s.dischargeIfActive(ctx, tx, *bill.AdmissionID, now)
			if err != nil {
				return err
			}
		}

		result = &domain.ProcessResult{
			Transaction:        txn,
			PaidCents:          newPaid,
			DueCents:           bill.TotalCents - newPaid,
			PaymentStatus:      string(newStatus),
			DischargeTriggered: discharged,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment processed",
		zap.String("bill_id", billID.String()),
		zap.Int64("amount_cents", req.AmountCents),
		zap.String("status", result.PaymentStatus),
		zap.Bool("discharge_triggered", result.DischargeTriggered),
		zap.String("actor", actor.Name),
	)
	return result, nil
}

// dischargeIfActive closes the admission and frees its bed. An admission
// already discharged by staff is left untouched.
func (s *Service) dischargeIfActive(ctx context.Context, tx *gorm.DB, admissionID snowflake.ID, now time.Time) (bool, error) {
	detail, err := s.encounters.FindAdmission(ctx, tx, admissionID)
	if err != nil {
		if errors.Is(err, encounterdomain.ErrAdmissionNotFound) {
			return false, nil
		}
		return false, err
	}
	if detail.Admission.Status != encounterdomain.AdmissionActive {
		return false, nil
	}

	if err := s.encounters.DischargeAdmission(ctx, tx, admissionID, now, dischargeNote); err != nil {
		return false, err
	}
	if detail.Bed != nil {
		if err := s.encounters.ReleaseBed(ctx, tx, detail.Bed.ID); err != nil {
			return false, err
		}
	}
	return true, nil
}

// OverrideStatus sets the payment status directly, bypassing derivation.
// Reserved for administrative correction of legacy or written-off bills.
func (s *Service) OverrideStatus(ctx context.Context, billID snowflake.ID, req domain.OverrideStatusRequest) (*billingdomain.Bill, error) {
	if _, ok := actorctx.FromContext(ctx); !ok {
		return nil, billingdomain.ErrMissingActor
	}
	status := billingdomain.BillStatus(req.Status)
	if !status.Valid() {
		return nil, billingdomain.ErrInvalidBillStatus
	}

	bill, err := s.repo.FindBillForUpdate(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"payment_status": status,
		"updated_at":     s.clock.Now(ctx),
	}
	if err := s.repo.UpdateBillPayment(ctx, s.db, billID, fields); err != nil {
		return nil, err
	}
	bill.PaymentStatus = status
	return bill, nil
}
