package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wardbooklabs/wardbook/internal/encounter/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindPatient(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Patient, error) {
	var p domain.Patient
	err := db.WithContext(ctx).Raw(
		`SELECT id, medical_number, first_name, last_name, is_serious_case, created_at, updated_at
		 FROM patients WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, domain.ErrPatientNotFound
	}
	return &p, nil
}

func (r *repo) FindAdmission(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.AdmissionDetail, error) {
	var adm domain.Admission
	err := db.WithContext(ctx).Raw(
		`SELECT id, patient_id, doctor_id, bed_id, admitted_at, reason, status, discharged_at, discharge_note
		 FROM admissions WHERE id = ?`,
		id,
	).Scan(&adm).Error
	if err != nil {
		return nil, err
	}
	if adm.ID == 0 {
		return nil, domain.ErrAdmissionNotFound
	}
	return r.buildDetail(ctx, db, adm)
}

func (r *repo) FindActiveAdmissionByPatient(ctx context.Context, db *gorm.DB, patientID snowflake.ID) (*domain.AdmissionDetail, error) {
	var adm domain.Admission
	err := db.WithContext(ctx).Raw(
		`SELECT id, patient_id, doctor_id, bed_id, admitted_at, reason, status, discharged_at, discharge_note
		 FROM admissions WHERE patient_id = ? AND status = ? LIMIT 1`,
		patientID, domain.AdmissionActive,
	).Scan(&adm).Error
	if err != nil {
		return nil, err
	}
	if adm.ID == 0 {
		return nil, domain.ErrAdmissionNotFound
	}
	return r.buildDetail(ctx, db, adm)
}

func (r *repo) buildDetail(ctx context.Context, db *gorm.DB, adm domain.Admission) (*domain.AdmissionDetail, error) {
	patient, err := r.FindPatient(ctx, db, adm.PatientID)
	if err != nil {
		return nil, err
	}

	detail := &domain.AdmissionDetail{Admission: adm, Patient: *patient}
	if adm.BedID == nil {
		return detail, nil
	}

	var bed domain.Bed
	err = db.WithContext(ctx).Raw(
		`SELECT id, ward_id, bed_number, status, current_patient_id FROM beds WHERE id = ?`,
		*adm.BedID,
	).Scan(&bed).Error
	if err != nil {
		return nil, err
	}
	if bed.ID == 0 {
		// A dangling bed reference is treated like a bed-less admission.
		return detail, nil
	}
	detail.Bed = &bed

	var ward domain.Ward
	err = db.WithContext(ctx).Raw(
		`SELECT id, name, code FROM wards WHERE id = ?`,
		bed.WardID,
	).Scan(&ward).Error
	if err != nil {
		return nil, err
	}
	if ward.ID != 0 {
		detail.Ward = &ward
	}
	return detail, nil
}

func (r *repo) DischargeAdmission(ctx context.Context, db *gorm.DB, admissionID snowflake.ID, at time.Time, note string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE admissions SET status = ?, discharged_at = ?, discharge_note = ? WHERE id = ?`,
		domain.AdmissionDischarged, at, note, admissionID,
	).Error
}

func (r *repo) ReleaseBed(ctx context.Context, db *gorm.DB, bedID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE beds SET status = ?, current_patient_id = NULL WHERE id = ?`,
		domain.BedAvailable, bedID,
	).Error
}
