package clinical

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== MedicalRecord Repository ===========

type medicalRecordRepoPG struct{ pool *pgxpool.Pool }

func NewMedicalRecordRepoPG(pool *pgxpool.Pool) MedicalRecordRepository {
	return &medicalRecordRepoPG{pool: pool}
}

const recordCols = `id, patient_id, doctor_id, diagnosis, treatment, prescription, record_date, created_at`

func scanMedicalRecord(row pgx.Row) (*MedicalRecord, error) {
	var r MedicalRecord
	err := row.Scan(&r.ID, &r.PatientID, &r.DoctorID, &r.Diagnosis, &r.Treatment, &r.Prescription, &r.RecordDate, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *medicalRecordRepoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	rec.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO medical_records (id, patient_id, doctor_id, diagnosis, treatment, prescription, record_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.Diagnosis, rec.Treatment, rec.Prescription, rec.RecordDate).Scan(&rec.CreatedAt)
}

func (r *medicalRecordRepoPG) List(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medical_records`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+recordCols+` FROM medical_records ORDER BY record_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicalRecord
	for rows.Next() {
		rec, err := scanMedicalRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

// =========== Investigation Repository ===========

type investigationRepoPG struct{ pool *pgxpool.Pool }

func NewInvestigationRepoPG(pool *pgxpool.Pool) InvestigationRepository {
	return &investigationRepoPG{pool: pool}
}

const investigationCols = `id, patient_id, type, results, status, scheduled_date, completed_date, created_at`

func scanInvestigation(row pgx.Row) (*Investigation, error) {
	var inv Investigation
	err := row.Scan(&inv.ID, &inv.PatientID, &inv.Type, &inv.Results, &inv.Status, &inv.ScheduledDate, &inv.CompletedDate, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *investigationRepoPG) Create(ctx context.Context, inv *Investigation) error {
	inv.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO investigations (id, patient_id, type, results, status, scheduled_date, completed_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		inv.ID, inv.PatientID, inv.Type, inv.Results, inv.Status, inv.ScheduledDate, inv.CompletedDate).Scan(&inv.CreatedAt)
}

func (r *investigationRepoPG) List(ctx context.Context, limit, offset int) ([]*Investigation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM investigations`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+investigationCols+` FROM investigations ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Investigation
	for rows.Next() {
		inv, err := scanInvestigation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, rows.Err()
}
