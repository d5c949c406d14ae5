package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23503", ConstraintName: "appointment_patient_id_fkey"}
	if !IsForeignKeyViolation(err) {
		t.Error("expected foreign key violation to be detected")
	}
	if IsUniqueViolation(err) {
		t.Error("foreign key violation misclassified as unique violation")
	}
}

func TestIsForeignKeyViolation_Wrapped(t *testing.T) {
	err := fmt.Errorf("create appointment: %w", &pgconn.PgError{Code: "23503"})
	if !IsForeignKeyViolation(err) {
		t.Error("expected wrapped foreign key violation to be detected")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	if !IsUniqueViolation(err) {
		t.Error("expected unique violation to be detected")
	}
}

func TestIsCheckViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23514", ConstraintName: "billing_amount_check"}
	if !IsCheckViolation(err) {
		t.Error("expected check violation to be detected")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(pgx.ErrNoRows) {
		t.Error("expected pgx.ErrNoRows to be a not-found error")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("arbitrary error misclassified as not found")
	}
}

func TestPgErrCode_NonPgError(t *testing.T) {
	if code := pgErrCode(errors.New("boom")); code != "" {
		t.Errorf("expected empty code, got %q", code)
	}
}
