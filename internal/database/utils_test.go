package database

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

func TestParseUUID(t *testing.T) {
	id, err := ParseUUID("  6f1c1e2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !id.Valid {
		t.Fatal("expected valid UUID")
	}
	if got := UUIDString(id); got != "6f1c1e2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b" {
		t.Errorf("UUIDString = %q", got)
	}

	if _, err := ParseUUID("not-a-uuid"); err == nil {
		t.Error("expected error for invalid UUID")
	}
	if got := UUIDString(pgtype.UUID{}); got != "" {
		t.Errorf("UUIDString(NULL) = %q, want empty", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	if !IsUniqueViolation(fmt.Errorf("create lead: %w", unique)) {
		t.Error("wrapped 23505 should be a unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("23503 is a foreign key violation")
	}
	if IsUniqueViolation(errors.New("duplicate key")) {
		t.Error("plain errors are never unique violations")
	}
}

func TestNumericConversion(t *testing.T) {
	if n := ToPgNumeric(nil); n.Valid {
		t.Error("nil amount should be NULL")
	}
	if NumericPtr(pgtype.Numeric{}) != nil {
		t.Error("NULL numeric should be nil")
	}

	for _, v := range []float64{0, 120000, 1500.5, 0.25} {
		n := ToPgNumeric(&v)
		if !n.Valid {
			t.Fatalf("ToPgNumeric(%v) invalid", v)
		}
		got := NumericPtr(n)
		if got == nil || *got != v {
			t.Errorf("round trip %v = %v", v, got)
		}
	}
}

func TestInt4Conversion(t *testing.T) {
	null, err := ToPgInt4(nil)
	if err != nil || null.Valid {
		t.Errorf("ToPgInt4(nil) = %v, %v; want NULL", null, err)
	}
	three := 3
	n, err := ToPgInt4(&three)
	if err != nil {
		t.Fatalf("ToPgInt4(3): %v", err)
	}
	got := Int4Ptr(n)
	if got == nil || *got != 3 {
		t.Errorf("round trip = %v", got)
	}
}

func TestInt4ConversionOutOfRange(t *testing.T) {
	for _, v := range []int{math.MaxInt32 + 1, 5000000000, math.MinInt32 - 1} {
		v := v
		if n, err := ToPgInt4(&v); err == nil {
			t.Errorf("ToPgInt4(%d) = %v; want error", v, n)
		}
	}
}

func TestTimestamptzConversion(t *testing.T) {
	if ToPgTimestamptz(nil).Valid {
		t.Error("nil time should be NULL")
	}
	var zero time.Time
	if ToPgTimestamptz(&zero).Valid {
		t.Error("zero time should be NULL")
	}
	now := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)
	got := TimePtr(ToPgTimestamptz(&now))
	if got == nil || !got.Equal(now) {
		t.Errorf("round trip = %v", got)
	}
	if !TimeFromPg(pgtype.Timestamptz{}).IsZero() {
		t.Error("NULL timestamptz should be zero time")
	}
}
