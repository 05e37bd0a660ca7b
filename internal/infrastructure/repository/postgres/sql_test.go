package postgres

import (
	"database/sql"
	"testing"
)

func TestNullableString(t *testing.T) {
	t.Parallel()

	if got := nullableString(""); got != nil {
		t.Fatalf("empty string must map to nil, got %v", got)
	}
	if got := nullableString("Emirates Stadium"); got == nil || *got != "Emirates Stadium" {
		t.Fatalf("unexpected pointer value: %v", got)
	}
}

func TestNullableInt64(t *testing.T) {
	t.Parallel()

	if got := nullableInt64(0); got != nil {
		t.Fatalf("zero must map to nil, got %v", got)
	}
	if got := nullableInt64(42); got == nil || *got != 42 {
		t.Fatalf("unexpected pointer value: %v", got)
	}
}

func TestNullConversions(t *testing.T) {
	t.Parallel()

	if got := nullStringToString(sql.NullString{}); got != "" {
		t.Fatalf("invalid null string must map to empty, got %q", got)
	}
	if got := nullStringToString(sql.NullString{String: "x", Valid: true}); got != "x" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := nullInt64ToInt64(sql.NullInt64{}); got != 0 {
		t.Fatalf("invalid null int must map to zero, got %d", got)
	}
	if got := nullInt64ToInt(sql.NullInt64{Int64: 1886, Valid: true}); got != 1886 {
		t.Fatalf("unexpected value: %d", got)
	}
}
