package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapWriteErr(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if err := mapWriteErr(nil); err != nil {
			t.Errorf("mapWriteErr(nil) = %v", err)
		}
	})

	t.Run("unique violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505"}
		if err := mapWriteErr(pgErr); !errors.Is(err, ErrConflict) {
			t.Errorf("mapWriteErr(23505) = %v, want ErrConflict", err)
		}
	})

	t.Run("wrapped unique violation", func(t *testing.T) {
		wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
		if err := mapWriteErr(wrapped); !errors.Is(err, ErrConflict) {
			t.Errorf("mapWriteErr(wrapped 23505) = %v, want ErrConflict", err)
		}
	})

	t.Run("other pg error", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23503"} // foreign key violation
		if err := mapWriteErr(pgErr); errors.Is(err, ErrConflict) {
			t.Error("mapWriteErr(23503) classified as conflict")
		}
	})
}

func TestMapLookupErr(t *testing.T) {
	if err := mapLookupErr(pgx.ErrNoRows); !errors.Is(err, ErrNotFound) {
		t.Errorf("mapLookupErr(ErrNoRows) = %v, want ErrNotFound", err)
	}
	other := errors.New("connection reset")
	if err := mapLookupErr(other); err != other {
		t.Errorf("mapLookupErr passthrough = %v, want original", err)
	}
}

func TestOutcomeFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"success", nil, StatusSuccess},
		{"conflict", ErrConflict, StatusConflict},
		{"wrapped conflict", fmt.Errorf("create: %w", ErrConflict), StatusConflict},
		{"failure", errors.New("disk full"), StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := outcomeFromErr(tt.err)
			if out.Status != tt.want {
				t.Errorf("Status = %v, want %v", out.Status, tt.want)
			}
			if tt.want == StatusError && out.Err == nil {
				t.Error("Err not carried for StatusError")
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	if StatusSuccess.String() != "success" || StatusConflict.String() != "conflict" || StatusError.String() != "error" {
		t.Error("Status.String() names wrong")
	}
}
