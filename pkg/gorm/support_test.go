package gorm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	stdgorm "gorm.io/gorm"
)

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(stdgorm.ErrRecordNotFound) {
		t.Fatalf("expected true")
	}

	if IsNotFound(nil) {
		t.Fatalf("nil should be false")
	}
}

func TestIsFoundButHasErrors(t *testing.T) {
	if !IsFoundButHasErrors(errors.New("other")) {
		t.Fatalf("expected true")
	}

	if IsFoundButHasErrors(stdgorm.ErrRecordNotFound) {
		t.Fatalf("should be false")
	}
}

func TestHasDbIssues(t *testing.T) {
	if !HasDbIssues(stdgorm.ErrRecordNotFound) || !HasDbIssues(errors.New("foo")) {
		t.Fatalf("expected true")
	}

	if HasDbIssues(nil) {
		t.Fatalf("nil should be false")
	}
}

func TestIsDuplicate(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"translated", fmt.Errorf("create: %w", stdgorm.ErrDuplicatedKey), true},
		{"postgres", &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}, true},
		{"postgres other", &pgconn.PgError{Code: "42P01"}, false},
		{"sqlite", errors.New("UNIQUE constraint failed: tags.subsite, tags.nicename"), true},
		{"other", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicate(tc.err); got != tc.want {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
		})
	}
}
