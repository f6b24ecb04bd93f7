package gorm

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	stdgorm "gorm.io/gorm"
)

const uniqueViolation = "23505"

func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, stdgorm.ErrRecordNotFound)
}

func IsFoundButHasErrors(err error) bool {
	return err != nil && !errors.Is(err, stdgorm.ErrRecordNotFound)
}

func HasDbIssues(err error) bool {
	return IsNotFound(err) || IsFoundButHasErrors(err)
}

// IsDuplicate reports unique-constraint violations regardless of whether gorm
// translated the driver error.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, stdgorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	return strings.Contains(strings.ToUpper(err.Error()), "UNIQUE CONSTRAINT FAILED")
}
