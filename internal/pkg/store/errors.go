package store

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
	"github.com/lib/pq"
)

var (
	ErrNotFound = exception.ApplicationError{
		StatusCode: http.StatusNotFound,
		Code:       "not_found",
		Message:    "record not found",
	}
	ErrConflict = exception.ApplicationError{
		StatusCode: http.StatusConflict,
		Code:       "conflict",
		Message:    "record already exists",
	}
	ErrInvalidReference = exception.ApplicationError{
		StatusCode: http.StatusBadRequest,
		Code:       "invalid_reference",
		Message:    "referenced record does not exist",
	}
	ErrInvalidData = exception.ApplicationError{
		StatusCode: http.StatusBadRequest,
		Code:       "invalid_data",
		Message:    "record violates a database constraint",
	}
	ErrUnavailable = exception.ApplicationError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       "database_unavailable",
		Message:    "database is unavailable",
	}
	ErrDatabase = exception.ApplicationError{
		StatusCode: http.StatusInternalServerError,
		Code:       "database_error",
		Message:    "database error",
	}
)

// codeTable maps postgres error classes and codes to the service taxonomy.
// Full codes are matched before their two character class.
var codeTable = map[pq.ErrorCode]exception.ApplicationError{
	"23505": ErrConflict,
	"23503": ErrInvalidReference,
	"23502": ErrInvalidData,
	"23514": ErrInvalidData,
	"22P02": ErrInvalidData,
	"40001": ErrUnavailable,
	"40P01": ErrUnavailable,
	"57P01": ErrUnavailable,
	"53300": ErrUnavailable,
}

var classTable = map[pq.ErrorClass]exception.ApplicationError{
	"08": ErrUnavailable,
	"22": ErrInvalidData,
	"23": ErrInvalidData,
	"53": ErrUnavailable,
}

// MapError converts driver errors into application errors. Nil stays nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound.WithCause(err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return ErrUnavailable.WithCause(err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if mapped, ok := codeTable[pqErr.Code]; ok {
			return mapped.WithCause(err)
		}

		if mapped, ok := classTable[pqErr.Code.Class()]; ok {
			return mapped.WithCause(err)
		}
	}

	return ErrDatabase.WithCause(err)
}
