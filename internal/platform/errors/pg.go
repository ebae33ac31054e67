package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes the deal store runs into
const (
	sqlUniqueViolation     = "23505"
	sqlForeignKeyViolation = "23503"
	sqlNotNullViolation    = "23502"
	sqlCheckViolation      = "23514"
	sqlStringTooLong       = "22001"
	sqlBadTextRepr         = "22P02"
	sqlSerialization       = "40001"
	sqlDeadlock            = "40P01"
	sqlLockNotAvailable    = "55P03"
	sqlReadOnlyTx          = "25006"
	sqlCannotConnectNow    = "57P03"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// IsDuplicateKey reports a unique violation anywhere in err's chain
func IsDuplicateKey(err error) bool {
	pe, ok := pgError(err)
	return ok && pe.Code == sqlUniqueViolation
}

func pgCode(sqlstate string) ErrorCode {
	switch sqlstate {
	case sqlUniqueViolation:
		return ErrorCodeDuplicateKey
	case sqlForeignKeyViolation, sqlStringTooLong, sqlBadTextRepr:
		return ErrorCodeInvalidArgument
	case sqlNotNullViolation, sqlCheckViolation:
		return ErrorCodeValidation
	case sqlReadOnlyTx, sqlCannotConnectNow:
		return ErrorCodeUnavailable
	}
	return ErrorCodeDB
}

// FromPostgres wraps a driver error with a code derived from its SQLSTATE
// Non-postgres errors are DB errors; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code := ErrorCodeDB
	if pe, ok := pgError(err); ok {
		code = pgCode(pe.Code)
	}
	return Wrap(err, code, msg)
}

// lowercase fragments pgx surfaces without a PgError, mostly on commit
var retryableText = []string{
	"commit unexpectedly resulted in rollback",
	"could not serialize access",
	"deadlock detected",
}

// Retryable reports contention a fresh transaction may get past
// Caller cancellation and statement timeouts are not retryable
func Retryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := pgError(err); ok {
		switch pe.Code {
		case sqlSerialization, sqlDeadlock, sqlLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range retryableText {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
