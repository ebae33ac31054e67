package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) error { return &pgconn.PgError{Code: code, Message: "pg says no"} }

func TestFromPostgres(t *testing.T) {
	cases := map[string]ErrorCode{
		"23505": ErrorCodeDuplicateKey,
		"23503": ErrorCodeInvalidArgument,
		"22P02": ErrorCodeInvalidArgument,
		"23502": ErrorCodeValidation,
		"23514": ErrorCodeValidation,
		"57P03": ErrorCodeUnavailable,
		"40001": ErrorCodeDB,
		"XX000": ErrorCodeDB,
	}
	for state, want := range cases {
		err := FromPostgres(fmt.Errorf("exec: %w", pgErr(state)), "insert deal")
		if got := CodeOf(err); got != want {
			t.Errorf("%s: code %d want %d", state, got, want)
		}
	}

	if FromPostgres(nil, "x") != nil {
		t.Fatal("nil should stay nil")
	}
	if !IsCode(FromPostgres(stderrs.New("conn closed"), "x"), ErrorCodeDB) {
		t.Fatal("non-pg errors are DB errors")
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !IsDuplicateKey(FromPostgres(pgErr("23505"), "insert deal")) {
		t.Fatal("wrapped unique violation not detected")
	}
	if IsDuplicateKey(pgErr("23503")) || IsDuplicateKey(nil) {
		t.Fatal("false positive")
	}
}

func TestRetryable(t *testing.T) {
	yes := []error{
		pgErr("40001"),
		pgErr("40P01"),
		FromPostgres(pgErr("55P03"), "lock"),
		stderrs.New("commit unexpectedly resulted in rollback"),
	}
	for _, err := range yes {
		if !Retryable(err) {
			t.Errorf("%v should be retryable", err)
		}
	}
	no := []error{
		nil,
		pgErr("23505"),
		context.Canceled,
		fmt.Errorf("tx: %w", context.DeadlineExceeded),
		stderrs.New("syntax error"),
	}
	for _, err := range no {
		if Retryable(err) {
			t.Errorf("%v should not be retryable", err)
		}
	}
}
