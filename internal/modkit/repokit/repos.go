// Package repokit is the glue between services and SQL repos: binding a repo to a pool or tx,
// running transactions and the hooks that run inside them
package repokit

import (
	"context"
	"time"

	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store"
)

type (
	// Queryer is what a bound repo runs statements on, a pool or an open tx
	Queryer    = store.RowQuerier
	TxRunner   = store.TxRunner
	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)

// Binder hands out a repo bound to q
type Binder[T any] interface {
	Bind(q Queryer) T
}

// BindFunc is a Binder from a plain function
type BindFunc[T any] func(Queryer) T

func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

const txAttempts = 3

// txBackoff is the pause before the second attempt, doubled after that
var txBackoff = 20 * time.Millisecond

// WithTx runs fn in a transaction on tx
// A serialization failure or deadlock reruns fn in a fresh transaction, up to three attempts
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	wait := txBackoff
	var err error
	for attempt := 1; ; attempt++ {
		err = tx.Tx(ctx, fn)
		if err == nil || attempt == txAttempts || !perr.Retryable(err) {
			return err
		}
		logger.C(ctx).Debug().Err(err).Int("attempt", attempt).Msg("tx contention, retrying")
		select {
		case <-ctx.Done():
			return err
		case <-time.After(wait):
		}
		wait *= 2
	}
}
