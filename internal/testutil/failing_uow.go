package testutil

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexanderramin/nippo/internal/db"
)

// ErrInjected is returned by FailingExecUoW when no Err is set.
var ErrInjected = errors.New("injected exec failure")

// FailingExecUoW runs a real transaction but fails the FailOn-th write
// statement (counted from 1), e.g. the second upsert of an import. Reads are
// not counted.
type FailingExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	inner := db.NewSQLiteUnitOfWork(u.DB)
	return inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingExec{DBTX: tx, failOn: u.FailOn, err: u.err()})
	})
}

func (u *FailingExecUoW) err() error {
	if u.Err != nil {
		return u.Err
	}
	return ErrInjected
}

type failingExec struct {
	db.DBTX
	calls  int
	failOn int
	err    error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.calls++
	if f.calls == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
