package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "busreservation/internal/config"
	intdb "busreservation/internal/db"
	"busreservation/internal/domain"
)

var errNoDB = domain.InternalError{Msg: "database not connected"}

func dbOrGlobal(db *sql.DB) *sql.DB {
	if db != nil {
		return db
	}
	return intconfig.DB
}

// translateErr maps driver errors onto the domain taxonomy.
func translateErr(resource string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.NotFoundError{Resource: resource, Err: err}
	case intdb.IsDuplicateKey(err):
		return domain.ConflictError{Resource: resource, Msg: "already exists", Err: err}
	default:
		var (
			nf   domain.NotFoundError
			conf domain.ConflictError
			ie   domain.InternalError
		)
		if errors.As(err, &nf) || errors.As(err, &conf) || errors.As(err, &ie) {
			return err
		}
		return domain.InternalError{Msg: resource + " storage error", Err: err}
	}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}
