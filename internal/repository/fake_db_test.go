package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"skillmatch/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan dest mismatch: want %d got %d", len(r.vals), len(dest))
	}
	for i := range dest {
		v := r.vals[i]
		switch d := dest[i].(type) {
		case *uuid.UUID:
			*d = v.(uuid.UUID)
		case *string:
			*d = v.(string)
		case **string:
			if v == nil {
				*d = nil
			} else {
				s := v.(string)
				*d = &s
			}
		case *bool:
			*d = v.(bool)
		case *int:
			*d = v.(int)
		case *[]byte:
			if v == nil {
				*d = nil
			} else {
				*d = v.([]byte)
			}
		case *[]string:
			*d = v.([]string)
		case *time.Time:
			*d = v.(time.Time)
		case **time.Time:
			if v == nil {
				*d = nil
			} else {
				t := v.(time.Time)
				*d = &t
			}
		default:
			return fmt.Errorf("unsupported scan type %T", dest[i])
		}
	}
	return nil
}

type recordedCall struct {
	query string
	args  []any
}

// fakeDB records every statement and answers QueryRow from a queue.
type fakeDB struct {
	mu    sync.Mutex
	calls []recordedCall
	rows  []fakeRow
	execN int64
}

func (db *fakeDB) Ping(context.Context) error { return nil }
func (db *fakeDB) Close() error               { return nil }
func (db *fakeDB) SQLDB() *sql.DB             { return nil }

func (db *fakeDB) Begin(context.Context) (database.Tx, error) {
	return nil, fmt.Errorf("not implemented")
}

func (db *fakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.calls = append(db.calls, recordedCall{query: query, args: args})
	return db.execN, nil
}

func (db *fakeDB) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.calls = append(db.calls, recordedCall{query: query, args: args})
	return nil, fmt.Errorf("not implemented")
}

func (db *fakeDB) QueryRow(_ context.Context, query string, args ...any) database.Row {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.calls = append(db.calls, recordedCall{query: query, args: args})
	if len(db.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	r := db.rows[0]
	db.rows = db.rows[1:]
	return r
}

func (db *fakeDB) lastCall() recordedCall {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.calls[len(db.calls)-1]
}
