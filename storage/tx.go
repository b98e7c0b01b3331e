package storage

import "context"

// Tx is one unit of work against the record tables. Nothing a Tx writes
// is visible to other requests until Commit; Rollback discards it.
//
// Table and column names come from Kind and are never taken from
// request input.
type Tx interface {
	Count(ctx context.Context, kind *Kind, filter Filter) (int, error)
	List(ctx context.Context, kind *Kind, filter Filter, offset, limit int) ([]*Record, error)
	Get(ctx context.Context, kind *Kind, filter Filter, id int64) (*Record, error)
	Insert(ctx context.Context, kind *Kind, rec *Record) (int64, error)
	Update(ctx context.Context, kind *Kind, rec *Record) error
	Delete(ctx context.Context, kind *Kind, id int64) error
	Commit() error
	Rollback() error
}
