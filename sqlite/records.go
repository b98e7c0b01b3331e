package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ONSdigital/dp-catalog-api/attributes"
	"github.com/ONSdigital/dp-catalog-api/storage"
)

// Tx runs record queries inside one database transaction.
type Tx struct {
	tx *sql.Tx
}

var _ storage.Tx = (*Tx)(nil)

func columns(kind *storage.Kind) string {
	if kind.IsChild() {
		return "id, attributes, " + kind.ParentKey
	}
	return "id, attributes"
}

// where builds the condition selecting the filtered collection; extra
// conditions are ANDed on.
func where(kind *storage.Kind, filter storage.Filter, extra ...string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if kind.IsChild() && filter.ParentID != nil {
		conds = append(conds, kind.ParentKey+" = ?")
		args = append(args, *filter.ParentID)
	}
	conds = append(conds, extra...)
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(kind *storage.Kind, row scanner) (*storage.Record, error) {
	var (
		rec   storage.Record
		attrs sql.NullString
		err   error
	)
	if kind.IsChild() {
		err = row.Scan(&rec.ID, &attrs, &rec.ParentID)
	} else {
		err = row.Scan(&rec.ID, &attrs)
	}
	if err != nil {
		return nil, err
	}

	if attrs.Valid {
		rec.Attributes, err = attributes.Parse([]byte(attrs.String))
		if err != nil {
			return nil, fmt.Errorf("corrupt attributes on %s %d: %w", kind.Name, rec.ID, err)
		}
	}
	return &rec, nil
}

// Count returns the size of the filtered collection.
func (t *Tx) Count(ctx context.Context, kind *storage.Kind, filter storage.Filter) (int, error) {
	cond, args := where(kind, filter)
	var n int
	err := t.tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+kind.Table+cond, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", kind.Name, err)
	}
	return n, nil
}

// List returns up to limit records of the filtered collection in id
// order, skipping the first offset.
func (t *Tx) List(ctx context.Context, kind *storage.Kind, filter storage.Filter, offset, limit int) ([]*storage.Record, error) {
	cond, args := where(kind, filter)
	args = append(args, limit, offset)
	query := "SELECT " + columns(kind) + " FROM " + kind.Table + cond + " ORDER BY id LIMIT ? OFFSET ?"

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind.Name, err)
	}
	defer rows.Close()

	records := []*storage.Record{}
	for rows.Next() {
		rec, err := scanRecord(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s record: %w", kind.Name, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind.Name, err)
	}
	return records, nil
}

// Get returns the record with id inside the filtered collection, or
// storage.ErrRecordNotFound.
func (t *Tx) Get(ctx context.Context, kind *storage.Kind, filter storage.Filter, id int64) (*storage.Record, error) {
	cond, args := where(kind, filter, "id = ?")
	args = append(args, id)

	row := t.tx.QueryRowContext(ctx, "SELECT "+columns(kind)+" FROM "+kind.Table+cond, args...)
	rec, err := scanRecord(kind, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", kind.Name, id, err)
	}
	return rec, nil
}

// Insert stores rec and returns the id assigned to it.
func (t *Tx) Insert(ctx context.Context, kind *storage.Kind, rec *storage.Record) (int64, error) {
	attrs, err := rec.Attributes.Value()
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s attributes: %w", kind.Name, err)
	}

	query := "INSERT INTO " + kind.Table + " (attributes) VALUES (?)"
	args := []any{attrs}
	if kind.IsChild() {
		query = "INSERT INTO " + kind.Table + " (attributes, " + kind.ParentKey + ") VALUES (?, ?)"
		args = append(args, rec.ParentID)
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s: %w", kind.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read %s id: %w", kind.Name, err)
	}
	return id, nil
}

// Update writes the attributes (and parent id) of an existing record.
func (t *Tx) Update(ctx context.Context, kind *storage.Kind, rec *storage.Record) error {
	attrs, err := rec.Attributes.Value()
	if err != nil {
		return fmt.Errorf("failed to encode %s attributes: %w", kind.Name, err)
	}

	query := "UPDATE " + kind.Table + " SET attributes = ? WHERE id = ?"
	args := []any{attrs, rec.ID}
	if kind.IsChild() {
		query = "UPDATE " + kind.Table + " SET attributes = ?, " + kind.ParentKey + " = ? WHERE id = ?"
		args = []any{attrs, rec.ParentID, rec.ID}
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s %d: %w", kind.Name, rec.ID, err)
	}
	return expectOneRow(res)
}

// Delete removes the record with id.
func (t *Tx) Delete(ctx context.Context, kind *storage.Kind, id int64) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM "+kind.Table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", kind.Name, id, err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrRecordNotFound
	}
	return nil
}

// Commit makes the transaction's writes visible.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback discards the transaction. Calling it after Commit is harmless.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
