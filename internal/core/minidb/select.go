package minidb

import (
	"context"
)

// Scan calls fn for every row in ascending key order, iteration stops
// at the first error returned by fn.
func (t *Table) Scan(ctx context.Context, fn func(Row) error) error {
	aCursor, err := t.SeekFirst(ctx)
	if err != nil {
		return err
	}

	for !aCursor.EndOfTable {
		aRow, err := aCursor.fetchRow(ctx)
		if err != nil {
			return err
		}
		if err := fn(aRow); err != nil {
			return err
		}
		if err := aCursor.Advance(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Select returns all rows ordered by ID.
func (t *Table) Select(ctx context.Context) ([]Row, error) {
	var rows []Row
	if err := t.Scan(ctx, func(aRow Row) error {
		rows = append(rows, aRow)
		return nil
	}); err != nil {
		return nil, err
	}
	return rows, nil
}
