package minidb

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Pager interface {
	GetPage(context.Context, PageIndex) (*Page, error)
	TotalPages() uint32
	UnusedPageIdx() PageIndex
	Flush(context.Context, PageIndex) error
	Close(context.Context) error
}

type Table struct {
	RootPageIdx     PageIndex
	pager           Pager
	maxInternalKeys uint32
	logger          *zap.Logger
}

type TableOption func(*Table)

// WithMaxInternalKeys lowers number of keys an internal node can hold
// before it is split. Values below 2 are ignored.
func WithMaxInternalKeys(maxKeys uint32) TableOption {
	return func(t *Table) {
		if maxKeys >= 2 && maxKeys <= InternalNodeMaxKeys {
			t.maxInternalKeys = maxKeys
		}
	}
}

// Open opens the database file, creating it if it does not exist yet.
func Open(ctx context.Context, logger *zap.Logger, path string, opts ...TableOption) (*Table, error) {
	dbFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fatal("open", err)
	}

	aPager, err := NewPager(dbFile)
	if err != nil {
		return nil, multierr.Append(err, dbFile.Close())
	}

	aTable, err := NewTable(ctx, logger, aPager, opts...)
	if err != nil {
		return nil, multierr.Append(err, aPager.Close(ctx))
	}

	logger.Sugar().With(
		"path", path,
		"total_pages", int(aPager.TotalPages()),
	).Debug("opened table")

	return aTable, nil
}

// NewTable returns a table stored in pages of the pager,
// an empty pager gets an empty leaf node as its root page.
func NewTable(ctx context.Context, logger *zap.Logger, aPager Pager, opts ...TableOption) (*Table, error) {
	aTable := &Table{
		RootPageIdx:     0,
		pager:           aPager,
		maxInternalKeys: InternalNodeMaxKeys,
		logger:          logger,
	}

	for _, opt := range opts {
		opt(aTable)
	}

	if aPager.TotalPages() == 0 {
		aRootPage, err := aPager.GetPage(ctx, aTable.RootPageIdx)
		if err != nil {
			return nil, fmt.Errorf("init root: %w", err)
		}
		aRootPage.LeafNode().InitLeaf()
		aRootPage.SetRoot(true)
	}

	return aTable, nil
}

// Close flushes all pages to the database file and closes it.
// Any error returned here is fatal.
func (t *Table) Close(ctx context.Context) error {
	t.logger.Sugar().With(
		"total_pages", int(t.pager.TotalPages()),
	).Debug("closing table")

	if err := t.pager.Close(ctx); err != nil {
		return fatal("close table", err)
	}
	return nil
}

// RowCount returns number of rows stored in all leaf nodes.
func (t *Table) RowCount(ctx context.Context) (int, error) {
	count := 0
	err := t.Scan(ctx, func(Row) error {
		count += 1
		return nil
	})
	return count, err
}
