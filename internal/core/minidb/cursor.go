package minidb

import (
	"context"
	"fmt"
)

// Cursor points at a cell of a leaf node. It is only valid until the next
// modification of the tree, splits move cells between pages.
type Cursor struct {
	Table      *Table
	PageIdx    PageIndex
	CellIdx    uint32
	EndOfTable bool
}

// SeekFirst returns cursor pointing at the first cell of the leftmost leaf.
func (t *Table) SeekFirst(ctx context.Context) (*Cursor, error) {
	pageIdx, aPage, err := t.leftmostLeaf(ctx, t.RootPageIdx)
	if err != nil {
		return nil, fmt.Errorf("seek first: %w", err)
	}
	return &Cursor{
		Table:      t,
		PageIdx:    pageIdx,
		CellIdx:    0,
		EndOfTable: aPage.LeafNode().Cells() == 0,
	}, nil
}

// Seek the cursor for a key, if it does not exist then return the cursor
// for the page and cell where it should be inserted
func (t *Table) Seek(ctx context.Context, key uint32) (*Cursor, error) {
	pageIdx := t.RootPageIdx
	for {
		aPage, err := t.pager.GetPage(ctx, pageIdx)
		if err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
		if aPage.IsLeaf() {
			return t.leafNodeSeek(pageIdx, aPage, key), nil
		}
		pageIdx, err = t.internalNodeSeek(aPage, key)
		if err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
	}
}

func (t *Table) leafNodeSeek(pageIdx PageIndex, aPage *Page, key uint32) *Cursor {
	cellIdx, _ := aPage.LeafNode().Search(key)
	return &Cursor{
		Table:   t,
		PageIdx: pageIdx,
		CellIdx: cellIdx,
	}
}

func (t *Table) internalNodeSeek(aPage *Page, key uint32) (PageIndex, error) {
	node := aPage.InternalNode()
	return node.Child(node.IndexOfChild(key))
}

func (t *Table) leftmostLeaf(ctx context.Context, pageIdx PageIndex) (PageIndex, *Page, error) {
	for {
		aPage, err := t.pager.GetPage(ctx, pageIdx)
		if err != nil {
			return 0, nil, err
		}
		if aPage.IsLeaf() {
			return pageIdx, aPage, nil
		}
		pageIdx, err = aPage.InternalNode().Child(0)
		if err != nil {
			return 0, nil, err
		}
	}
}

// nextLeaf climbs up parent pointers until it finds an ancestor with
// a child to the right of the path and returns leftmost leaf of that child.
func (t *Table) nextLeaf(ctx context.Context, pageIdx PageIndex) (PageIndex, *Page, bool, error) {
	aPage, err := t.pager.GetPage(ctx, pageIdx)
	if err != nil {
		return 0, nil, false, err
	}

	for !aPage.IsRoot() {
		parentIdx := aPage.Parent()
		aParentPage, err := t.pager.GetPage(ctx, parentIdx)
		if err != nil {
			return 0, nil, false, err
		}
		parent := aParentPage.InternalNode()

		childIdx, err := parent.IndexOfPage(pageIdx)
		if err != nil {
			return 0, nil, false, err
		}
		if childIdx < parent.KeysNum() {
			siblingIdx, err := parent.Child(childIdx + 1)
			if err != nil {
				return 0, nil, false, err
			}
			leafIdx, aLeafPage, err := t.leftmostLeaf(ctx, siblingIdx)
			if err != nil {
				return 0, nil, false, err
			}
			return leafIdx, aLeafPage, true, nil
		}

		pageIdx, aPage = parentIdx, aParentPage
	}

	return 0, nil, false, nil
}

// Advance moves the cursor to the next cell, continuing into the next leaf
// when the current one is exhausted.
func (c *Cursor) Advance(ctx context.Context) error {
	aPage, err := c.Table.pager.GetPage(ctx, c.PageIdx)
	if err != nil {
		return fmt.Errorf("advance: %w", err)
	}

	c.CellIdx += 1
	if c.CellIdx < aPage.LeafNode().Cells() {
		return nil
	}

	for {
		nextIdx, aNextPage, ok, err := c.Table.nextLeaf(ctx, c.PageIdx)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		if !ok {
			c.EndOfTable = true
			return nil
		}
		c.PageIdx = nextIdx
		c.CellIdx = 0
		if aNextPage.LeafNode().Cells() > 0 {
			return nil
		}
	}
}

// Key returns key of the cell the cursor points at.
func (c *Cursor) Key(ctx context.Context) (uint32, error) {
	aPage, err := c.Table.pager.GetPage(ctx, c.PageIdx)
	if err != nil {
		return 0, fmt.Errorf("cursor key: %w", err)
	}
	return aPage.LeafNode().Key(c.CellIdx), nil
}

// Value returns the row slot the cursor points at.
func (c *Cursor) Value(ctx context.Context) ([]byte, error) {
	aPage, err := c.Table.pager.GetPage(ctx, c.PageIdx)
	if err != nil {
		return nil, fmt.Errorf("cursor value: %w", err)
	}
	return aPage.LeafNode().Value(c.CellIdx), nil
}

func (c *Cursor) fetchRow(ctx context.Context) (Row, error) {
	value, err := c.Value(ctx)
	if err != nil {
		return Row{}, err
	}
	var aRow Row
	if err := UnmarshalRow(value, &aRow); err != nil {
		return Row{}, fmt.Errorf("fetch row: %w", err)
	}
	return aRow, nil
}
