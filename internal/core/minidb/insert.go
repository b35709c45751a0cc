package minidb

import (
	"context"
	"fmt"
)

// Insert stores the row under its ID. Duplicate IDs are rejected with
// ErrDuplicateKey and ErrTableFull is returned when a split would need
// more pages than the table can hold. Failed inserts never modify the tree.
func (t *Table) Insert(ctx context.Context, aRow Row) error {
	if err := aRow.Validate(); err != nil {
		return err
	}

	key := aRow.Key()

	aCursor, err := t.Seek(ctx, key)
	if err != nil {
		return err
	}

	aPage, err := t.pager.GetPage(ctx, aCursor.PageIdx)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	leaf := aPage.LeafNode()
	if aCursor.CellIdx < leaf.Cells() && leaf.Key(aCursor.CellIdx) == key {
		return fmt.Errorf("%w: %d", ErrDuplicateKey, key)
	}

	return aCursor.LeafNodeInsert(ctx, aRow)
}

// LeafNodeInsert stores the row at the cursor position keyed by its ID.
func (c *Cursor) LeafNodeInsert(ctx context.Context, aRow Row) error {
	key := aRow.Key()
	aPage, err := c.Table.pager.GetPage(ctx, c.PageIdx)
	if err != nil {
		return fmt.Errorf("get page: %w", err)
	}
	if aPage.IsInternal() {
		return fatal("leaf node insert", fmt.Errorf("error inserting row to a non leaf node, key %d", key))
	}

	leaf := aPage.LeafNode()
	if leaf.IsFull() {
		// Split leaf node
		if err := c.LeafNodeSplitInsert(ctx, aRow); err != nil {
			return fmt.Errorf("leaf node split insert: %w", err)
		}
		return nil
	}

	return leaf.InsertCell(c.CellIdx, aRow)
}

// Create a new node and move half the cells over.
// Insert the new value in one of the two nodes.
// Update parent or create a new parent.
func (c *Cursor) LeafNodeSplitInsert(ctx context.Context, aRow Row) error {
	var (
		aPager = c.Table.pager
		key    = aRow.Key()
	)

	aSplitPage, err := aPager.GetPage(ctx, c.PageIdx)
	if err != nil {
		return fmt.Errorf("get page: %w", err)
	}

	if err := c.Table.checkSplitCapacity(ctx, aSplitPage); err != nil {
		return err
	}

	newPageIdx := aPager.UnusedPageIdx()
	aNewPage, err := aPager.GetPage(ctx, newPageIdx)
	if err != nil {
		return fmt.Errorf("get new page: %w", err)
	}

	c.Table.logger.Sugar().With(
		"key", int(key),
		"page_index", int(c.PageIdx),
		"new_page_index", int(newPageIdx),
	).Debug("leaf node split insert")

	var (
		oldLeaf = aSplitPage.LeafNode()
		newLeaf = aNewPage.LeafNode()
	)
	newLeaf.InitLeaf()
	aNewPage.SetParent(aSplitPage.Parent())

	// All existing keys plus new key should be divided between old (left)
	// and new (right) nodes. Starting from the right, move each key to
	// correct position so cells of the old node are never overwritten
	// before they are moved.
	for i := int(LeafNodeMaxCells); i >= 0; i-- {
		var (
			idx      = uint32(i)
			destLeaf = oldLeaf
			destIdx  = idx
		)
		if idx >= LeafNodeLeftSplitCount {
			destLeaf = newLeaf
			destIdx = idx - LeafNodeLeftSplitCount
		}

		switch {
		case idx == c.CellIdx:
			if err := destLeaf.saveCell(destIdx, aRow); err != nil {
				return err
			}
		case idx > c.CellIdx:
			copy(destLeaf.Cell(destIdx), oldLeaf.Cell(idx-1))
		default:
			copy(destLeaf.Cell(destIdx), oldLeaf.Cell(idx))
		}
	}

	// Update cell count on both leaf nodes
	oldLeaf.SetCells(LeafNodeLeftSplitCount)
	newLeaf.SetCells(LeafNodeRightSplitCount)
	clear(aSplitPage.Bytes()[cellOffset(LeafNodeLeftSplitCount):])

	// Smallest key of the right node separates the two nodes
	separator := newLeaf.Key(0)

	if aSplitPage.IsRoot() {
		return c.Table.CreateNewRoot(ctx, separator, newPageIdx)
	}

	return c.Table.InternalNodeInsert(ctx, aSplitPage.Parent(), c.PageIdx, separator, newPageIdx)
}

// checkSplitCapacity walks up from a full leaf and counts pages the split
// will allocate: the new leaf, a new sibling for every full ancestor
// and a new left child when the split reaches the root.
func (t *Table) checkSplitCapacity(ctx context.Context, aLeafPage *Page) error {
	var (
		needed = uint32(1)
		aPage  = aLeafPage
	)
	for {
		if aPage.IsRoot() {
			needed += 1
			break
		}
		aParentPage, err := t.pager.GetPage(ctx, aPage.Parent())
		if err != nil {
			return fmt.Errorf("check split capacity: %w", err)
		}
		if aParentPage.InternalNode().KeysNum() < t.maxInternalKeys {
			break
		}
		needed += 1
		aPage = aParentPage
	}

	if uint32(t.pager.UnusedPageIdx())+needed > MaxPages {
		return fmt.Errorf("%w: split needs %d new pages", ErrTableFull, needed)
	}
	return nil
}

// Handle splitting the root.
// Old root copied to new page, becomes left child.
// Address of right child passed in.
// Re-initialize root page to contain the new root node.
// New root node points to two children.
func (t *Table) CreateNewRoot(ctx context.Context, separator uint32, rightChildPageIdx PageIndex) error {
	oldRootPage, err := t.pager.GetPage(ctx, t.RootPageIdx)
	if err != nil {
		return fmt.Errorf("create new root: %w", err)
	}

	rightChildPage, err := t.pager.GetPage(ctx, rightChildPageIdx)
	if err != nil {
		return fmt.Errorf("create new root: %w", err)
	}

	leftChildPageIdx := t.pager.UnusedPageIdx()
	leftChildPage, err := t.pager.GetPage(ctx, leftChildPageIdx)
	if err != nil {
		return fmt.Errorf("create new root: %w", err)
	}

	t.logger.Sugar().With(
		"left_child_index", int(leftChildPageIdx),
		"right_child_index", int(rightChildPageIdx),
		"separator", int(separator),
	).Debug("create new root")

	// Copy all node contents to left child
	leftChildPage.copyFrom(oldRootPage)
	leftChildPage.SetRoot(false)
	if leftChildPage.IsInternal() {
		// Update parent for all child pages
		for _, childIdx := range leftChildPage.InternalNode().Children() {
			aChildPage, err := t.pager.GetPage(ctx, childIdx)
			if err != nil {
				return fmt.Errorf("create new root: %w", err)
			}
			aChildPage.SetParent(leftChildPageIdx)
		}
	}

	// Change root node to a new internal node
	newRoot := oldRootPage.InternalNode()
	newRoot.InitInternal()
	oldRootPage.SetRoot(true)
	newRoot.reset([]uint32{separator}, []PageIndex{leftChildPageIdx, rightChildPageIdx})

	// Set parent for both left and right child
	leftChildPage.SetParent(t.RootPageIdx)
	rightChildPage.SetParent(t.RootPageIdx)

	return nil
}

// Add a new key / right child pair to the parent, right after left child
// which was split. Parent is split as well if it's full.
func (t *Table) InternalNodeInsert(ctx context.Context, parentPageIdx, leftChildPageIdx PageIndex, key uint32, rightChildPageIdx PageIndex) error {
	aParentPage, err := t.pager.GetPage(ctx, parentPageIdx)
	if err != nil {
		return fmt.Errorf("internal node insert: %w", err)
	}

	parent := aParentPage.InternalNode()
	if parent.KeysNum() >= t.maxInternalKeys {
		return t.InternalNodeSplitInsert(ctx, parentPageIdx, leftChildPageIdx, key, rightChildPageIdx)
	}

	aRightChildPage, err := t.pager.GetPage(ctx, rightChildPageIdx)
	if err != nil {
		return fmt.Errorf("internal node insert: %w", err)
	}

	t.logger.Sugar().With(
		"parent_index", int(parentPageIdx),
		"child_index", int(rightChildPageIdx),
		"key", int(key),
	).Debug("internal node insert")

	idx, err := parent.IndexOfPage(leftChildPageIdx)
	if err != nil {
		return fatal("internal node insert", err)
	}

	// Left child keeps its slot but now only covers keys smaller than
	// the new key, following slot becomes the right child.
	parent.InsertCell(idx, leftChildPageIdx, key)
	if err := parent.SetChild(idx+1, rightChildPageIdx); err != nil {
		return fatal("internal node insert", err)
	}
	aRightChildPage.SetParent(parentPageIdx)

	return nil
}

// Splits internal node. All current keys and children plus the new pair are
// divided between the original node (left) and a new sibling (right), the
// middle key is promoted to the parent. If the original node is root,
// create new root.
func (t *Table) InternalNodeSplitInsert(ctx context.Context, pageIdx, leftChildPageIdx PageIndex, key uint32, rightChildPageIdx PageIndex) error {
	aSplitPage, err := t.pager.GetPage(ctx, pageIdx)
	if err != nil {
		return fmt.Errorf("internal node split insert: %w", err)
	}
	node := aSplitPage.InternalNode()

	idx, err := node.IndexOfPage(leftChildPageIdx)
	if err != nil {
		return fatal("internal node split insert", err)
	}

	var (
		keys     = make([]uint32, 0, node.KeysNum()+1)
		children = make([]PageIndex, 0, node.KeysNum()+2)
	)
	keys = append(keys, node.Keys()[:idx]...)
	keys = append(keys, key)
	keys = append(keys, node.Keys()[idx:]...)
	children = append(children, node.Children()[:idx+1]...)
	children = append(children, rightChildPageIdx)
	children = append(children, node.Children()[idx+1:]...)

	var (
		leftCount   = len(keys) / 2
		promotedKey = keys[leftCount]
	)

	newPageIdx := t.pager.UnusedPageIdx()
	aNewPage, err := t.pager.GetPage(ctx, newPageIdx)
	if err != nil {
		return fmt.Errorf("internal node split insert: %w", err)
	}

	t.logger.Sugar().With(
		"page_index", int(pageIdx),
		"new_page_index", int(newPageIdx),
		"promoted_key", int(promotedKey),
	).Debug("internal node split insert")

	aNewPage.InternalNode().InitInternal()
	aNewPage.SetParent(aSplitPage.Parent())
	aNewPage.InternalNode().reset(keys[leftCount+1:], children[leftCount+1:])
	node.reset(keys[:leftCount], children[:leftCount+1])

	// Children moved to the right node must point to their new parent
	for i, childIdx := range children {
		parentIdx := pageIdx
		if i > leftCount {
			parentIdx = newPageIdx
		}
		aChildPage, err := t.pager.GetPage(ctx, childIdx)
		if err != nil {
			return fmt.Errorf("internal node split insert: %w", err)
		}
		aChildPage.SetParent(parentIdx)
	}

	if aSplitPage.IsRoot() {
		return t.CreateNewRoot(ctx, promotedKey, newPageIdx)
	}

	return t.InternalNodeInsert(ctx, aSplitPage.Parent(), pageIdx, promotedKey, newPageIdx)
}
