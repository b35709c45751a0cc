package minidb

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// PrintConstants dumps sizes the on-disk format is derived from.
func PrintConstants(w io.Writer) {
	fmt.Fprintf(w, "ROW_SIZE: %d\n", RowSize)
	fmt.Fprintf(w, "COMMON_NODE_HEADER_SIZE: %d\n", CommonHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_HEADER_SIZE: %d\n", LeafNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_CELL_SIZE: %d\n", LeafNodeCellSize)
	fmt.Fprintf(w, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", LeafNodeSpaceForCells)
	fmt.Fprintf(w, "LEAF_NODE_MAX_CELLS: %d\n", LeafNodeMaxCells)
	fmt.Fprintf(w, "INTERNAL_NODE_HEADER_SIZE: %d\n", InternalNodeHeaderSize)
	fmt.Fprintf(w, "INTERNAL_NODE_CELL_SIZE: %d\n", InternalNodeCellSize)
	fmt.Fprintf(w, "INTERNAL_NODE_MAX_KEYS: %d\n", InternalNodeMaxKeys)
}

// LeafKeys returns keys stored in a leaf page.
func (t *Table) LeafKeys(ctx context.Context, pageIdx PageIndex) ([]uint32, error) {
	aPage, err := t.pager.GetPage(ctx, pageIdx)
	if err != nil {
		return nil, err
	}
	if aPage.IsInternal() {
		return nil, fmt.Errorf("page %d is not a leaf node", pageIdx)
	}
	return aPage.LeafNode().Keys(), nil
}

// PrintTree writes the tree depth first, children are indented under their parent.
func (t *Table) PrintTree(ctx context.Context, w io.Writer) error {
	return t.printNode(ctx, w, t.RootPageIdx, 0)
}

func (t *Table) printNode(ctx context.Context, w io.Writer, pageIdx PageIndex, level int) error {
	aPage, err := t.pager.GetPage(ctx, pageIdx)
	if err != nil {
		return err
	}

	indent := strings.Repeat("  ", level)
	if aPage.IsLeaf() {
		keys := aPage.LeafNode().Keys()
		fmt.Fprintf(w, "%s- leaf (size %d)\n", indent, len(keys))
		for _, key := range keys {
			fmt.Fprintf(w, "%s  - %d\n", indent, key)
		}
		return nil
	}

	node := aPage.InternalNode()
	fmt.Fprintf(w, "%s- internal (size %d)\n", indent, node.KeysNum())
	for idx := range node.KeysNum() {
		childIdx, err := node.Child(idx)
		if err != nil {
			return err
		}
		if err := t.printNode(ctx, w, childIdx, level+1); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s  - key %d\n", indent, node.Key(idx))
	}
	return t.printNode(ctx, w, node.RightChild(), level+1)
}

type callback func(aPage *Page)

// BFS visits all pages of the tree level by level starting at the root.
func (t *Table) BFS(ctx context.Context, f callback) error {
	rootPage, err := t.pager.GetPage(ctx, t.RootPageIdx)
	if err != nil {
		return err
	}

	// Create a queue and enqueue the root node
	queue := make([]*Page, 0, 1)
	queue = append(queue, rootPage)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		f(current)

		if current.IsLeaf() {
			continue
		}
		for _, childIdx := range current.InternalNode().Children() {
			aPage, err := t.pager.GetPage(ctx, childIdx)
			if err != nil {
				return err
			}
			queue = append(queue, aPage)
		}
	}

	return nil
}
