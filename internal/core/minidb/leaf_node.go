package minidb

const (
	leafNodeCellsOffset = CommonHeaderSize
	LeafNodeHeaderSize  = CommonHeaderSize + 4

	leafNodeKeySize       = 4
	leafNodeValueOffset   = leafNodeKeySize
	LeafNodeCellSize      = leafNodeKeySize + RowSize
	LeafNodeSpaceForCells = PageSize - LeafNodeHeaderSize
	LeafNodeMaxCells      = LeafNodeSpaceForCells / LeafNodeCellSize

	// All existing keys plus the new key are divided between
	// the old (left) and new (right) nodes, extra key goes right.
	LeafNodeRightSplitCount = (LeafNodeMaxCells + 2) / 2
	LeafNodeLeftSplitCount  = LeafNodeMaxCells + 1 - LeafNodeRightSplitCount
)

// LeafNode is a view over a page holding a sorted array of (key, row) cells.
type LeafNode struct {
	buf []byte
}

// InitLeaf formats the page as an empty non root leaf.
func (n LeafNode) InitLeaf() {
	clear(n.buf)
	n.buf[nodeKindOffset] = nodeKindLeaf
	n.buf[nodeIsRootOffset] = nodeFlagNotSet
}

func (n LeafNode) Cells() uint32 {
	return unmarshalUint32(n.buf, leafNodeCellsOffset)
}

func (n LeafNode) SetCells(cells uint32) {
	marshalUint32(n.buf, cells, leafNodeCellsOffset)
}

func cellOffset(cellIdx uint32) uint64 {
	return LeafNodeHeaderSize + uint64(cellIdx)*LeafNodeCellSize
}

// Cell returns raw bytes of a cell, key followed by the serialized row.
func (n LeafNode) Cell(cellIdx uint32) []byte {
	offset := cellOffset(cellIdx)
	return n.buf[offset : offset+LeafNodeCellSize]
}

func (n LeafNode) Key(cellIdx uint32) uint32 {
	return unmarshalUint32(n.buf, cellOffset(cellIdx))
}

func (n LeafNode) SetKey(cellIdx uint32, key uint32) {
	marshalUint32(n.buf, key, cellOffset(cellIdx))
}

// Value returns the row slot of a cell.
func (n LeafNode) Value(cellIdx uint32) []byte {
	offset := cellOffset(cellIdx) + leafNodeValueOffset
	return n.buf[offset : offset+RowSize]
}

func (n LeafNode) saveCell(cellIdx uint32, aRow Row) error {
	if err := aRow.Marshal(n.Value(cellIdx)); err != nil {
		return err
	}
	n.SetKey(cellIdx, aRow.Key())
	return nil
}

// InsertCell shifts cells at and after cellIdx one slot to the right
// and writes the row into the freed slot. Caller must check capacity.
func (n LeafNode) InsertCell(cellIdx uint32, aRow Row) error {
	cells := n.Cells()
	if cellIdx < cells {
		copy(n.buf[cellOffset(cellIdx+1):cellOffset(cells+1)], n.buf[cellOffset(cellIdx):cellOffset(cells)])
	}
	if err := n.saveCell(cellIdx, aRow); err != nil {
		return err
	}
	n.SetCells(cells + 1)
	return nil
}

func (n LeafNode) Keys() []uint32 {
	cells := n.Cells()
	keys := make([]uint32, 0, cells)
	for idx := range cells {
		keys = append(keys, n.Key(idx))
	}
	return keys
}

func (n LeafNode) MaxKey() (uint32, bool) {
	cells := n.Cells()
	if cells == 0 {
		return 0, false
	}
	return n.Key(cells - 1), true
}

func (n LeafNode) IsFull() bool {
	return n.Cells() >= LeafNodeMaxCells
}

// Search returns index of cell holding the key or index where the key
// should be inserted, found flag tells which one it is.
func (n LeafNode) Search(key uint32) (uint32, bool) {
	var (
		minIdx uint32
		maxIdx = n.Cells()
	)
	for maxIdx != minIdx {
		idx := (minIdx + maxIdx) / 2
		keyAtIdx := n.Key(idx)
		if key == keyAtIdx {
			return idx, true
		}
		if key < keyAtIdx {
			maxIdx = idx
		} else {
			minIdx = idx + 1
		}
	}

	return minIdx, false
}
