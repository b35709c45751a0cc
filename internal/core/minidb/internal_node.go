package minidb

import (
	"fmt"
)

const (
	internalNodeKeysNumOffset    = CommonHeaderSize
	internalNodeRightChildOffset = internalNodeKeysNumOffset + 4
	InternalNodeHeaderSize       = internalNodeRightChildOffset + 4

	internalNodeChildSize = 4
	internalNodeKeySize   = 4
	InternalNodeCellSize  = internalNodeChildSize + internalNodeKeySize
	InternalNodeMaxKeys   = (PageSize - InternalNodeHeaderSize) / InternalNodeCellSize
)

// InternalNode is a view over a page holding separator keys and child pointers.
// Child i covers keys smaller than key i, the right child covers keys greater
// than or equal to the last key.
type InternalNode struct {
	buf []byte
}

// InitInternal formats the page as an internal node with no keys.
func (n InternalNode) InitInternal() {
	clear(n.buf)
	n.buf[nodeKindOffset] = nodeKindInternal
	n.buf[nodeIsRootOffset] = nodeFlagNotSet
}

func (n InternalNode) KeysNum() uint32 {
	return unmarshalUint32(n.buf, internalNodeKeysNumOffset)
}

func (n InternalNode) SetKeysNum(keysNum uint32) {
	marshalUint32(n.buf, keysNum, internalNodeKeysNumOffset)
}

func (n InternalNode) RightChild() PageIndex {
	return PageIndex(unmarshalUint32(n.buf, internalNodeRightChildOffset))
}

func (n InternalNode) SetRightChild(pageIdx PageIndex) {
	marshalUint32(n.buf, uint32(pageIdx), internalNodeRightChildOffset)
}

func icellOffset(idx uint32) uint64 {
	return InternalNodeHeaderSize + uint64(idx)*InternalNodeCellSize
}

func (n InternalNode) Key(idx uint32) uint32 {
	return unmarshalUint32(n.buf, icellOffset(idx)+internalNodeChildSize)
}

func (n InternalNode) SetKey(idx uint32, key uint32) {
	marshalUint32(n.buf, key, icellOffset(idx)+internalNodeChildSize)
}

// Child returns a page index of nth child of the node
// (0 for the leftmost child, index equal to number of keys means the rightmost child).
func (n InternalNode) Child(childIdx uint32) (PageIndex, error) {
	keysNum := n.KeysNum()
	if childIdx > keysNum {
		return 0, fmt.Errorf("childIdx %d out of keysNum %d", childIdx, keysNum)
	}

	if childIdx == keysNum {
		return n.RightChild(), nil
	}

	return PageIndex(unmarshalUint32(n.buf, icellOffset(childIdx))), nil
}

func (n InternalNode) SetChild(childIdx uint32, pageIdx PageIndex) error {
	keysNum := n.KeysNum()
	if childIdx > keysNum {
		return fmt.Errorf("childIdx %d out of keysNum %d", childIdx, keysNum)
	}

	if childIdx == keysNum {
		n.SetRightChild(pageIdx)
		return nil
	}

	marshalUint32(n.buf, uint32(pageIdx), icellOffset(childIdx))
	return nil
}

// IndexOfChild returns the index of the child which should contain the given key,
// that is the index of the first key strictly greater than the given key,
// or number of keys if there is no such key (the right child).
// The returned value is not a page index!
func (n InternalNode) IndexOfChild(key uint32) uint32 {
	var (
		minIdx = uint32(0)
		maxIdx = n.KeysNum()
	)
	for minIdx != maxIdx {
		idx := (minIdx + maxIdx) / 2
		if n.Key(idx) > key {
			maxIdx = idx
		} else {
			minIdx = idx + 1
		}
	}

	return minIdx
}

// IndexOfPage returns index of child pointing at the page.
func (n InternalNode) IndexOfPage(pageIdx PageIndex) (uint32, error) {
	keysNum := n.KeysNum()
	for idx := range keysNum + 1 {
		childIdx, err := n.Child(idx)
		if err != nil {
			return 0, err
		}
		if childIdx == pageIdx {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("page %d is not a child of the node", pageIdx)
}

// InsertCell shifts cells at and after idx one slot to the right and
// stores the (child, key) pair in the freed slot. Caller must check capacity.
func (n InternalNode) InsertCell(idx uint32, childIdx PageIndex, key uint32) {
	keysNum := n.KeysNum()
	if idx < keysNum {
		copy(n.buf[icellOffset(idx+1):icellOffset(keysNum+1)], n.buf[icellOffset(idx):icellOffset(keysNum)])
	}
	marshalUint32(n.buf, uint32(childIdx), icellOffset(idx))
	n.SetKey(idx, key)
	n.SetKeysNum(keysNum + 1)
}

func (n InternalNode) Keys() []uint32 {
	keysNum := n.KeysNum()
	keys := make([]uint32, 0, keysNum)
	for idx := range keysNum {
		keys = append(keys, n.Key(idx))
	}
	return keys
}

// Children returns page indexes of all children including the right child.
func (n InternalNode) Children() []PageIndex {
	keysNum := n.KeysNum()
	children := make([]PageIndex, 0, keysNum+1)
	for idx := range keysNum + 1 {
		childIdx, _ := n.Child(idx)
		children = append(children, childIdx)
	}
	return children
}

// reset rewrites the node with the given keys and children,
// len(children) must be len(keys)+1.
func (n InternalNode) reset(keys []uint32, children []PageIndex) {
	n.SetKeysNum(uint32(len(keys)))
	clear(n.buf[icellOffset(0):])
	for idx, key := range keys {
		marshalUint32(n.buf, uint32(children[idx]), icellOffset(uint32(idx)))
		n.SetKey(uint32(idx), key)
	}
	n.SetRightChild(children[len(children)-1])
}
