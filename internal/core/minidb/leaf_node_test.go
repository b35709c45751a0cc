package minidb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafNode_Constants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 293, RowSize)
	assert.Equal(t, 6, CommonHeaderSize)
	assert.Equal(t, 10, LeafNodeHeaderSize)
	assert.Equal(t, 297, LeafNodeCellSize)
	assert.Equal(t, 4086, LeafNodeSpaceForCells)
	assert.Equal(t, 13, LeafNodeMaxCells)
	assert.Equal(t, 7, LeafNodeRightSplitCount)
	assert.Equal(t, 7, LeafNodeLeftSplitCount)
}

func TestLeafNode_InitLeaf(t *testing.T) {
	t.Parallel()

	aPage := NewPage(0)
	for i := range aPage.Bytes() {
		aPage.Bytes()[i] = 0xff
	}

	aPage.LeafNode().InitLeaf()

	assert.True(t, aPage.IsLeaf())
	assert.False(t, aPage.IsRoot())
	assert.Equal(t, PageIndex(0), aPage.Parent())
	assert.Equal(t, uint32(0), aPage.LeafNode().Cells())
	assert.Equal(t, make([]byte, PageSize), aPage.Bytes())
}

func TestLeafNode_InsertCell(t *testing.T) {
	t.Parallel()

	var (
		aPage = NewPage(0)
		leaf  = aPage.LeafNode()
	)
	leaf.InitLeaf()

	for _, id := range []uint32{5, 1, 3, 4, 2} {
		cellIdx, found := leaf.Search(id)
		require.False(t, found)
		require.NoError(t, leaf.InsertCell(cellIdx, gen.Row(id)))
	}

	assert.Equal(t, uint32(5), leaf.Cells())
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, leaf.Keys())

	maxKey, ok := leaf.MaxKey()
	require.True(t, ok)
	assert.Equal(t, uint32(5), maxKey)

	for idx := range leaf.Cells() {
		var aRow Row
		require.NoError(t, UnmarshalRow(leaf.Value(idx), &aRow))
		assert.Equal(t, leaf.Key(idx), aRow.ID)
	}
}

func TestLeafNode_Layout(t *testing.T) {
	t.Parallel()

	var (
		aPage = NewPage(0)
		leaf  = aPage.LeafNode()
	)
	leaf.InitLeaf()
	aPage.SetRoot(true)
	aPage.SetParent(7)
	require.NoError(t, leaf.InsertCell(0, Row{ID: 0x01020304, Name: "a", Email: "b"}))

	buf := aPage.Bytes()
	assert.Equal(t, []byte{0, 1, 7, 0, 0, 0}, buf[0:6])
	assert.Equal(t, []byte{1, 0, 0, 0}, buf[6:10])
	assert.Equal(t, []byte{4, 3, 2, 1}, buf[10:14])
	assert.Equal(t, []byte{4, 3, 2, 1}, buf[14:18])
	assert.Equal(t, byte('a'), buf[18])
	assert.Equal(t, byte('b'), buf[14+emailOffset])
}

func TestLeafNode_Search(t *testing.T) {
	t.Parallel()

	var (
		aPage = NewPage(0)
		leaf  = aPage.LeafNode()
	)
	leaf.InitLeaf()

	cellIdx, found := leaf.Search(10)
	assert.False(t, found)
	assert.Equal(t, uint32(0), cellIdx)

	for idx, id := range []uint32{10, 20, 30} {
		require.NoError(t, leaf.InsertCell(uint32(idx), gen.Row(id)))
	}

	testCases := []struct {
		Key     uint32
		CellIdx uint32
		Found   bool
	}{
		{5, 0, false},
		{10, 0, true},
		{15, 1, false},
		{20, 1, true},
		{30, 2, true},
		{35, 3, false},
	}

	for _, aTestCase := range testCases {
		cellIdx, found := leaf.Search(aTestCase.Key)
		assert.Equal(t, aTestCase.Found, found, "key %d", aTestCase.Key)
		assert.Equal(t, aTestCase.CellIdx, cellIdx, "key %d", aTestCase.Key)
	}
}

func TestLeafNode_IsFull(t *testing.T) {
	t.Parallel()

	var (
		aPage = NewPage(0)
		leaf  = aPage.LeafNode()
	)
	leaf.InitLeaf()

	_, ok := leaf.MaxKey()
	assert.False(t, ok)

	for idx := range uint32(LeafNodeMaxCells) {
		assert.False(t, leaf.IsFull())
		require.NoError(t, leaf.InsertCell(idx, gen.Row(idx+1)))
	}
	assert.True(t, leaf.IsFull())
}
