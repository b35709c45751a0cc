package minidb

import (
	"cmp"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RichardKnop/minidb/internal/pkg/logging"
)

//go:generate mockery --name=Pager --structname=MockPager --inpackage --case=snake --testonly

var (
	gen = newDataGen(uint64(time.Now().Unix()))

	testLogger *zap.Logger
)

func init() {
	var err error
	testLogger, err = logging.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
}

type dataGen struct {
	*gofakeit.Faker
}

func newDataGen(seed uint64) *dataGen {
	g := dataGen{
		Faker: gofakeit.New(seed),
	}

	return &g
}

func (g *dataGen) Row(id uint32) Row {
	name := g.Username()
	if len(name) > NameMaxLength {
		name = name[:NameMaxLength]
	}
	return Row{
		ID:    id,
		Name:  name,
		Email: g.Email(),
	}
}

// Rows returns rows with IDs 1..n in random order.
func (g *dataGen) Rows(n int) []Row {
	ids := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, i)
	}
	g.ShuffleInts(ids)

	rows := make([]Row, 0, n)
	for _, id := range ids {
		rows = append(rows, g.Row(uint32(id)))
	}
	return rows
}

func testDBPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "testdb")
}

func openTestTable(t *testing.T, path string, opts ...TableOption) *Table {
	aTable, err := Open(context.Background(), testLogger, path, opts...)
	require.NoError(t, err)
	return aTable
}

func insertRows(ctx context.Context, t *testing.T, aTable *Table, rows []Row) {
	for _, aRow := range rows {
		require.NoError(t, aTable.Insert(ctx, aRow))
	}
}

// checkRows selects all rows and compares them to expected rows sorted by ID.
func checkRows(ctx context.Context, t *testing.T, aTable *Table, expected []Row) {
	sorted := make([]Row, len(expected))
	copy(sorted, expected)
	sortRows(sorted)

	actual, err := aTable.Select(ctx)
	require.NoError(t, err)
	if len(sorted) == 0 {
		assert.Empty(t, actual)
		return
	}
	assert.Equal(t, sorted, actual)
}

func sortRows(rows []Row) {
	slices.SortFunc(rows, func(a, b Row) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

// checkTree verifies structural invariants: keys are strictly increasing in
// every node, every child points back to its parent and all keys of a subtree
// are within bounds set by separators of its ancestors.
func checkTree(ctx context.Context, t *testing.T, aTable *Table) {
	var walk func(pageIdx PageIndex, parentIdx PageIndex, isRoot bool, lower, upper int64)
	walk = func(pageIdx PageIndex, parentIdx PageIndex, isRoot bool, lower, upper int64) {
		aPage, err := aTable.pager.GetPage(ctx, pageIdx)
		require.NoError(t, err)

		assert.Equal(t, isRoot, aPage.IsRoot(), "page %d root flag", pageIdx)
		if !isRoot {
			assert.Equal(t, parentIdx, aPage.Parent(), "page %d parent", pageIdx)
		}

		var keys []uint32
		if aPage.IsLeaf() {
			keys = aPage.LeafNode().Keys()
		} else {
			keys = aPage.InternalNode().Keys()
		}
		for i, key := range keys {
			if i > 0 {
				assert.Less(t, keys[i-1], key, "page %d keys not sorted", pageIdx)
			}
			assert.GreaterOrEqual(t, int64(key), lower, "page %d key below lower bound", pageIdx)
			assert.Less(t, int64(key), upper, "page %d key above upper bound", pageIdx)
		}

		if aPage.IsLeaf() {
			return
		}

		node := aPage.InternalNode()
		childLower := lower
		for idx := range node.KeysNum() + 1 {
			childIdx, err := node.Child(idx)
			require.NoError(t, err)
			childUpper := upper
			if idx < node.KeysNum() {
				childUpper = int64(node.Key(idx))
			}
			walk(childIdx, pageIdx, false, childLower, childUpper)
			childLower = childUpper
		}
	}

	walk(aTable.RootPageIdx, 0, true, 0, int64(1)<<33)
}

func treeHeight(ctx context.Context, t *testing.T, aTable *Table) int {
	height := 1
	pageIdx := aTable.RootPageIdx
	for {
		aPage, err := aTable.pager.GetPage(ctx, pageIdx)
		require.NoError(t, err)
		if aPage.IsLeaf() {
			return height
		}
		pageIdx, err = aPage.InternalNode().Child(0)
		require.NoError(t, err)
		height += 1
	}
}
