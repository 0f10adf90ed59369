package btree

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dzhang/citegraph/internal/pager"
	"github.com/dzhang/citegraph/internal/record"
	"github.com/dzhang/citegraph/internal/xerrors"
)

func openPager(t *testing.T, mode pager.Mode) *pager.Pager {
	t.Helper()
	dir := t.TempDir()
	p, err := pager.Open(filepath.Join(dir, "t.key"), filepath.Join(dir, "t.val"), filepath.Join(dir, "t.meta"), mode)
	require.NoError(t, err)
	return p
}

func openPagerAt(t *testing.T, dir string, mode pager.Mode) *pager.Pager {
	t.Helper()
	p, err := pager.Open(filepath.Join(dir, "t.key"), filepath.Join(dir, "t.val"), filepath.Join(dir, "t.meta"), mode)
	require.NoError(t, err)
	return p
}

func TestInsertAndFindSimple(t *testing.T) {
	p := openPager(t, pager.CreateNew)
	defer p.Close()

	tree, err := NewTree[record.TestRecord](p, record.TestCodec{})
	require.NoError(t, err)

	want := record.NewTestRecord(56, "hello", 1)
	require.NoError(t, tree.Insert(1, want))

	got, err := tree.Find(1)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFindMissingKeyReturnsNotFound(t *testing.T) {
	p := openPager(t, pager.CreateNew)
	defer p.Close()

	tree, err := NewTree[record.TestRecord](p, record.TestCodec{})
	require.NoError(t, err)
	require.NoError(t, tree.Insert(1, record.NewTestRecord(1, "a", 1)))

	_, err = tree.Find(999)
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestInsertOverwriteLastWriteWins(t *testing.T) {
	p := openPager(t, pager.CreateNew)
	defer p.Close()

	tree, err := NewTree[record.TestRecord](p, record.TestCodec{})
	require.NoError(t, err)

	require.NoError(t, tree.Insert(5, record.NewTestRecord(1, "first", 5)))
	require.NoError(t, tree.Insert(5, record.NewTestRecord(2, "second", 5)))

	got, err := tree.Find(5)
	require.NoError(t, err)
	require.Equal(t, "second", got.Str)
	require.Equal(t, uint32(1), tree.NumEntries())
}

func TestBulkInsertAndLookupCausesSplits(t *testing.T) {
	p := openPager(t, pager.CreateNew)
	defer p.Close()

	tree, err := NewTree[record.TestRecord](p, record.TestCodec{})
	require.NoError(t, err)

	const n = 10000
	keys := rand.New(rand.NewSource(7)).Perm(n)
	for _, k := range keys {
		require.NoError(t, tree.Insert(int64(k), record.NewTestRecord(int32(k), fmt.Sprintf("s%d", k), int64(k))))
	}
	require.Equal(t, uint32(n), tree.NumEntries())

	for _, k := range keys {
		got, err := tree.Find(int64(k))
		require.NoError(t, err)
		require.Equal(t, int64(k), got.ID)
		require.Equal(t, fmt.Sprintf("s%d", k), got.Str)
	}
}

// TestValuePagesArePacked confirms records are packed many-per-page rather
// than one-per-page: 10 000 24-byte TestRecords must fit in far fewer than
// 10 000 value pages.
func TestValuePagesArePacked(t *testing.T) {
	p := openPager(t, pager.CreateNew)
	defer p.Close()

	tree, err := NewTree[record.TestRecord](p, record.TestCodec{})
	require.NoError(t, err)

	const n = 10000
	for i := int64(0); i < n; i++ {
		require.NoError(t, tree.Insert(i, record.NewTestRecord(int32(i), "x", i)))
	}

	capacity := tree.valueCapacity()
	require.Greater(t, capacity, 1)
	require.LessOrEqual(t, p.NumValuePages, uint32(n/capacity)+1)
}

func TestFindIDByNameLinearScan(t *testing.T) {
	p := openPager(t, pager.CreateNew)
	defer p.Close()

	tree, err := NewTree[record.TestRecord](p, record.TestCodec{})
	require.NoError(t, err)

	for i := int64(0); i < 500; i++ {
		require.NoError(t, tree.Insert(i, record.NewTestRecord(int32(i), fmt.Sprintf("name%d", i), i)))
	}

	id, err := tree.FindIDByName(record.QueryTestRecord(417))
	require.NoError(t, err)
	require.Equal(t, int64(417), id)

	_, err = tree.FindIDByName(record.QueryTestRecord(-1))
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

// TestScenarioSimpleInsertFind is concrete scenario 1: TestRecord(x=56,
// str="simple test", id=199); insert key 199; find(199).x == 56;
// find_id_by_name(query(x=56)) == 199; find(-1).id == -1; overwrite with
// x=77; find(199).x == 77.
func TestScenarioSimpleInsertFind(t *testing.T) {
	p := openPager(t, pager.CreateNew)
	defer p.Close()

	tree, err := NewTree[record.TestRecord](p, record.TestCodec{})
	require.NoError(t, err)

	require.NoError(t, tree.Insert(199, record.NewTestRecord(56, "simple test", 199)))

	got, err := tree.Find(199)
	require.NoError(t, err)
	require.Equal(t, int32(56), got.X)

	id, err := tree.FindIDByName(record.QueryTestRecord(56))
	require.NoError(t, err)
	require.Equal(t, int64(199), id)

	absent, err := tree.Find(-1)
	require.ErrorIs(t, err, xerrors.ErrNotFound)
	require.Equal(t, int64(-1), absent.ID)

	require.NoError(t, tree.Insert(199, record.NewTestRecord(77, "simple test", 199)))
	got, err = tree.Find(199)
	require.NoError(t, err)
	require.Equal(t, int32(77), got.X)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	p := openPagerAt(t, dir, pager.CreateNew)

	tree, err := NewTree[record.TestRecord](p, record.TestCodec{})
	require.NoError(t, err)
	for i := int64(0); i < 2000; i++ {
		require.NoError(t, tree.Insert(i, record.NewTestRecord(int32(i), fmt.Sprintf("v%d", i), i)))
	}
	require.NoError(t, p.Close())

	p2 := openPagerAt(t, dir, pager.ReadOnly)
	defer p2.Close()
	tree2, err := NewTree[record.TestRecord](p2, record.TestCodec{})
	require.NoError(t, err)

	require.Equal(t, uint32(2000), tree2.NumEntries())
	for _, k := range []int64{0, 1, 999, 1999} {
		got, err := tree2.Find(k)
		require.NoError(t, err)
		require.Equal(t, k, got.ID)
	}
}
