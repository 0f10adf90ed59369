package pager

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dzhang/citegraph/internal/xerrors"
)

func tempPaths(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "t.key"), filepath.Join(dir, "t.val"), filepath.Join(dir, "t.meta")
}

func TestOpenCreateNewEmpty(t *testing.T) {
	kp, vp, mp := tempPaths(t)
	p, err := Open(kp, vp, mp, CreateNew)
	require.NoError(t, err)
	defer p.Close()

	require.Equal(t, uint32(0), p.NumKeyPages)
	require.Equal(t, uint32(0), p.NumValuePages)
	require.Equal(t, uint32(0), p.NumEntries)
}

func TestGetPageOutOfBounds(t *testing.T) {
	kp, vp, mp := tempPaths(t)
	p, err := Open(kp, vp, mp, CreateNew)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.GetPage(0, Key)
	require.ErrorIs(t, err, xerrors.ErrOutOfBounds)
}

func TestAppendAndFlushPage(t *testing.T) {
	kp, vp, mp := tempPaths(t)
	p, err := Open(kp, vp, mp, CreateNew)
	require.NoError(t, err)

	num, err := p.AppendPage(Key)
	require.NoError(t, err)
	require.Equal(t, uint32(0), num)

	pg, err := p.GetPage(num, Key)
	require.NoError(t, err)
	require.True(t, pg.Dirty)

	pg.Data[0] = 0xAB
	pg.Data[PageSize-1] = 0xCD
	require.NoError(t, p.WritePage(num, Key))
	require.False(t, pg.Dirty)
	require.NoError(t, p.Close())

	// Reopen read-only and confirm the bytes landed on disk.
	p2, err := Open(kp, vp, mp, ReadOnly)
	require.NoError(t, err)
	defer p2.Close()

	pg2, err := p2.GetPage(num, Key)
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), pg2.Data[0])
	require.Equal(t, byte(0xCD), pg2.Data[PageSize-1])
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	kp, vp, mp := tempPaths(t)
	p, err := Open(kp, vp, mp, CreateNew)
	require.NoError(t, err)
	_, err = p.AppendPage(Key)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	p2, err := Open(kp, vp, mp, ReadOnly)
	require.NoError(t, err)
	defer p2.Close()

	_, err = p2.AppendPage(Key)
	require.Error(t, err)
	require.Error(t, p2.MarkDirty(0, Key))
}

func TestPersistenceAcrossReopen(t *testing.T) {
	kp, vp, mp := tempPaths(t)
	p, err := Open(kp, vp, mp, CreateNew)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		num, err := p.AppendPage(Value)
		require.NoError(t, err)
		pg, err := p.GetPage(num, Value)
		require.NoError(t, err)
		pg.Data[0] = byte(i)
	}
	p.NumEntries = 5
	p.KeyRoot = 3
	require.NoError(t, p.Close())

	p2, err := Open(kp, vp, mp, ReadWrite)
	require.NoError(t, err)
	defer p2.Close()

	require.Equal(t, uint32(5), p2.NumEntries)
	require.Equal(t, uint32(5), p2.NumValuePages)
	require.Equal(t, uint32(3), p2.KeyRoot)

	for i := 0; i < 5; i++ {
		pg, err := p2.GetPage(uint32(i), Value)
		require.NoError(t, err)
		require.Equal(t, byte(i), pg.Data[0])
	}
}
