package inode

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonufs/nufs/blockdev"
	"github.com/gonufs/nufs/common"
	"github.com/gonufs/nufs/nufserr"
)

func newTable(t *testing.T) (*Table, *blockdev.Device) {
	t.Helper()
	dev, err := blockdev.Open(filepath.Join(t.TempDir(), "test.img"))
	require.NoError(t, err)
	t.Cleanup(func() { dev.Close() })
	return Load(dev, 1000), dev
}

func TestLoadBootstrapsRoot(t *testing.T) {
	table, _ := newTable(t)
	root := table.Lookup("/")
	require.NotNil(t, root)
	assert.True(t, root.IsDir())
	assert.Equal(t, 1, table.Count())
}

func TestCanonicalizeTrimsTrailingSlashes(t *testing.T) {
	assert.Equal(t, "/", Canonicalize("/"))
	assert.Equal(t, "/a", Canonicalize("/a/"))
	assert.Equal(t, "/a/b", Canonicalize("/a/b///"))
}

func TestCreateAndLookup(t *testing.T) {
	table, _ := newTable(t)
	ip, err := table.Create("/foo", common.ModeRegular|0644, 1000)
	require.NoError(t, err)
	assert.Equal(t, "/foo", ip.Path)
	assert.Equal(t, uint64(0), ip.Size)

	found := table.Lookup("/foo")
	require.NotNil(t, found)
	assert.Equal(t, "/foo", found.Path)
}

func TestCreateNameTooLong(t *testing.T) {
	table, _ := newTable(t)
	longPath := "/" + strings.Repeat("a", common.MaxPathLen)
	_, err := table.Create(longPath, common.ModeRegular, 1000)
	assert.Equal(t, nufserr.ENAMETOOLONG, err)
}

func TestCreateTableFull(t *testing.T) {
	table, _ := newTable(t)
	// root already occupies one slot.
	for i := 0; i < common.MaxFiles-1; i++ {
		_, err := table.Create("/f"+strconv.Itoa(i), common.ModeRegular, 1000)
		require.NoError(t, err)
	}
	_, err := table.Create("/one-too-many", common.ModeRegular, 1000)
	assert.Equal(t, nufserr.ENOSPC, err)
}

func TestChildrenOfRoot(t *testing.T) {
	table, _ := newTable(t)
	_, err := table.Create("/d", common.ModeDirectory|0755, 1000)
	require.NoError(t, err)
	_, err = table.Create("/d/f", common.ModeRegular, 1000)
	require.NoError(t, err)
	_, err = table.Create("/top", common.ModeRegular, 1000)
	require.NoError(t, err)

	children := table.ChildrenOf("/")
	assert.ElementsMatch(t, []string{"d", "top"}, children)

	nested := table.ChildrenOf("/d")
	assert.ElementsMatch(t, []string{"f"}, nested)
}

func TestAddBlockGrowsBlockMap(t *testing.T) {
	table, _ := newTable(t)
	ip, err := table.Create("/f", common.ModeRegular, 1000)
	require.NoError(t, err)

	bn, err := table.AddBlock(ip)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, int(bn), common.FirstDataBlock)
	assert.Equal(t, uint32(1), ip.BlockCount)
}

func TestAddBlockExhaustsPerFileLimit(t *testing.T) {
	table, _ := newTable(t)
	ip, err := table.Create("/f", common.ModeRegular, 1000)
	require.NoError(t, err)
	for i := 0; i < common.MaxBlocksPerFile; i++ {
		_, err := table.AddBlock(ip)
		require.NoError(t, err)
	}
	_, err = table.AddBlock(ip)
	assert.Equal(t, nufserr.ENOSPC, err)
}

func TestRemoveCompactsTable(t *testing.T) {
	table, _ := newTable(t)
	a, err := table.Create("/a", common.ModeRegular, 1000)
	require.NoError(t, err)
	_, err = table.AddBlock(a)
	require.NoError(t, err)
	_, err = table.Create("/b", common.ModeRegular, 1000)
	require.NoError(t, err)

	table.Remove(a)

	// Compaction moves /b into a's old slot, so it is looked up again
	// rather than read through the pointer Create returned.
	assert.Nil(t, table.Lookup("/a"))
	stillThere := table.Lookup("/b")
	require.NotNil(t, stillThere)
	assert.Equal(t, "/b", stillThere.Path)
	assert.Equal(t, 2, table.Count()) // root + /b
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ip := &Inode{Path: "/round/trip", Size: 4097, BlockCount: 2, Mode: common.ModeRegular | 0644,
		Atime: 10, Mtime: 20, Ctime: 30}
	ip.Blocks[0] = 28
	ip.Blocks[1] = 29

	decoded := Decode(ip.Encode())
	assert.Equal(t, ip.Path, decoded.Path)
	assert.Equal(t, ip.Size, decoded.Size)
	assert.Equal(t, ip.BlockCount, decoded.BlockCount)
	assert.Equal(t, ip.Mode, decoded.Mode)
	assert.Equal(t, ip.Blocks[0], decoded.Blocks[0])
	assert.Equal(t, ip.Blocks[1], decoded.Blocks[1])
	assert.Equal(t, ip.Atime, decoded.Atime)
}

func TestReloadAfterSavePreservesState(t *testing.T) {
	table, dev := newTable(t)
	_, err := table.Create("/a", common.ModeRegular, 1000)
	require.NoError(t, err)

	reloaded := Load(dev, 1001)
	assert.Equal(t, table.Count(), reloaded.Count())
	assert.NotNil(t, reloaded.Lookup("/a"))
}
