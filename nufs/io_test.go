package nufs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonufs/nufs/common"
	"github.com/gonufs/nufs/nufserr"
)

func TestWriteSpanningTwoBlocks(t *testing.T) {
	fs := mount(t)
	_, err := fs.Mknod("/f", common.ModeRegular)
	require.NoError(t, err)

	data := bytes.Repeat([]byte{'A'}, 4097)
	n, err := fs.Write("/f", data, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(4097), n)

	ip := fs.table.Lookup("/f")
	require.NotNil(t, ip)
	assert.Equal(t, uint32(2), ip.BlockCount)
	assert.Equal(t, uint64(4097), ip.Size)

	buf := make([]byte, 4097)
	n, err = fs.Read("/f", buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(4097), n)
	assert.Equal(t, byte('A'), buf[4095])
	assert.Equal(t, byte('A'), buf[4096])
}

func TestWriteFillsAllBlocksThenENOSPCOrShortWrite(t *testing.T) {
	fs := mount(t)
	_, err := fs.Mknod("/f", common.ModeRegular)
	require.NoError(t, err)

	full := bytes.Repeat([]byte{'B'}, common.MaxBlocksPerFile*common.BlockSize)
	n, err := fs.Write("/f", full, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(full)), n)

	attr, err := fs.Getattr("/f")
	require.NoError(t, err)
	assert.Equal(t, uint64(len(full)), attr.Size)

	n2, err := fs.Write("/f", []byte("overflow"), uint64(len(full)))
	if err != nil {
		assert.Equal(t, nufserr.ENOSPC, err)
		assert.Equal(t, uint64(0), n2)
	} else {
		assert.Less(t, n2, uint64(len("overflow")))
	}
}

func TestReadPastEOFReturnsZero(t *testing.T) {
	fs := mount(t)
	_, err := fs.Mknod("/f", common.ModeRegular)
	require.NoError(t, err)
	_, err = fs.Write("/f", []byte("hi"), 0)
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := fs.Read("/f", buf, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
}

func TestReadOnDirectoryIsEISDIR(t *testing.T) {
	fs := mount(t)
	require.NoError(t, mkdirT(fs, "/d"))
	buf := make([]byte, 1)
	_, err := fs.Read("/d", buf, 0)
	assert.Equal(t, nufserr.EISDIR, err)
}

func TestWriteOnDirectoryIsEISDIR(t *testing.T) {
	fs := mount(t)
	require.NoError(t, mkdirT(fs, "/d"))
	_, err := fs.Write("/d", []byte("x"), 0)
	assert.Equal(t, nufserr.EISDIR, err)
}

func TestWriteAtOffsetGrowsSizeButNotBelowExisting(t *testing.T) {
	fs := mount(t)
	_, err := fs.Mknod("/f", common.ModeRegular)
	require.NoError(t, err)
	_, err = fs.Write("/f", []byte("hello world"), 0)
	require.NoError(t, err)

	n, err := fs.Write("/f", []byte("X"), 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	attr, err := fs.Getattr("/f")
	require.NoError(t, err)
	assert.Equal(t, uint64(11), attr.Size)
}
