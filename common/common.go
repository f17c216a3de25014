// Package common holds the on-disk layout constants shared by the
// blockdev, inode, and nufs packages, the way the teacher's common
// package holds constants shared across bcache/super/inode.
package common

import "syscall"

const (
	// BlockSize is the size in bytes of one disk block.
	BlockSize = 4096
	// BlockCount is the number of blocks in the image file.
	BlockCount = 256
	// NufsSize is the exact size, in bytes, of a valid image file.
	NufsSize = BlockSize * BlockCount

	// BitmapBlock holds the free-block bitmap (and, unused, the
	// free-inode bitmap after it).
	BitmapBlock = 0
	// InodeHeaderBlock holds the inode_count header.
	InodeHeaderBlock = 1
	// FirstInodeBlock and LastInodeBlock bound the packed inode records.
	FirstInodeBlock = 2
	LastInodeBlock  = 27
	// FirstDataBlock is the lowest block number the allocator will
	// ever hand out; blocks below it are reserved for metadata.
	FirstDataBlock = 28

	// MaxFiles is the maximum number of inhabited inode slots.
	MaxFiles = 128
	// MaxBlocksPerFile is the maximum number of data blocks one inode
	// may reference.
	MaxBlocksPerFile = 128
	// MaxPathLen is the inode path field's capacity, NUL terminator
	// included; the longest representable path is MaxPathLen-1 bytes.
	MaxPathLen = 256

	// InodeSize is the fixed, field-by-field-encoded size of one
	// on-disk inode record (path + size + block_count + blocks +
	// mode + 3 timestamps).
	InodeSize = MaxPathLen + 8 + 4 + MaxBlocksPerFile*4 + 4 + 8 + 8 + 8
	// InodesPerBlock is how many packed inode records fit in one block.
	InodesPerBlock = BlockSize / InodeSize
)

// Bnum is a block number. It is signed, matching spec.md's "signed
// block numbers"; slots of an inode's block map at or past its
// BlockCount are left 0 and are never read.
type Bnum int32

// NullBnum is the "no block" value AllocBlock and AddBlock return
// alongside an error.
const NullBnum Bnum = -1

// Mode bits, reproduced from the POSIX S_IFREG/S_IFDIR/S_IFMT constants
// (golang.org/x/sys and the syscall package both define equivalents;
// named here so callers don't need to import syscall just for these).
const (
	ModeRegular   uint32 = syscall.S_IFREG
	ModeDirectory uint32 = syscall.S_IFDIR
	ModeTypeMask  uint32 = syscall.S_IFMT
)
