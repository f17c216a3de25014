package blockdev

import (
	"fmt"

	"github.com/gonufs/nufs/common"
	"github.com/gonufs/nufs/nufserr"
	"github.com/gonufs/nufs/util"
)

// AllocBlock scans the free-block bitmap from FIRST_DATA_BLOCK upward
// and returns the lowest-numbered free block, zero-filled, setting its
// bit. This mirrors original_source/blocks.c's alloc_block: allocation
// order is deterministic, which is what spec.md §4.1 calls for to keep
// tests reproducible.
func (d *Device) AllocBlock() (common.Bnum, error) {
	for i := common.FirstDataBlock; i < common.BlockCount; i++ {
		if d.free.Get(i) != 0 {
			continue
		}
		d.free.Set(i, 1)
		blk := d.GetBlock(common.Bnum(i))
		for j := range blk {
			blk[j] = 0
		}
		util.DPrintf(2, "+ alloc_block() -> %d\n", i)
		return common.Bnum(i), nil
	}
	return common.NullBnum, nufserr.ENOSPC
}

// FreeBlock clears n's bit and zero-fills its region. Freeing an
// already-free block is a soft warning, not an error, per spec.md
// §4.1; a block number outside the data range is an error since it
// would either be a metadata block or nonsensical.
func (d *Device) FreeBlock(n common.Bnum) error {
	if n < common.FirstDataBlock || int(n) >= common.BlockCount {
		return fmt.Errorf("blockdev: FreeBlock: invalid block number %d", n)
	}
	if d.free.Get(int(n)) == 0 {
		util.DPrintf(1, "blockdev: FreeBlock: block %d is already free\n", n)
		return nil
	}
	d.free.Set(int(n), 0)
	blk := d.GetBlock(n)
	for j := range blk {
		blk[j] = 0
	}
	util.DPrintf(2, "+ free_block(%d)\n", n)
	return nil
}
