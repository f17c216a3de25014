package nufs

import (
	"time"

	"github.com/gonufs/nufs/common"
	"github.com/gonufs/nufs/nufserr"
	"github.com/gonufs/nufs/util"
	"github.com/gonufs/nufs/util/stats"
)

// Write copies buf into path's file starting at offset, allocating
// blocks lazily as the block map grows, per spec.md §4.6. A write
// past the end of the block map first allocates every block between
// the current end and the target. It returns the number of bytes
// actually written, which is less than len(buf) only when no further
// block can be added mid-write (the block device is full or the file
// already holds MaxBlocksPerFile blocks).
func (fs *Filesystem) Write(path string, buf []byte, offset uint64) (uint64, error) {
	util.DPrintf(1, "write %s %d bytes at %d\n", path, len(buf), offset)
	defer fs.Stats.Record(stats.OpWrite, time.Now())
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ip := fs.table.Lookup(path)
	if ip == nil {
		return 0, nufserr.ENOENT
	}
	if ip.IsDir() {
		return 0, nufserr.EISDIR
	}

	size := uint64(len(buf))
	var done uint64
writeLoop:
	for done < size {
		blockIndex := (offset + done) / common.BlockSize
		blockOffset := (offset + done) % common.BlockSize
		chunk := util.Min(size-done, common.BlockSize-blockOffset)

		for blockIndex >= uint64(ip.BlockCount) {
			if _, err := fs.table.AddBlock(ip); err != nil {
				if done > 0 {
					break writeLoop
				}
				return 0, err
			}
		}

		blk := fs.dev.GetBlock(ip.Blocks[blockIndex])
		if blk == nil {
			if done > 0 {
				break
			}
			return 0, nufserr.EIO
		}
		copy(blk[blockOffset:blockOffset+chunk], buf[done:done+chunk])
		done += chunk
	}

	now := nowFn()
	if offset+done > ip.Size {
		ip.Size = offset + done
	}
	ip.Mtime = now
	ip.Ctime = now
	fs.table.Save()
	return done, nil
}

// Read copies up to len(buf) bytes from path's file starting at
// offset into buf, stopping early (a short read) if the block map
// ends before buf is full, per spec.md §4.6. Reading updates atime
// and flushes metadata on every call, reproducing the reference
// design's atime cost faithfully.
func (fs *Filesystem) Read(path string, buf []byte, offset uint64) (uint64, error) {
	util.DPrintf(1, "read %s %d bytes at %d\n", path, len(buf), offset)
	defer fs.Stats.Record(stats.OpRead, time.Now())
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ip := fs.table.Lookup(path)
	if ip == nil {
		return 0, nufserr.ENOENT
	}
	if ip.IsDir() {
		return 0, nufserr.EISDIR
	}
	if offset >= ip.Size {
		return 0, nil
	}

	size := util.Min(uint64(len(buf)), ip.Size-offset)
	var done uint64
	for done < size {
		blockIndex := (offset + done) / common.BlockSize
		blockOffset := (offset + done) % common.BlockSize
		chunk := util.Min(size-done, common.BlockSize-blockOffset)

		if blockIndex >= uint64(ip.BlockCount) {
			break
		}

		blk := fs.dev.GetBlock(ip.Blocks[blockIndex])
		if blk == nil {
			break
		}
		copy(buf[done:done+chunk], blk[blockOffset:blockOffset+chunk])
		done += chunk
	}

	ip.Atime = nowFn()
	fs.table.Save()
	return done, nil
}
