package inode

import (
	"strings"

	"github.com/tchajed/marshal"

	"github.com/gonufs/nufs/blockdev"
	"github.com/gonufs/nufs/common"
	"github.com/gonufs/nufs/nufserr"
	"github.com/gonufs/nufs/util"
)

// Table is the in-memory inode array together with the logic to
// persist it to blocks 1..27 (spec.md §4.4). It is the single source
// of truth for the directory tree: there is no separate directory
// record, only string containment over inhabited inode paths
// (spec.md §4.3), the flat-path-index design note in spec.md §9.
type Table struct {
	dev    *blockdev.Device
	inodes [common.MaxFiles]Inode
	count  int
}

// Load reads inode_count from block 1 and the inode records from
// blocks 2..27, per spec.md §4.4. The stored count is trusted unless
// it lies outside 0..MaxFiles, in which case the table starts empty. If no
// inode with path "/" exists afterward, one is created with mode
// directory|0755 (the mount bootstrap spec.md §4.4 requires).
func Load(dev *blockdev.Device, now int64) *Table {
	t := &Table{dev: dev}

	hdr := dev.GetBlock(common.InodeHeaderBlock)
	dec := marshal.NewDec(hdr[:8])
	count := int(dec.GetInt())
	if count < 0 || count > common.MaxFiles {
		util.DPrintf(0, "inode: Load: corrupt inode_count %d, resetting to 0\n", count)
		count = 0
	}
	t.count = count

	for i := 0; i < t.count; i++ {
		t.inodes[i] = *Decode(t.recordBytes(i))
	}

	if t.Lookup("/") == nil {
		if _, err := t.Create("/", common.ModeDirectory|0755, now); err != nil {
			util.DPrintf(0, "inode: Load: failed to bootstrap root: %v\n", err)
		}
	}

	return t
}

// recordBytes returns the byte region backing inode slot i's fixed
// on-disk record, per the layout in spec.md §4.4: inode i lives at
// block 2+(i/InodesPerBlock), offset (i%InodesPerBlock)*InodeSize.
func (t *Table) recordBytes(i int) []byte {
	block := common.FirstInodeBlock + i/common.InodesPerBlock
	offset := (i % common.InodesPerBlock) * common.InodeSize
	blk := t.dev.GetBlock(common.Bnum(block))
	return blk[offset : offset+common.InodeSize]
}

// Save writes inode_count to block 1 and the first count records to
// blocks 2..27, then flushes, per spec.md §4.4. Called after every
// mutation.
func (t *Table) Save() {
	hdr := t.dev.GetBlock(common.InodeHeaderBlock)
	enc := marshal.NewEnc(8)
	enc.PutInt(uint64(t.count))
	copy(hdr[:8], enc.Finish())

	for i := 0; i < t.count; i++ {
		copy(t.recordBytes(i), t.inodes[i].Encode())
	}

	if err := t.dev.Flush(); err != nil {
		util.DPrintf(0, "inode: Save: flush failed: %v\n", err)
	}
}

// Lookup returns the inode at the canonicalized path, or nil.
func (t *Table) Lookup(path string) *Inode {
	path = Canonicalize(path)
	for i := 0; i < t.count; i++ {
		if t.inodes[i].Path == path {
			return &t.inodes[i]
		}
	}
	return nil
}

// ChildrenOf returns the basenames of dir's direct children: inodes
// whose path begins with dir's path, is strictly longer, and -- after
// stripping dir's path plus a single '/' -- contains no further '/',
// per spec.md §4.3.
func (t *Table) ChildrenOf(dir string) []string {
	dir = Canonicalize(dir)
	prefix := dir
	if dir != "/" {
		prefix += "/"
	}

	var names []string
	for i := 0; i < t.count; i++ {
		p := t.inodes[i].Path
		if p == dir || !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		names = append(names, rest)
	}
	return names
}

// Create appends a new inode with the given mode, size 0, block_count
// 0, and atime=mtime=ctime=now, then flushes. Fails with ENOSPC if the
// table is full, ENAMETOOLONG if the path is too long, per spec.md §4.3.
func (t *Table) Create(path string, mode uint32, now int64) (*Inode, error) {
	path = Canonicalize(path)
	if len(path) > common.MaxPathLen-1 {
		return nil, nufserr.ENAMETOOLONG
	}
	if t.count >= common.MaxFiles {
		return nil, nufserr.ENOSPC
	}

	ip := &t.inodes[t.count]
	*ip = Inode{Path: path, Mode: mode}
	ip.touch(now)
	t.count++
	t.Save()
	return ip, nil
}

// AddBlock allocates a new data block and appends it to ip's block
// map, then flushes. Fails with ENOSPC if ip is already at
// MaxBlocksPerFile or the underlying allocator is exhausted.
func (t *Table) AddBlock(ip *Inode) (common.Bnum, error) {
	if ip.BlockCount >= common.MaxBlocksPerFile {
		return common.NullBnum, nufserr.ENOSPC
	}
	bn, err := t.dev.AllocBlock()
	if err != nil {
		return common.NullBnum, err
	}
	ip.Blocks[ip.BlockCount] = bn
	ip.BlockCount++
	t.Save()
	util.DPrintf(2, "inode_add_block: block %d allocated for inode %s, total blocks %d\n",
		bn, ip.Path, ip.BlockCount)
	return bn, nil
}

// Remove frees every block in ip's block map, then compacts the inode
// array so inhabited slots stay contiguous at the front, per spec.md
// §4.3.
func (t *Table) Remove(ip *Inode) {
	for i := uint32(0); i < ip.BlockCount; i++ {
		if err := t.dev.FreeBlock(ip.Blocks[i]); err != nil {
			util.DPrintf(0, "inode: Remove: free block %d: %v\n", ip.Blocks[i], err)
		}
	}

	idx := t.indexOf(ip)
	for i := idx; i < t.count-1; i++ {
		t.inodes[i] = t.inodes[i+1]
	}
	t.inodes[t.count-1] = Inode{}
	t.count--
	t.Save()
}

func (t *Table) indexOf(ip *Inode) int {
	for i := 0; i < t.count; i++ {
		if &t.inodes[i] == ip {
			return i
		}
	}
	panic("inode: indexOf: inode not present in table")
}

// Count returns the number of inhabited slots.
func (t *Table) Count() int {
	return t.count
}
