package nufs

import (
	"os"
	"time"

	"github.com/gonufs/nufs/common"
	"github.com/gonufs/nufs/inode"
	"github.com/gonufs/nufs/nufserr"
	"github.com/gonufs/nufs/util"
	"github.com/gonufs/nufs/util/stats"
)

// Attr is the stat-like summary getattr fills, per spec.md §4.5.
type Attr struct {
	Mode    uint32
	Size    uint64
	Nlink   uint32
	Uid     uint32
	Gid     uint32
	Atime   int64
	Mtime   int64
	Ctime   int64
	Blocks  uint64
	Blksize uint32
}

// Access returns ENOENT if path has no inode; permissions are never
// enforced beyond storing the mode word, per spec.md §4.5.
func (fs *Filesystem) Access(path string) error {
	util.DPrintf(1, "access %s\n", path)
	defer fs.Stats.Record(stats.OpAccess, time.Now())
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.table.Lookup(path) == nil {
		return nufserr.ENOENT
	}
	return nil
}

// Getattr fills an Attr from path's inode, per spec.md §4.5: nlink is
// 2 for a directory, 1 otherwise; blocks is the block count needed to
// hold size bytes, not the inode's allocated block_count.
func (fs *Filesystem) Getattr(path string) (*Attr, error) {
	util.DPrintf(1, "getattr %s\n", path)
	defer fs.Stats.Record(stats.OpGetattr, time.Now())
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ip := fs.table.Lookup(path)
	if ip == nil {
		return nil, nufserr.ENOENT
	}

	nlink := uint32(1)
	if ip.IsDir() {
		nlink = 2
	}
	return &Attr{
		Mode:    ip.Mode,
		Size:    ip.Size,
		Nlink:   nlink,
		Uid:     uint32(os.Getuid()),
		Gid:     uint32(os.Getgid()),
		Atime:   ip.Atime,
		Mtime:   ip.Mtime,
		Ctime:   ip.Ctime,
		Blocks:  fs.dev.BytesToBlocks(ip.Size),
		Blksize: common.BlockSize,
	}, nil
}

// Readdir lists "." and ".." followed by path's direct children's
// basenames, per spec.md §4.5 and §4.3. ENOENT if path is absent or
// not a directory.
func (fs *Filesystem) Readdir(path string) ([]string, error) {
	util.DPrintf(1, "readdir %s\n", path)
	defer fs.Stats.Record(stats.OpReaddir, time.Now())
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ip := fs.table.Lookup(path)
	if ip == nil || !ip.IsDir() {
		return nil, nufserr.ENOENT
	}

	names := []string{".", ".."}
	names = append(names, fs.table.ChildrenOf(path)...)
	return names, nil
}

// Mknod creates a regular-file inode at path. If mode carries no file
// type bits, it substitutes regular|0644, following
// original_source/nufs.c and the Open Question resolved in SPEC_FULL.md
// §11.
func (fs *Filesystem) Mknod(path string, mode uint32) (*inode.Inode, error) {
	util.DPrintf(1, "mknod %s %#o\n", path, mode)
	defer fs.Stats.Record(stats.OpMknod, time.Now())
	fs.mu.Lock()
	defer fs.mu.Unlock()

	canon := inode.Canonicalize(path)
	if fs.table.Lookup(canon) != nil {
		return nil, nufserr.EEXIST
	}
	if mode&common.ModeTypeMask == 0 {
		mode = common.ModeRegular | 0644
	}
	return fs.table.Create(canon, mode, nowFn())
}

// Mkdir creates a directory inode at path, OR-ing in the directory
// type bit regardless of what mode carries, per spec.md §4.5.
func (fs *Filesystem) Mkdir(path string, mode uint32) (*inode.Inode, error) {
	util.DPrintf(1, "mkdir %s %#o\n", path, mode)
	defer fs.Stats.Record(stats.OpMkdir, time.Now())
	fs.mu.Lock()
	defer fs.mu.Unlock()

	canon := inode.Canonicalize(path)
	if fs.table.Lookup(canon) != nil {
		return nil, nufserr.EEXIST
	}
	return fs.table.Create(canon, mode|common.ModeDirectory, nowFn())
}

// Unlink removes a regular-file inode, freeing its blocks. ENOENT if
// absent, EISDIR if path is a directory, per spec.md §4.5.
func (fs *Filesystem) Unlink(path string) error {
	util.DPrintf(1, "unlink %s\n", path)
	defer fs.Stats.Record(stats.OpUnlink, time.Now())
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ip := fs.table.Lookup(path)
	if ip == nil {
		return nufserr.ENOENT
	}
	if ip.IsDir() {
		return nufserr.EISDIR
	}
	fs.table.Remove(ip)
	return nil
}

// Rmdir removes an empty directory inode. ENOENT if absent or not a
// directory, ENOTEMPTY if it has any children, per spec.md §4.5. This
// upcall is a supplemented feature (SPEC_FULL.md §6):
// original_source/nufs.c never wires an rmdir into its operations
// table, but spec.md §4.5 fully specifies its semantics.
func (fs *Filesystem) Rmdir(path string) error {
	util.DPrintf(1, "rmdir %s\n", path)
	defer fs.Stats.Record(stats.OpRmdir, time.Now())
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ip := fs.table.Lookup(path)
	if ip == nil || !ip.IsDir() {
		return nufserr.ENOENT
	}
	if len(fs.table.ChildrenOf(path)) > 0 {
		return nufserr.ENOTEMPTY
	}
	fs.table.Remove(ip)
	return nil
}

// Rename overwrites the source inode's path with the destination,
// updating mtime/ctime. ENOENT if source absent, EEXIST if destination
// present, ENAMETOOLONG if destination too long, per spec.md §4.5.
func (fs *Filesystem) Rename(from, to string) error {
	util.DPrintf(1, "rename %s -> %s\n", from, to)
	defer fs.Stats.Record(stats.OpRename, time.Now())
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ip := fs.table.Lookup(from)
	if ip == nil {
		return nufserr.ENOENT
	}
	dst := inode.Canonicalize(to)
	if fs.table.Lookup(dst) != nil {
		return nufserr.EEXIST
	}
	if len(dst) > common.MaxPathLen-1 {
		return nufserr.ENAMETOOLONG
	}

	now := nowFn()
	ip.Path = dst
	ip.Mtime = now
	ip.Ctime = now
	fs.table.Save()
	return nil
}
