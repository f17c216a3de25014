// Package nufs is the core filesystem: it owns the block device and
// the inode table for one mounted image and implements the upcall
// surface spec.md §4.5 names (access, getattr, readdir, mknod, mkdir,
// unlink, rmdir, rename, read, write). It plays the role the teacher's
// Nfs type plays for go-nfsd, minus the NFS/RPC framing -- callers
// speak Go paths and byte slices directly.
package nufs

import (
	"sync"
	"time"

	"github.com/gonufs/nufs/blockdev"
	"github.com/gonufs/nufs/inode"
	"github.com/gonufs/nufs/util"
	"github.com/gonufs/nufs/util/stats"
)

// Filesystem owns the two process-global resources spec.md §5
// describes -- the mapped image region and the in-memory inode table
// -- for the lifetime of one mount. A single mutex serializes every
// upcall, since go-fuse dispatches from multiple goroutines but
// spec.md §5 assumes cooperative single-threaded access to both
// resources.
type Filesystem struct {
	mu    sync.Mutex
	dev   *blockdev.Device
	table *inode.Table
	Stats stats.Table
}

// nowFn is overridden in tests that need deterministic timestamps.
var nowFn = func() int64 { return time.Now().Unix() }

// Mount opens (creating if absent) the image file at path, loads or
// bootstraps its inode table, and returns a ready Filesystem, per
// spec.md §4.1 and §4.4.
func Mount(path string) (*Filesystem, error) {
	dev, err := blockdev.Open(path)
	if err != nil {
		return nil, err
	}
	table := inode.Load(dev, nowFn())
	util.DPrintf(0, "nufs: mounted %s\n", path)
	return &Filesystem{dev: dev, table: table}, nil
}

// Close flushes, unmaps, and closes the backing image, per spec.md
// §4.1's teardown and §5's guaranteed-cleanup requirement.
func (fs *Filesystem) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.table.Save()
	return fs.dev.Close()
}
