package fuseglue

import (
	"syscall"
	"testing"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/assert"

	"github.com/gonufs/nufs/nufserr"
	"github.com/gonufs/nufs/nufs"
)

func TestToErrnoPassesThroughErrno(t *testing.T) {
	assert.Equal(t, syscall.Errno(nufserr.ENOENT), toErrno(nufserr.ENOENT))
	assert.Equal(t, syscall.Errno(nufserr.EEXIST), toErrno(nufserr.EEXIST))
}

func TestToErrnoNilIsOK(t *testing.T) {
	assert.Equal(t, fs.OK, toErrno(nil))
}

func TestToErrnoUnknownErrorIsEIO(t *testing.T) {
	assert.Equal(t, syscall.EIO, toErrno(assertError{}))
}

type assertError struct{}

func (assertError) Error() string { return "boom" }

func TestChildPathJoinsUnderParent(t *testing.T) {
	root := &Node{path: "/"}
	assert.Equal(t, "/a", root.childPath("a"))

	sub := &Node{path: "/a"}
	assert.Equal(t, "/a/b", sub.childPath("b"))
}

func TestFillAttrCopiesFields(t *testing.T) {
	attr := &nufs.Attr{
		Mode: 0100644, Size: 42, Nlink: 1, Uid: 1000, Gid: 1000,
		Atime: 10, Mtime: 20, Ctime: 30, Blocks: 1, Blksize: 4096,
	}
	var out fuse.Attr
	fillAttr(&out, attr)

	assert.Equal(t, attr.Mode, out.Mode)
	assert.Equal(t, attr.Size, out.Size)
	assert.Equal(t, attr.Nlink, out.Nlink)
	assert.Equal(t, attr.Uid, out.Owner.Uid)
	assert.Equal(t, attr.Gid, out.Owner.Gid)
	assert.Equal(t, uint64(attr.Atime), out.Atime)
	assert.Equal(t, uint64(attr.Mtime), out.Mtime)
	assert.Equal(t, uint64(attr.Ctime), out.Ctime)
}
