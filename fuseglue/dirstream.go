package fuseglue

import (
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/gonufs/nufs/common"
)

// nameStream is the fs.DirStream implementation backing Node.Readdir:
// a plain slice of names, already including "." and ".." (spec.md
// §4.5), walked one at a time.
type nameStream struct {
	names []string
	pos   int
}

func newDirStream(names []string) *nameStream {
	return &nameStream{names: names}
}

func (s *nameStream) HasNext() bool {
	return s.pos < len(s.names)
}

func (s *nameStream) Next() (fuse.DirEntry, syscall.Errno) {
	name := s.names[s.pos]
	s.pos++
	// "." and ".." are always directories; the type of every other
	// child is left unknown (0) and resolved by the kernel's
	// follow-up Lookup, since nufs.Readdir reports names only.
	var mode uint32
	if name == "." || name == ".." {
		mode = common.ModeDirectory
	}
	return fuse.DirEntry{Name: name, Mode: mode}, fs.OK
}

func (s *nameStream) Close() {}
