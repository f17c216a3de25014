// Package inode holds the fixed-size inode record and the in-memory
// table that persists it, implementing spec.md §4.3 and §4.4: a flat
// path index standing in for a directory tree, serialized to the
// reserved metadata blocks.
package inode

import (
	"strings"

	"github.com/tchajed/marshal"

	"github.com/gonufs/nufs/common"
)

// Inode is one file or directory's metadata: an absolute path, a
// logical size, a block map, a mode word, and three timestamps. It is
// the in-memory twin of the fixed-size on-disk record spec.md §3
// describes.
type Inode struct {
	Path       string
	Size       uint64
	BlockCount uint32
	Blocks     [common.MaxBlocksPerFile]common.Bnum
	Mode       uint32
	Atime      int64
	Mtime      int64
	Ctime      int64
}

// IsDir reports whether the inode's mode has the directory type bit set.
func (ip *Inode) IsDir() bool {
	return ip.Mode&common.ModeTypeMask == common.ModeDirectory
}

// IsRegular reports whether the inode's mode has the regular-file type bit set.
func (ip *Inode) IsRegular() bool {
	return ip.Mode&common.ModeTypeMask == common.ModeRegular
}

func (ip *Inode) touch(now int64) {
	ip.Atime, ip.Mtime, ip.Ctime = now, now, now
}

// Canonicalize trims trailing '/' characters except when the whole
// path is "/", per spec.md §3's invariant on stored path form.
func Canonicalize(path string) string {
	if path == "/" {
		return path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

// Encode serializes the inode to a fixed-width, little-endian record
// using github.com/tchajed/marshal, replacing the teacher's (and the
// original C implementation's) byte-for-byte struct copy with the
// explicit, portable layout spec.md §6 asks for.
func (ip *Inode) Encode() []byte {
	enc := marshal.NewEnc(common.InodeSize)
	pathBuf := make([]byte, common.MaxPathLen)
	copy(pathBuf, ip.Path)
	enc.PutBytes(pathBuf)
	enc.PutInt(ip.Size)
	enc.PutInt32(ip.BlockCount)
	for _, b := range ip.Blocks {
		enc.PutInt32(uint32(int32(b)))
	}
	enc.PutInt32(ip.Mode)
	enc.PutInt(uint64(ip.Atime))
	enc.PutInt(uint64(ip.Mtime))
	enc.PutInt(uint64(ip.Ctime))
	return enc.Finish()
}

// Decode is Encode's inverse.
func Decode(data []byte) *Inode {
	dec := marshal.NewDec(data)
	ip := new(Inode)
	ip.Path = trimNUL(dec.GetBytes(common.MaxPathLen))
	ip.Size = dec.GetInt()
	ip.BlockCount = dec.GetInt32()
	for i := range ip.Blocks {
		ip.Blocks[i] = common.Bnum(int32(dec.GetInt32()))
	}
	ip.Mode = dec.GetInt32()
	ip.Atime = int64(dec.GetInt())
	ip.Mtime = int64(dec.GetInt())
	ip.Ctime = int64(dec.GetInt())
	return ip
}

func trimNUL(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}
