// Package nufserr names the POSIX error taxonomy upcalls in this
// filesystem raise, per spec.md §7. Each value is a syscall.Errno,
// which already implements error, so a bare comparison
// (err == nufserr.ENOENT) or a fuse.Status conversion both work without
// any wrapping.
package nufserr

import "syscall"

const (
	// ENOENT is raised by any operation on an absent path.
	ENOENT = syscall.ENOENT
	// EEXIST is raised by mknod, mkdir, and rename when the
	// destination is already present.
	EEXIST = syscall.EEXIST
	// EISDIR is raised by unlink, read, and write on a directory.
	EISDIR = syscall.EISDIR
	// ENOTDIR is the not-a-directory code. No upcall returns it:
	// readdir on a path that is not a directory reports ENOENT.
	ENOTDIR = syscall.ENOTDIR
	// ENOTEMPTY is raised by rmdir on a directory with children.
	ENOTEMPTY = syscall.ENOTEMPTY
	// ENAMETOOLONG is raised by create and rename when a path is
	// 256 bytes or longer.
	ENAMETOOLONG = syscall.ENAMETOOLONG
	// ENOSPC is raised when the inode table or block device is full.
	ENOSPC = syscall.ENOSPC
	// EIO is raised when a block fetch returns no region.
	EIO = syscall.EIO
)
