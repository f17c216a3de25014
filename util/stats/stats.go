// Package stats tracks per-upcall call counts and latencies, the same
// shape as the teacher's util/stats package, with the NFS procedure
// names swapped for this filesystem's upcall names (spec.md §4.5).
package stats

import (
	"bytes"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rodaine/table"
)

// Op indices into a Table, one per upcall spec.md §4.5 names.
const (
	OpAccess = iota
	OpGetattr
	OpReaddir
	OpMknod
	OpMkdir
	OpUnlink
	OpRmdir
	OpRename
	OpRead
	OpWrite
	numOps
)

var opNames = [numOps]string{
	OpAccess:  "access",
	OpGetattr: "getattr",
	OpReaddir: "readdir",
	OpMknod:   "mknod",
	OpMkdir:   "mkdir",
	OpUnlink:  "unlink",
	OpRmdir:   "rmdir",
	OpRename:  "rename",
	OpRead:    "read",
	OpWrite:   "write",
}

// Op is one upcall's running count and cumulative latency.
type Op struct {
	count uint32
	nanos uint64
}

// Record adds one call starting at start to op's running totals.
func (op *Op) Record(start time.Time) {
	atomic.AddUint32(&op.count, 1)
	atomic.AddUint64(&op.nanos, uint64(time.Since(start).Nanoseconds()))
}

// MicrosPerOp returns the average latency in microseconds.
func (op Op) MicrosPerOp() float64 {
	if op.count == 0 {
		return 0
	}
	return float64(op.nanos) / float64(op.count) / 1e3
}

// Table is the fixed set of per-upcall counters for one mount.
type Table [numOps]Op

// Record adds one call to the named upcall's counters.
func (t *Table) Record(op int, start time.Time) {
	t[op].Record(start)
}

// WriteTable renders a count/latency table to w, using
// github.com/rodaine/table exactly as the teacher's
// util/stats.WriteTable does.
func (t *Table) WriteTable(w io.Writer) {
	tbl := table.New("op", "count", "us")
	var totalCount uint32
	var totalNanos uint64
	for i, name := range opNames {
		op := Op{
			count: atomic.LoadUint32(&t[i].count),
			nanos: atomic.LoadUint64(&t[i].nanos),
		}
		totalCount += op.count
		totalNanos += op.nanos
		tbl.AddRow(name, op.count, fmt.Sprintf("%0.1f us/op", op.MicrosPerOp()))
	}
	totalMicros := float64(totalNanos) / 1e3
	tbl.AddRow("total", totalCount, fmt.Sprintf("%0.1f us", totalMicros))
	tbl.WithWriter(w)
}

// FormatTable is WriteTable rendered to a string.
func (t *Table) FormatTable() string {
	buf := new(bytes.Buffer)
	t.WriteTable(buf)
	return buf.String()
}
