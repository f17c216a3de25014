// Package util holds the small pieces of ambient plumbing every layer
// leans on, mirroring the teacher's top-level util package: a
// debug-gated logger and a couple of arithmetic helpers used when
// sizing block runs.
package util

import "log"

// Debug is the verbosity threshold for DPrintf, set from the -debug
// flag in cmd/nufs. Zero means only level-0 (always-on) messages log.
var Debug uint64 = 0

// DPrintf logs format/a to the standard logger when level is at or
// below Debug, the same convention as the teacher's util.DPrintf.
func DPrintf(level uint64, format string, a ...interface{}) {
	if level <= Debug {
		log.Printf(format, a...)
	}
}

// RoundUp returns n divided by sz, rounded up: the number of
// sz-sized units needed to hold n.
func RoundUp(n, sz uint64) uint64 {
	return (n + sz - 1) / sz
}

// Min returns the smaller of n and m.
func Min(n, m uint64) uint64 {
	if n < m {
		return n
	}
	return m
}
