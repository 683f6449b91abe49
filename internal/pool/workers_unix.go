//go:build linux

package pool

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// defaultWorkerCount mirrors sysconf(_SC_NPROCESSORS_ONLN) from the
// original tp_init: the number of CPUs this process may actually run on,
// which on Linux can be narrower than the physical core count under a
// cgroup or taskset restriction. Falls back to runtime.NumCPU on any
// syscall failure.
func defaultWorkerCount() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return runtime.NumCPU()
	}

	n := set.Count()
	if n <= 0 {
		return runtime.NumCPU()
	}

	return n
}
