//go:build !linux

package pool

import "runtime"

// defaultWorkerCount falls back to runtime.NumCPU on platforms where the
// Linux-specific affinity query in workers_unix.go isn't available.
func defaultWorkerCount() int {
	return runtime.NumCPU()
}
