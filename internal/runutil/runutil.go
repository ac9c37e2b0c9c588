// internal/runutil/runutil.go
package runutil

import "runtime"

// EffectiveWorkers resolves the worker-count flag: 0 means all CPUs.
func EffectiveWorkers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}
