// Package compute provides execution backends for per-group simulation work.
//
// The simulation kernel partitions each tick by group: a task owns one
// group's particles exclusively while it runs. A backend decides how those
// tasks are scheduled:
//
//   - [Serial]: tasks run in index order on the calling goroutine
//   - [Pool]: tasks run concurrently on a bounded worker pool
//
// Both backends run every task exactly once and return only after all tasks
// have finished, so a caller can chain phases without extra synchronization:
//
//	backend := compute.NewCPUBackend(runtime.NumCPU())
//	backend.ForEach(len(groups), func(g int) {
//	    integrate(groups[g])
//	})
package compute
