package compute

import "runtime"

type Backend interface {
	Name() string
	Workers() int
	// ForEach calls fn once for every index in [0, n) and returns when all
	// calls have completed.
	ForEach(n int, fn func(i int))
}

// NewCPUBackend returns a Serial backend for workers <= 1, otherwise a Pool.
func NewCPUBackend(workers int) Backend {
	if workers <= 1 {
		return Serial{}
	}
	return NewPool(workers)
}

// Auto sizes a backend to the machine.
func Auto() Backend {
	return NewCPUBackend(runtime.NumCPU())
}

type Serial struct{}

func (Serial) Name() string { return "serial" }
func (Serial) Workers() int { return 1 }

func (Serial) ForEach(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}
