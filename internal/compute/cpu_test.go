package compute

import (
	"sync/atomic"
	"testing"
)

func TestBackendsVisitEveryIndexOnce(t *testing.T) {
	backends := []Backend{Serial{}, NewPool(1), NewPool(4), NewCPUBackend(0)}

	for _, b := range backends {
		t.Run(b.Name(), func(t *testing.T) {
			const n = 37
			var hits [n]int32
			b.ForEach(n, func(i int) {
				atomic.AddInt32(&hits[i], 1)
			})
			for i, h := range hits {
				if h != 1 {
					t.Errorf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestSerialOrder(t *testing.T) {
	var order []int
	Serial{}.ForEach(5, func(i int) { order = append(order, i) })
	for i, v := range order {
		if v != i {
			t.Fatalf("serial order = %v", order)
		}
	}
}

func TestNewCPUBackend(t *testing.T) {
	if _, ok := NewCPUBackend(1).(Serial); !ok {
		t.Error("expected serial backend for one worker")
	}
	if b := NewCPUBackend(3); b.Workers() != 3 {
		t.Errorf("expected 3 workers, got %d", b.Workers())
	}
}

func TestParallelForCoversRange(t *testing.T) {
	tests := []struct {
		n, minChunk, workers int
	}{
		{0, 4, 4},
		{3, 4, 4},
		{100, 4, 4},
		{101, 10, 3},
		{1000, 1, 8},
	}

	for _, tt := range tests {
		seen := make([]int32, tt.n)
		ParallelFor(tt.n, tt.minChunk, tt.workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, s := range seen {
			if s != 1 {
				t.Errorf("n=%d: index %d covered %d times", tt.n, i, s)
			}
		}
	}
}
