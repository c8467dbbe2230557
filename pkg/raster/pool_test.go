package raster

import (
	"runtime"
	"sync/atomic"
	"testing"
)

func TestRowPool_Create(t *testing.T) {
	pool := newRowPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
}

func TestRowPool_DefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -3} {
		pool := newRowPool(n)
		if pool.Workers() != runtime.GOMAXPROCS(0) {
			t.Errorf("newRowPool(%d).Workers() = %d, want GOMAXPROCS", n, pool.Workers())
		}
		pool.Close()
	}
}

func TestRowPool_ExecuteAll(t *testing.T) {
	pool := newRowPool(3)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 500)
	for i := range work {
		i := i
		work[i] = func() { counter.Add(int64(i)) }
	}
	pool.ExecuteAll(work)

	if got, want := counter.Load(), int64(500*499/2); got != want {
		t.Errorf("sum = %d, want %d", got, want)
	}
}

func TestRowPool_CloseIsIdempotent(t *testing.T) {
	pool := newRowPool(2)
	pool.Close()
	pool.Close()

	ran := false
	pool.ExecuteAll([]func(){func() { ran = true }})
	if ran {
		t.Error("ExecuteAll on a closed pool should be a no-op")
	}
}
