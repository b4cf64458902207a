package kiwi

import (
	"sync/atomic"
	"testing"
)

func TestWorkerPoolSynchronousWhenSingleThreaded(t *testing.T) {
	p := newWorkerPool(1)
	ran := false
	p.submit(func() { ran = true })
	if !ran {
		t.Error("submit on a single-threaded pool must run fn synchronously")
	}
}

func TestWorkerPoolRunsAllSubmittedWork(t *testing.T) {
	p := newWorkerPool(4)
	var n int32
	const total = 50
	done := make(chan struct{}, total)
	for i := 0; i < total; i++ {
		p.submit(func() {
			atomic.AddInt32(&n, 1)
			done <- struct{}{}
		})
	}
	for i := 0; i < total; i++ {
		<-done
	}
	if got := atomic.LoadInt32(&n); got != total {
		t.Errorf("ran %d closures, want %d", got, total)
	}
}
