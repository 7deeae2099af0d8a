package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunStepsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var fast, slow atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, nil,
			Task{Name: "fast", Period: time.Millisecond, Priority: PriorityHigh, Step: func(context.Context) { fast.Add(1) }},
			Task{Name: "slow", Period: time.Hour, Priority: PriorityLow, Step: func(context.Context) { slow.Add(1) }},
		)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for fast.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if fast.Load() < 5 {
		t.Errorf("fast task ran %d times, want >= 5", fast.Load())
	}
	// The slow task runs once immediately, then sleeps.
	if slow.Load() != 1 {
		t.Errorf("slow task ran %d times, want 1", slow.Load())
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err := Run(ctx, nil, Task{Name: "never", Period: time.Millisecond, Step: func(context.Context) { ran.Store(true) }})
	if err != nil {
		t.Errorf("Run returned error: %v", err)
	}
	if ran.Load() {
		t.Error("step should not run after cancellation")
	}
}

func TestRunTasksAreConcurrent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Each step blocks until the other has started; a serial runner would deadlock.
	var wg sync.WaitGroup
	wg.Add(2)
	var once [2]sync.Once
	step := func(i int) func(context.Context) {
		return func(context.Context) {
			once[i].Do(func() {
				wg.Done()
				wg.Wait()
			})
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, nil,
			Task{Name: "a", Period: time.Millisecond, Step: step(0)},
			Task{Name: "b", Period: time.Millisecond, Step: step(1)},
		)
	}()

	waited := make(chan struct{})
	go func() {
		wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not run concurrently")
	}
	cancel()
	<-done
}

func TestPriorityString(t *testing.T) {
	for p, want := range map[Priority]string{PriorityDefault: "default", PriorityHigh: "high", PriorityLow: "low"} {
		if p.String() != want {
			t.Errorf("got %q, want %q", p.String(), want)
		}
	}
}
