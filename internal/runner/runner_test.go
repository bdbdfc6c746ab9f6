package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"energyd/internal/frame"
)

type fakeModel struct {
	calls   atomic.Int32
	out     []float64
	err     error
	panicV  any
	started chan struct{}
	block   chan struct{}
}

func (m *fakeModel) Columns() []string { return []string{"x"} }

func (m *fakeModel) Predict(frame.Frame) ([]float64, error) {
	m.calls.Add(1)
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
	if m.panicV != nil {
		panic(m.panicV)
	}
	return append([]float64(nil), m.out...), m.err
}

func row(x float64) frame.Frame {
	return frame.Row(frame.Column{Name: "x", Value: frame.Number(x)})
}

func mustNew(t *testing.T, p Predictor, cfg Config) *ModelRunner {
	t.Helper()
	if cfg.Name == "" {
		cfg.Name = "test"
	}
	r, err := New(p, cfg)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return r
}

func TestRunReturnsModelOutput(t *testing.T) {
	m := &fakeModel{out: []float64{42}}
	r := mustNew(t, m, Config{})
	got, err := r.Run(context.Background(), row(1))
	if err != nil || len(got) != 1 || got[0] != 42 {
		t.Fatalf("got %v, %v", got, err)
	}
	if r.Name() != "test" || len(r.Columns()) != 1 {
		t.Fatalf("unexpected identity %s %v", r.Name(), r.Columns())
	}
	st := r.Stats()
	if st.Inflight != 0 || st.QueueLen != 0 || st.MaxQueueDepth != 64 || st.MaxConcurrent < 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestRunPropagatesModelError(t *testing.T) {
	boom := errors.New("bad frame")
	r := mustNew(t, &fakeModel{err: boom}, Config{})
	if _, err := r.Run(context.Background(), row(1)); !errors.Is(err, boom) {
		t.Fatalf("expected model error, got %v", err)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	r := mustNew(t, &fakeModel{panicV: "boom"}, Config{Name: "energy"})
	_, err := r.Run(context.Background(), row(1))
	var pe *PanicError
	if !errors.As(err, &pe) || pe.Model != "energy" {
		t.Fatalf("expected PanicError, got %v", err)
	}
	// the slot is released after a panic
	if st := r.Stats(); st.Inflight != 0 || st.QueueLen != 0 {
		t.Fatalf("slots leaked: %+v", st)
	}
}

func TestRunCacheSkipsEvaluation(t *testing.T) {
	m := &fakeModel{out: []float64{7}}
	r := mustNew(t, m, Config{CacheSize: 8})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := r.Run(ctx, row(1))
		if err != nil || got[0] != 7 {
			t.Fatalf("run %d: %v %v", i, got, err)
		}
		got[0] = -1 // callers own the slice
	}
	if n := m.calls.Load(); n != 1 {
		t.Fatalf("expected 1 evaluation, got %d", n)
	}
	if _, err := r.Run(ctx, row(2)); err != nil {
		t.Fatal(err)
	}
	if n := m.calls.Load(); n != 2 {
		t.Fatalf("expected a miss for a new frame, got %d calls", n)
	}
	if st := r.Stats(); st.CacheEntries != 2 {
		t.Fatalf("cache entries = %d", st.CacheEntries)
	}
}

func TestRunDoesNotCacheErrors(t *testing.T) {
	m := &fakeModel{err: errors.New("nope")}
	r := mustNew(t, m, Config{CacheSize: 8})
	for i := 0; i < 2; i++ {
		_, _ = r.Run(context.Background(), row(1))
	}
	if n := m.calls.Load(); n != 2 {
		t.Fatalf("expected 2 evaluations, got %d", n)
	}
}

func TestRunCanceledContext(t *testing.T) {
	m := &fakeModel{out: []float64{1}}
	r := mustNew(t, m, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx, row(1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if m.calls.Load() != 0 {
		t.Fatalf("model should not run on canceled context")
	}
}

func TestAdmissionBackpressure(t *testing.T) {
	m := &fakeModel{out: []float64{1}, started: make(chan struct{}, 4), block: make(chan struct{})}
	r := mustNew(t, m, Config{MaxConcurrent: 1, MaxQueueDepth: 1, MaxWait: 200 * time.Millisecond})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = r.Run(ctx, row(1))
	}()
	<-m.started

	waitErr := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, row(2))
		waitErr <- err
	}()
	deadline := time.Now().Add(time.Second)
	for r.Stats().QueueLen != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("second request never queued: %+v", r.Stats())
		}
		time.Sleep(time.Millisecond)
	}

	_, err := r.Run(ctx, row(3))
	if !IsTooBusy(err) || BusyReason(err) != ReasonQueueFull {
		t.Fatalf("expected queue_full, got %v", err)
	}
	err = <-waitErr
	if !IsTooBusy(err) || BusyReason(err) != ReasonWaitTimeout {
		t.Fatalf("expected wait_timeout, got %v", err)
	}

	close(m.block)
	wg.Wait()
	if st := r.Stats(); st.Inflight != 0 || st.QueueLen != 0 {
		t.Fatalf("slots leaked: %+v", st)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(nil, Config{Name: "x"}); err == nil {
		t.Fatalf("expected error for nil model")
	}
	if _, err := New(&fakeModel{}, Config{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
