// Package runner wraps a compiled model with an invocation interface that is
// safe for concurrent use: bounded admission, an optional prediction cache,
// panic recovery and per-model metrics.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"energyd/internal/frame"
)

// Defaults applied when the corresponding Config fields are unset.
const (
	defaultMaxQueueDepth = 64
	defaultMaxWait       = 5 * time.Second
)

// Runner evaluates one model over feature frames.
type Runner interface {
	Name() string
	Columns() []string
	Run(ctx context.Context, f frame.Frame) ([]float64, error)
}

// Predictor is the model surface a ModelRunner drives. *model.Ensemble
// satisfies it.
type Predictor interface {
	Columns() []string
	Predict(f frame.Frame) ([]float64, error)
}

// Config tunes a ModelRunner. Zero values pick defaults; CacheSize 0 disables
// the cache.
type Config struct {
	Name          string
	MaxConcurrent int
	MaxQueueDepth int
	MaxWait       time.Duration
	CacheSize     int
}

// Stats is a point-in-time view of a runner's admission state.
type Stats struct {
	Inflight      int
	QueueLen      int
	MaxConcurrent int
	MaxQueueDepth int
	CacheEntries  int
}

// ModelRunner is the Runner used in production.
type ModelRunner struct {
	name    string
	model   Predictor
	maxWait time.Duration

	genCh   chan struct{} // in-flight evaluation slots
	queueCh chan struct{} // waiting + running slots

	cache *lru.Cache[string, []float64]
}

// New wraps p. cfg.Name labels errors and metrics.
func New(p Predictor, cfg Config) (*ModelRunner, error) {
	if p == nil {
		return nil, errors.New("runner: nil model")
	}
	if cfg.Name == "" {
		return nil, errors.New("runner: empty name")
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = runtime.NumCPU()
	}
	if cfg.MaxQueueDepth <= 0 {
		cfg.MaxQueueDepth = defaultMaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	r := &ModelRunner{
		name:    cfg.Name,
		model:   p,
		maxWait: cfg.MaxWait,
		genCh:   make(chan struct{}, cfg.MaxConcurrent),
		queueCh: make(chan struct{}, cfg.MaxQueueDepth+cfg.MaxConcurrent),
	}
	if cfg.CacheSize > 0 {
		c, err := lru.New[string, []float64](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("runner %s: cache: %w", cfg.Name, err)
		}
		r.cache = c
	}
	return r, nil
}

func (r *ModelRunner) Name() string      { return r.name }
func (r *ModelRunner) Columns() []string { return r.model.Columns() }

// Stats reports queue occupancy and cache size.
func (r *ModelRunner) Stats() Stats {
	s := Stats{
		Inflight:      len(r.genCh),
		QueueLen:      len(r.queueCh) - len(r.genCh),
		MaxConcurrent: cap(r.genCh),
		MaxQueueDepth: cap(r.queueCh) - cap(r.genCh),
	}
	if s.QueueLen < 0 {
		s.QueueLen = 0
	}
	if r.cache != nil {
		s.CacheEntries = r.cache.Len()
	}
	return s
}

// Run evaluates f. Cached results are returned without taking an evaluation
// slot. The returned slice is owned by the caller.
func (r *ModelRunner) Run(ctx context.Context, f frame.Frame) (out []float64, err error) {
	var key string
	if r.cache != nil {
		if key, err = f.Key(); err != nil {
			return nil, err
		}
		if v, ok := r.cache.Get(key); ok {
			cacheHits.WithLabelValues(r.name).Inc()
			return append([]float64(nil), v...), nil
		}
	}

	release, err := r.admit(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	out, err = r.predict(f)
	runDuration.WithLabelValues(r.name).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Add(key, append([]float64(nil), out...))
	}
	return out, nil
}

func (r *ModelRunner) predict(f frame.Frame) (out []float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, &PanicError{Model: r.name, Value: p}
		}
	}()
	return r.model.Predict(f)
}

// admit reserves a queue slot and then an evaluation slot, each bounded by
// maxWait. The returned release func must be called once evaluation ends.
func (r *ModelRunner) admit(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case r.queueCh <- struct{}{}:
	default:
		return nil, &TooBusyError{Model: r.name, Reason: ReasonQueueFull}
	}
	timer := time.NewTimer(r.maxWait)
	defer timer.Stop()
	select {
	case r.genCh <- struct{}{}:
		return func() { <-r.genCh; <-r.queueCh }, nil
	case <-ctx.Done():
		<-r.queueCh
		return nil, ctx.Err()
	case <-timer.C:
		<-r.queueCh
		return nil, &TooBusyError{Model: r.name, Reason: ReasonWaitTimeout}
	}
}
