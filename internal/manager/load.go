package manager

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"energyd/internal/model"
	"energyd/internal/runner"
	"energyd/pkg/types"
)

// Source resolves registry refs to decoded models. *registry.Store satisfies it.
type Source interface {
	Load(ctx context.Context, ref string) (types.Model, *model.Ensemble, error)
}

// Load resolves both configured refs from src, wraps each model in a runner
// and installs them with Use.
func (m *Manager) Load(ctx context.Context, src Source) error {
	var energy, ghg Binding
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		energy, err = m.bind(gctx, src, m.cfg.EnergyRef)
		return err
	})
	g.Go(func() (err error) {
		ghg, err = m.bind(gctx, src, m.cfg.GHGRef)
		return err
	})
	if err := g.Wait(); err != nil {
		m.setError(err)
		return err
	}
	return m.Use(energy, ghg)
}

func (m *Manager) bind(ctx context.Context, src Source, ref string) (Binding, error) {
	mdl, e, err := src.Load(ctx, ref)
	if err != nil {
		return Binding{}, fmt.Errorf("load %s: %w", ref, err)
	}
	r, err := runner.New(e, runner.Config{
		Name:          mdl.Name,
		MaxConcurrent: m.cfg.MaxConcurrent,
		MaxQueueDepth: m.cfg.MaxQueueDepth,
		MaxWait:       m.cfg.MaxWait,
		CacheSize:     m.cfg.CacheSize,
	})
	if err != nil {
		return Binding{}, err
	}
	return Binding{Model: mdl, Runner: r}, nil
}
