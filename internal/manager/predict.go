package manager

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"energyd/internal/features"
	"energyd/internal/frame"
	"energyd/internal/runner"
	"energyd/pkg/types"
)

// Predict projects b into one frame per model and evaluates both concurrently.
// The result holds both predictions or an error; the first failing model
// cancels the other.
func (m *Manager) Predict(ctx context.Context, b features.BuildingFeatures) (types.PredictResponse, error) {
	energy, ghg, ready := m.bindings()
	if !ready {
		m.mu.RLock()
		st := m.state
		m.mu.RUnlock()
		return types.PredictResponse{}, notReadyError{state: st}
	}
	m.predictions.Add(1)
	resp, err := m.predict(ctx, energy.Runner, ghg.Runner, b)
	if err != nil {
		m.recordFailure(err)
		return types.PredictResponse{}, err
	}
	return resp, nil
}

func (m *Manager) predict(ctx context.Context, energy, ghg runner.Runner, b features.BuildingFeatures) (types.PredictResponse, error) {
	ef, gf, err := project(b)
	if err != nil {
		return types.PredictResponse{}, err
	}
	var resp types.PredictResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.SiteEnergyUse, err = runOne(gctx, energy, ef)
		return err
	})
	g.Go(func() (err error) {
		resp.TotalGHGEmissions, err = runOne(gctx, ghg, gf)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.PredictResponse{}, err
	}
	return resp, nil
}

func project(b features.BuildingFeatures) (ef, gf frame.Frame, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PredictionError{Stage: StageProject, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	ef, gf = features.EnergyFrame(b), features.GHGFrame(b)
	if err := errors.Join(ef.Validate(), gf.Validate()); err != nil {
		return ef, gf, &PredictionError{Stage: StageProject, Err: err}
	}
	return ef, gf, nil
}

// runOne unwraps the single prediction for a single-row frame.
func runOne(ctx context.Context, r runner.Runner, f frame.Frame) (v float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PredictionError{Stage: StagePredict, Model: r.Name(), Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	out, err := r.Run(ctx, f)
	if err != nil {
		return 0, &PredictionError{Stage: StagePredict, Model: r.Name(), Err: err}
	}
	if len(out) == 0 {
		return 0, &PredictionError{Stage: StagePredict, Model: r.Name(), Err: errors.New("model returned no predictions")}
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return 0, &PredictionError{Stage: StagePredict, Model: r.Name(), Err: fmt.Errorf("non-finite prediction %v", out[0])}
	}
	return out[0], nil
}

func (m *Manager) recordFailure(err error) {
	m.failures.Add(1)
	m.mu.Lock()
	m.lastErr = err.Error()
	m.mu.Unlock()
	e := Event{Name: EventPredictionFailed, Fields: map[string]any{"error": err.Error()}}
	var pe *PredictionError
	if errors.As(err, &pe) {
		e.Model = pe.Model
		e.Fields["stage"] = pe.Stage
	}
	if IsTooBusy(err) {
		e.Fields["reason"] = runner.BusyReason(err)
	}
	m.publish(e)
}
