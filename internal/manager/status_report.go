package manager

import (
	"time"

	"energyd/internal/runner"
	"energyd/pkg/types"
)

// statsReporter is implemented by runners that expose admission stats.
type statsReporter interface {
	Stats() runner.Stats
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	resp := types.StatusResponse{
		State:     string(m.state),
		LastError: m.lastErr,
	}
	if m.err != "" {
		resp.LastError = m.err
	}
	bindings := []struct {
		role Role
		b    Binding
	}{{RoleEnergy, m.energy}, {RoleGHG, m.ghg}}
	m.mu.RUnlock()

	resp.Models = make([]types.ModelStatus, 0, 2)
	for _, rb := range bindings {
		if rb.b.Runner == nil {
			continue
		}
		ms := types.ModelStatus{Role: string(rb.role), Ref: rb.b.ref()}
		if sr, ok := rb.b.Runner.(statsReporter); ok {
			st := sr.Stats()
			ms.Inflight = st.Inflight
			ms.QueueLen = st.QueueLen
			ms.MaxConcurrent = st.MaxConcurrent
			ms.MaxQueueDepth = st.MaxQueueDepth
			ms.CacheEntries = st.CacheEntries
		}
		resp.Models = append(resp.Models, ms)
	}
	resp.PredictionsTotal = m.predictions.Load()
	resp.PredictionFailures = m.failures.Load()
	now := time.Now()
	resp.UptimeSeconds = int64(now.Sub(m.startTime).Seconds())
	resp.ServerTimeUnix = now.Unix()
	return resp
}
