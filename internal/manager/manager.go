package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"energyd/pkg/types"
)

type Manager struct {
	cfg ManagerConfig

	mu      sync.RWMutex
	state   State
	err     string
	energy  Binding
	ghg     Binding
	lastErr string

	predictions atomic.Uint64
	failures    atomic.Uint64

	pubMu     sync.RWMutex
	publisher EventPublisher

	startTime time.Time
}

// New returns a Manager that resolves the default model names at latest.
func New() *Manager {
	return NewWithConfig(ManagerConfig{})
}

// Config returns the effective configuration after defaults.
func (m *Manager) Config() ManagerConfig { return m.cfg }

// Ready reports whether both models are bound and checked.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady
}

// ListModels returns the registry entries currently serving, energy first.
func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Model, 0, 2)
	for _, b := range []Binding{m.energy, m.ghg} {
		if b.Runner != nil && b.Model.Name != "" {
			out = append(out, b.Model)
		}
	}
	return out
}

// SetEventPublisher replaces the event sink; nil resets to a no-op.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	m.pubMu.Lock()
	m.publisher = p
	m.pubMu.Unlock()
}

func (m *Manager) publish(e Event) {
	m.pubMu.RLock()
	p := m.publisher
	m.pubMu.RUnlock()
	p.Publish(e)
}

// Use installs the two bindings after checking their inputs against the
// feature projector. On success the manager becomes ready.
func (m *Manager) Use(energy, ghg Binding) error {
	if err := checkBindings(energy, ghg); err != nil {
		m.setError(err)
		return err
	}
	m.mu.Lock()
	m.energy, m.ghg = energy, ghg
	m.state = StateReady
	m.err = ""
	m.mu.Unlock()
	m.publish(Event{Name: EventModelsLoaded, Fields: map[string]any{
		string(RoleEnergy): energy.ref(),
		string(RoleGHG):    ghg.ref(),
	}})
	return nil
}

func (m *Manager) setError(err error) {
	m.mu.Lock()
	m.state = StateError
	m.err = err.Error()
	m.mu.Unlock()
}

func (m *Manager) bindings() (Binding, Binding, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.energy, m.ghg, m.state == StateReady
}
