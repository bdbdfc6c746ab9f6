package manager

import (
	"errors"
	"sort"

	"energyd/internal/features"
)

// CheckSchemas verifies that each bound model expects exactly the columns the
// feature projector produces. It does not mutate state.
func (m *Manager) CheckSchemas() error {
	energy, ghg, _ := m.bindings()
	return checkBindings(energy, ghg)
}

func checkBindings(energy, ghg Binding) error {
	if energy.Runner == nil || ghg.Runner == nil {
		return errors.New("both models must be bound")
	}
	return errors.Join(
		checkColumns(RoleEnergy, energy, features.EnergyColumns),
		checkColumns(RoleGHG, ghg, features.GHGColumns),
	)
}

func checkColumns(role Role, b Binding, projected []string) error {
	inputs := make(map[string]bool)
	for _, c := range b.Runner.Columns() {
		inputs[c] = true
	}
	var unused, unfilled []string
	for _, c := range projected {
		if !inputs[c] {
			unused = append(unused, c)
		}
		delete(inputs, c)
	}
	for c := range inputs {
		unfilled = append(unfilled, c)
	}
	if len(unused) == 0 && len(unfilled) == 0 {
		return nil
	}
	sort.Strings(unfilled)
	return schemaMismatchError{role: role, ref: b.ref(), unused: unused, unfilled: unfilled}
}
