package manager

import (
	"energyd/internal/runner"
	"energyd/pkg/types"
)

// State represents the lifecycle state of the manager.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
)

// Role identifies which prediction a model serves.
type Role string

const (
	RoleEnergy Role = "energy"
	RoleGHG    Role = "ghg"
)

// Binding attaches a runner to the registry entry it was built from.
type Binding struct {
	Model  types.Model
	Runner runner.Runner
}

// ref names the binding for errors and status.
func (b Binding) ref() string {
	if b.Model.Name != "" {
		return b.Model.Ref()
	}
	if b.Runner != nil {
		return b.Runner.Name()
	}
	return ""
}
