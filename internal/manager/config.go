package manager

import (
	"runtime"
	"time"

	"energyd/internal/registry"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxQueueDepth = 64
	defaultMaxWait       = 5 * time.Second
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Registry refs of the serving models ("name", "name:latest", "name:<version>").
	EnergyRef string
	GHGRef    string
	// Runner admission and caching, applied to each model.
	MaxConcurrent int
	MaxQueueDepth int
	MaxWait       time.Duration
	CacheSize     int
	// Publisher receives lifecycle events; nil drops them.
	Publisher EventPublisher
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	if cfg.EnergyRef == "" {
		cfg.EnergyRef = registry.EnergyModel + ":" + registry.Latest
	}
	if cfg.GHGRef == "" {
		cfg.GHGRef = registry.GHGModel + ":" + registry.Latest
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
	if cfg.CacheSize < 0 {
		cfg.CacheSize = 0
	}
	m := &Manager{
		cfg:       cfg,
		state:     StateLoading,
		publisher: noopPublisher{},
		startTime: time.Now(),
	}
	if cfg.Publisher != nil {
		m.publisher = cfg.Publisher
	}
	return m
}
