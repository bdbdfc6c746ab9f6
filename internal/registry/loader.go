// Package registry registers serialized model artifacts in a local store and
// resolves them by name and version tag.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"energyd/internal/common/fsutil"
	"energyd/pkg/types"
)

// Logical names the service resolves at startup.
const (
	EnergyModel = "energy_predictor_model"
	GHGModel    = "ghg_predictor_model"
)

// Source names an artifact file to register.
type Source struct {
	Name string
	Path string
}

// ArtifactError reports a model file that is missing or cannot be decoded.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string { return fmt.Sprintf("artifact %s: %v", e.Path, e.Err) }
func (e *ArtifactError) Unwrap() error { return e.Err }

// IsArtifactError reports whether err wraps an *ArtifactError.
func IsArtifactError(err error) bool {
	var ae *ArtifactError
	return errors.As(err, &ae)
}

// DefaultSources returns the two artifacts produced by training, under dir.
func DefaultSources(dir string) []Source {
	return []Source{
		{Name: EnergyModel, Path: filepath.Join(dir, "GradientBoosting_SiteEnergyUse(kBtu).json")},
		{Name: GHGModel, Path: filepath.Join(dir, "GradientBoosting_TotalGHGEmissions.json")},
	}
}

// RegisterAll reads and validates every source before writing anything, then
// registers all of them as new versions. Either every source is registered or
// none is.
func RegisterAll(ctx context.Context, s *Store, srcs []Source) ([]types.Model, error) {
	if len(srcs) == 0 {
		return nil, errors.New("no artifacts to register")
	}
	items := make([]pending, 0, len(srcs))
	for _, src := range srcs {
		p, err := fsutil.Resolve(src.Path)
		if err != nil {
			return nil, &ArtifactError{Path: src.Path, Err: err}
		}
		if !fsutil.IsRegularFile(p) {
			return nil, &ArtifactError{Path: p, Err: os.ErrNotExist}
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, &ArtifactError{Path: p, Err: err}
		}
		items = append(items, pending{name: src.Name, source: p, data: data})
	}
	return s.register(ctx, items)
}
