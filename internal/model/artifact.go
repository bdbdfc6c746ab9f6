// Package model decodes and evaluates serialized regression models.
//
// The only supported artifact format is a gradient-boosted regression tree
// ensemble stored as JSON ("energyd.gbt/v1"). Each tree is a flat node array
// where node 0 is the root and children are referenced by index.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Format is the artifact format identifier.
const Format = "energyd.gbt/v1"

// Feature types.
const (
	FeatureNumeric     = "numeric"
	FeatureCategorical = "categorical"
)

// Target transforms applied by the trainer; predictions are mapped back.
const (
	TransformIdentity = "identity"
	TransformLog1p    = "log1p"
)

// Artifact is the on-disk representation of an ensemble.
type Artifact struct {
	Format          string    `json:"format"`
	Name            string    `json:"name,omitempty"`
	Target          string    `json:"target,omitempty"`
	Features        []Feature `json:"features"`
	Init            float64   `json:"init"`
	LearningRate    float64   `json:"learning_rate"`
	TargetTransform string    `json:"target_transform,omitempty"`
	Trees           [][]Node  `json:"trees"`
}

// Feature is one input column.
type Feature struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Categories []string `json:"categories,omitempty"`
}

// Node is a split or a leaf. For numeric splits x <= Threshold goes Left;
// for categorical splits a category index listed in Categories goes Left.
// Missing values and unknown categories follow Missing ("left" or "right").
type Node struct {
	Leaf       bool    `json:"leaf,omitempty"`
	Value      float64 `json:"value,omitempty"`
	Feature    int     `json:"feature,omitempty"`
	Threshold  float64 `json:"threshold,omitempty"`
	Categories []int   `json:"categories,omitempty"`
	Missing    string  `json:"missing,omitempty"`
	Left       int     `json:"left,omitempty"`
	Right      int     `json:"right,omitempty"`
}

// ErrInvalidArtifact is wrapped by every structural decoding failure.
var ErrInvalidArtifact = errors.New("invalid model artifact")

// Decode reads an artifact from r and compiles it into an Ensemble.
func Decode(r io.Reader) (*Ensemble, error) {
	var a Artifact
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return Compile(a)
}

// LoadFile decodes the artifact at path.
func LoadFile(path string) (*Ensemble, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Compile validates a and builds the evaluator.
func Compile(a Artifact) (*Ensemble, error) {
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	e := &Ensemble{
		name:      a.Name,
		target:    a.Target,
		init:      a.Init,
		rate:      a.LearningRate,
		transform: a.TargetTransform,
		features:  make([]compiledFeature, len(a.Features)),
		trees:     make([][]compiledNode, len(a.Trees)),
	}
	if e.transform == "" {
		e.transform = TransformIdentity
	}
	for i, f := range a.Features {
		cf := compiledFeature{name: f.Name, categorical: f.Type == FeatureCategorical}
		if cf.categorical {
			cf.levels = make(map[string]int, len(f.Categories))
			for j, c := range f.Categories {
				cf.levels[c] = j
			}
		}
		e.features[i] = cf
	}
	for t, nodes := range a.Trees {
		out := make([]compiledNode, len(nodes))
		for i, n := range nodes {
			cn := compiledNode{
				leaf:        n.Leaf,
				value:       n.Value,
				feature:     n.Feature,
				threshold:   n.Threshold,
				left:        n.Left,
				right:       n.Right,
				missingLeft: n.Missing != "right",
			}
			if len(n.Categories) > 0 {
				cn.leftSet = make(map[int]struct{}, len(n.Categories))
				for _, c := range n.Categories {
					cn.leftSet[c] = struct{}{}
				}
			}
			out[i] = cn
		}
		e.trees[t] = out
	}
	return e, nil
}

func (a Artifact) validate() error {
	if a.Format != Format {
		return fmt.Errorf("unsupported format %q", a.Format)
	}
	if len(a.Features) == 0 {
		return errors.New("no features")
	}
	seen := make(map[string]struct{}, len(a.Features))
	for i, f := range a.Features {
		if f.Name == "" {
			return fmt.Errorf("feature %d: empty name", i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("feature %q: duplicate name", f.Name)
		}
		seen[f.Name] = struct{}{}
		switch f.Type {
		case FeatureNumeric:
			if len(f.Categories) > 0 {
				return fmt.Errorf("feature %q: numeric feature with categories", f.Name)
			}
		case FeatureCategorical:
		default:
			return fmt.Errorf("feature %q: unknown type %q", f.Name, f.Type)
		}
	}
	switch a.TargetTransform {
	case "", TransformIdentity, TransformLog1p:
	default:
		return fmt.Errorf("unknown target transform %q", a.TargetTransform)
	}
	if len(a.Trees) == 0 {
		return errors.New("no trees")
	}
	for t, nodes := range a.Trees {
		if err := a.validateTree(nodes); err != nil {
			return fmt.Errorf("tree %d: %w", t, err)
		}
	}
	return nil
}

// validateTree checks child indexes and that every node is reached exactly
// once from the root, which rules out cycles and shared subtrees.
func (a Artifact) validateTree(nodes []Node) error {
	if len(nodes) == 0 {
		return errors.New("empty tree")
	}
	visited := make([]bool, len(nodes))
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			return fmt.Errorf("node %d reached twice", i)
		}
		visited[i] = true
		n := nodes[i]
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= len(a.Features) {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		switch n.Missing {
		case "", "left", "right":
		default:
			return fmt.Errorf("node %d: missing direction %q", i, n.Missing)
		}
		f := a.Features[n.Feature]
		if f.Type == FeatureCategorical {
			if len(n.Categories) == 0 {
				return fmt.Errorf("node %d: categorical split without categories", i)
			}
			for _, c := range n.Categories {
				if c < 0 || c >= len(f.Categories) {
					return fmt.Errorf("node %d: category index %d out of range", i, c)
				}
			}
		} else if len(n.Categories) > 0 {
			return fmt.Errorf("node %d: categories on numeric split", i)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= 0 || child >= len(nodes) {
				return fmt.Errorf("node %d: child index %d out of range", i, child)
			}
			stack = append(stack, child)
		}
	}
	for i, ok := range visited {
		if !ok {
			return fmt.Errorf("node %d unreachable", i)
		}
	}
	return nil
}
