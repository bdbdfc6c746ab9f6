package model

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"energyd/internal/frame"
)

// Ensemble is a compiled, immutable tree ensemble. It is safe for concurrent use.
type Ensemble struct {
	name      string
	target    string
	init      float64
	rate      float64
	transform string
	features  []compiledFeature
	trees     [][]compiledNode
}

type compiledFeature struct {
	name        string
	categorical bool
	levels      map[string]int
}

type compiledNode struct {
	leaf        bool
	value       float64
	feature     int
	threshold   float64
	leftSet     map[int]struct{}
	missingLeft bool
	left, right int
}

// Name returns the artifact name, possibly empty.
func (e *Ensemble) Name() string { return e.name }

// Target returns the predicted quantity recorded in the artifact.
func (e *Ensemble) Target() string { return e.target }

// NumTrees returns the number of boosting stages.
func (e *Ensemble) NumTrees() int { return len(e.trees) }

// Columns returns the feature names in artifact order.
func (e *Ensemble) Columns() []string {
	out := make([]string, len(e.features))
	for i, f := range e.features {
		out[i] = f.name
	}
	return out
}

// Predict evaluates every row of f. The frame's columns must match the model
// features as a set; order does not matter.
func (e *Ensemble) Predict(f frame.Frame) ([]float64, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	idx, err := e.bind(f.Columns)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(f.Rows))
	x := make([]float64, len(e.features))
	for r, row := range f.Rows {
		for i, feat := range e.features {
			v, err := feat.encode(row[idx[i]])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
			x[i] = v
		}
		out[r] = e.eval(x)
	}
	return out, nil
}

// bind maps each model feature to its frame column position.
func (e *Ensemble) bind(cols []string) ([]int, error) {
	pos := make(map[string]int, len(cols))
	for i, c := range cols {
		pos[c] = i
	}
	idx := make([]int, len(e.features))
	var missing []string
	for i, feat := range e.features {
		p, ok := pos[feat.name]
		if !ok {
			missing = append(missing, feat.name)
			continue
		}
		idx[i] = p
		delete(pos, feat.name)
	}
	if len(missing) > 0 || len(pos) > 0 {
		extra := make([]string, 0, len(pos))
		for c := range pos {
			extra = append(extra, c)
		}
		sort.Strings(extra)
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, "missing columns: "+strings.Join(missing, ", "))
		}
		if len(extra) > 0 {
			parts = append(parts, "unexpected columns: "+strings.Join(extra, ", "))
		}
		return nil, fmt.Errorf("feature names do not match model input (%s)", strings.Join(parts, "; "))
	}
	return idx, nil
}

// encode turns a cell into the evaluator's representation. NaN stands for
// missing; categorical values become their level index.
func (f compiledFeature) encode(v frame.Value) (float64, error) {
	if v.IsMissing() {
		return math.NaN(), nil
	}
	if f.categorical {
		s, ok := v.Str()
		if !ok {
			return 0, fmt.Errorf("column %s: expected string, got %s", f.name, v.Kind())
		}
		lvl, ok := f.levels[s]
		if !ok {
			return math.NaN(), nil
		}
		return float64(lvl), nil
	}
	n, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("column %s: expected number, got %s", f.name, v.Kind())
	}
	return n, nil
}

func (e *Ensemble) eval(x []float64) float64 {
	sum := 0.0
	for _, tree := range e.trees {
		sum += walk(tree, e.features, x)
	}
	raw := e.init + e.rate*sum
	if e.transform == TransformLog1p {
		return math.Expm1(raw)
	}
	return raw
}

func walk(tree []compiledNode, feats []compiledFeature, x []float64) float64 {
	i := 0
	for {
		n := tree[i]
		if n.leaf {
			return n.value
		}
		v := x[n.feature]
		var left bool
		switch {
		case math.IsNaN(v):
			left = n.missingLeft
		case feats[n.feature].categorical:
			_, left = n.leftSet[int(v)]
		default:
			left = v <= n.threshold
		}
		if left {
			i = n.left
		} else {
			i = n.right
		}
	}
}
