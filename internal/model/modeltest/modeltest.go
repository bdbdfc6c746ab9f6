// Package modeltest builds small, hand-checkable model artifacts for tests.
//
// For the office building used throughout the tests (50000 sq ft total,
// Office, no optional fields, electricity ratio 0.6) the energy artifact
// predicts 5210 and the emissions artifact predicts 105.
package modeltest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"energyd/internal/features"
	"energyd/internal/model"
)

const (
	OfficeEnergy = 5210.0
	OfficeGHG    = 105.0
)

var useTypes = []string{"Office", "Hotel", "Warehouse"}

func featureList(cols []string) []model.Feature {
	out := make([]model.Feature, len(cols))
	for i, c := range cols {
		out[i] = model.Feature{Name: c, Type: model.FeatureNumeric}
		if c == features.FieldLargestPropertyUseType {
			out[i] = model.Feature{Name: c, Type: model.FeatureCategorical, Categories: useTypes}
		}
	}
	return out
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	panic("modeltest: unknown column " + name)
}

// EnergyArtifact predicts 10 + (GFA <= 30000 ? 1000 : 5000) + (Office ? 200 : 0).
func EnergyArtifact() model.Artifact {
	cols := features.EnergyColumns
	return model.Artifact{
		Format:       model.Format,
		Name:         "GradientBoosting_SiteEnergyUse(kBtu)",
		Target:       "SiteEnergyUse(kBtu)",
		Features:     featureList(cols),
		Init:         10,
		LearningRate: 1,
		Trees: [][]model.Node{
			{
				{Feature: indexOf(cols, features.FieldPropertyGFATotal), Threshold: 30000, Left: 1, Right: 2},
				{Leaf: true, Value: 1000},
				{Leaf: true, Value: 5000},
			},
			{
				{Feature: indexOf(cols, features.FieldLargestPropertyUseType), Categories: []int{0}, Missing: "right", Left: 1, Right: 2},
				{Leaf: true, Value: 200},
				{Leaf: true, Value: 0},
			},
		},
	}
}

// GHGArtifact predicts 100 + (age <= 50 ? 1 : 3, missing → 3) + (elec <= 0.5 ? 0.5 : 2).
func GHGArtifact() model.Artifact {
	cols := features.GHGColumns
	return model.Artifact{
		Format:       model.Format,
		Name:         "GradientBoosting_TotalGHGEmissions",
		Target:       "TotalGHGEmissions",
		Features:     featureList(cols),
		Init:         100,
		LearningRate: 1,
		Trees: [][]model.Node{
			{
				{Feature: indexOf(cols, features.FieldBuildingAge), Threshold: 50, Missing: "right", Left: 1, Right: 2},
				{Leaf: true, Value: 1},
				{Leaf: true, Value: 3},
			},
			{
				{Feature: indexOf(cols, features.FieldElectricityRatio), Threshold: 0.5, Left: 1, Right: 2},
				{Leaf: true, Value: 0.5},
				{Leaf: true, Value: 2},
			},
		},
	}
}

// Office is the reference building.
func Office() features.BuildingFeatures {
	return features.BuildingFeatures{
		PropertyGFATotal:       50000,
		LargestPropertyUseType: "Office",
		ENERGYSTARScore:        75,
		PropertyGFABuildings:   40000,
		ElectricityRatio:       0.6,
		SurfacePerBuilding:     1000,
	}
}

// OfficeJSON is Office as a request body.
const OfficeJSON = `{"PropertyGFATotal": 50000, "LargestPropertyUseType": "Office", "ENERGYSTARScore": 75, "PropertyGFABuilding_s": 40000, "ElectricityRatio": 0.6, "SurfacePerBuilding": 1000}`

// Compile compiles a or fails the test.
func Compile(t testing.TB, a model.Artifact) *model.Ensemble {
	t.Helper()
	e, err := model.Compile(a)
	if err != nil {
		t.Fatalf("compile artifact: %v", err)
	}
	return e
}

// WriteArtifact writes a as JSON under dir and returns the path.
func WriteArtifact(t testing.TB, dir, name string, a model.Artifact) string {
	t.Helper()
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatalf("write artifact %s: %v", p, err)
	}
	return p
}
