// Package features defines the validated building record and projects it
// into the per-model feature frames.
package features

// Optional is a value that may be absent. The zero Optional is absent.
type Optional[T any] struct {
	v  T
	ok bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{v: v, ok: true} }

// None returns an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.v, o.ok }

// Present reports whether a value is held.
func (o Optional[T]) Present() bool { return o.ok }

// BuildingFeatures is a request payload that passed validation. Required
// fields are plain values; fields only the emissions model uses are Optional.
type BuildingFeatures struct {
	PropertyGFATotal       float64
	LargestPropertyUseType string
	ENERGYSTARScore        int
	PropertyGFABuildings   float64
	ElectricityRatio       float64
	SurfacePerBuilding     float64

	BuildingAge     Optional[int]
	NaturalGasRatio Optional[float64]
	SurfacePerFloor Optional[float64]
	NumberOfFloors  Optional[int]
	SteamRatio      Optional[float64]
}

// Wire names of the payload fields.
const (
	FieldPropertyGFATotal       = "PropertyGFATotal"
	FieldLargestPropertyUseType = "LargestPropertyUseType"
	FieldENERGYSTARScore        = "ENERGYSTARScore"
	FieldPropertyGFABuildings   = "PropertyGFABuilding_s"
	FieldElectricityRatio       = "ElectricityRatio"
	FieldSurfacePerBuilding     = "SurfacePerBuilding"
	FieldBuildingAge            = "building_age"
	FieldNaturalGasRatio        = "NaturalGasRatio"
	FieldSurfacePerFloor        = "SurfacePerFloor"
	FieldNumberOfFloors         = "NumberofFloors"
	FieldSteamRatio             = "SteamRatio"
)

// ColumnPropertyGFABuildings is the model-side name of FieldPropertyGFABuildings.
const ColumnPropertyGFABuildings = "PropertyGFABuilding(s)"

// RequiredFields lists the payload fields both models depend on, in schema order.
var RequiredFields = []string{
	FieldPropertyGFATotal,
	FieldLargestPropertyUseType,
	FieldENERGYSTARScore,
	FieldPropertyGFABuildings,
	FieldElectricityRatio,
	FieldSurfacePerBuilding,
}

// OptionalFields lists the emissions-only payload fields, in schema order.
var OptionalFields = []string{
	FieldBuildingAge,
	FieldNaturalGasRatio,
	FieldSurfacePerFloor,
	FieldNumberOfFloors,
	FieldSteamRatio,
}

// Fields returns every payload field in schema order.
func Fields() []string {
	out := make([]string, 0, len(RequiredFields)+len(OptionalFields))
	out = append(out, RequiredFields...)
	return append(out, OptionalFields...)
}
