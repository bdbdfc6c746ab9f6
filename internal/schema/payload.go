package schema

import (
	"encoding/json"
	"math"

	"energyd/internal/features"
)

// payload carries only the properties that passed the shape pass. Integers
// are held as float64; the schema has already checked they are integral, and
// the lte bounds keep optional integers within int32 before conversion.
type payload struct {
	PropertyGFATotal       *float64 `json:"PropertyGFATotal" validate:"required,gt=0"`
	LargestPropertyUseType *string  `json:"LargestPropertyUseType" validate:"required,min=1"`
	ENERGYSTARScore        *float64 `json:"ENERGYSTARScore" validate:"required,gte=0,lte=100"`
	PropertyGFABuildings   *float64 `json:"PropertyGFABuilding_s" validate:"required,gt=0"`
	ElectricityRatio       *float64 `json:"ElectricityRatio" validate:"required,gte=0,lte=1"`
	SurfacePerBuilding     *float64 `json:"SurfacePerBuilding" validate:"required,gt=0"`

	BuildingAge     *float64 `json:"building_age" validate:"omitempty,gte=0,lte=2147483647"`
	NaturalGasRatio *float64 `json:"NaturalGasRatio" validate:"omitempty,gte=0,lte=1"`
	SurfacePerFloor *float64 `json:"SurfacePerFloor" validate:"omitempty,gt=0"`
	NumberOfFloors  *float64 `json:"NumberofFloors" validate:"omitempty,gt=0,lte=2147483647"`
	SteamRatio      *float64 `json:"SteamRatio" validate:"omitempty,gte=0,lte=1"`
}

// buildPayload copies well-typed properties out of obj, skipping any field
// already reported. JSON null leaves the pointer nil. Numbers that do not fit
// a float64 are reported as out of range.
func buildPayload(obj map[string]any, c *collector) payload {
	num := func(key string) *float64 {
		if c.seen[key] {
			return nil
		}
		n, ok := obj[key].(json.Number)
		if !ok {
			return nil
		}
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) {
			c.add(key, CodeOutOfRange, "must fit in a 64-bit float")
			return nil
		}
		return &f
	}
	str := func(key string) *string {
		if c.seen[key] {
			return nil
		}
		s, ok := obj[key].(string)
		if !ok {
			return nil
		}
		return &s
	}
	return payload{
		PropertyGFATotal:       num(features.FieldPropertyGFATotal),
		LargestPropertyUseType: str(features.FieldLargestPropertyUseType),
		ENERGYSTARScore:        num(features.FieldENERGYSTARScore),
		PropertyGFABuildings:   num(features.FieldPropertyGFABuildings),
		ElectricityRatio:       num(features.FieldElectricityRatio),
		SurfacePerBuilding:     num(features.FieldSurfacePerBuilding),
		BuildingAge:            num(features.FieldBuildingAge),
		NaturalGasRatio:        num(features.FieldNaturalGasRatio),
		SurfacePerFloor:        num(features.FieldSurfacePerFloor),
		NumberOfFloors:         num(features.FieldNumberOfFloors),
		SteamRatio:             num(features.FieldSteamRatio),
	}
}

// record converts a fully validated payload. Required pointers are non-nil.
func (p payload) record() features.BuildingFeatures {
	return features.BuildingFeatures{
		PropertyGFATotal:       *p.PropertyGFATotal,
		LargestPropertyUseType: *p.LargestPropertyUseType,
		ENERGYSTARScore:        int(*p.ENERGYSTARScore),
		PropertyGFABuildings:   *p.PropertyGFABuildings,
		ElectricityRatio:       *p.ElectricityRatio,
		SurfacePerBuilding:     *p.SurfacePerBuilding,
		BuildingAge:            optInt(p.BuildingAge),
		NaturalGasRatio:        optFloat(p.NaturalGasRatio),
		SurfacePerFloor:        optFloat(p.SurfacePerFloor),
		NumberOfFloors:         optInt(p.NumberOfFloors),
		SteamRatio:             optFloat(p.SteamRatio),
	}
}

func optFloat(p *float64) features.Optional[float64] {
	if p == nil {
		return features.None[float64]()
	}
	return features.Some(*p)
}

func optInt(p *float64) features.Optional[int] {
	if p == nil {
		return features.None[int]()
	}
	return features.Some(int(*p))
}
