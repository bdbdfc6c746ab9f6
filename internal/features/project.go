package features

import "energyd/internal/frame"

// EnergyColumns is the input schema of the site energy model.
var EnergyColumns = []string{
	FieldPropertyGFATotal,
	FieldLargestPropertyUseType,
	FieldENERGYSTARScore,
	ColumnPropertyGFABuildings,
	FieldElectricityRatio,
	FieldSurfacePerBuilding,
}

// GHGColumns is the input schema of the emissions model.
var GHGColumns = []string{
	FieldElectricityRatio,
	FieldPropertyGFATotal,
	FieldENERGYSTARScore,
	FieldLargestPropertyUseType,
	ColumnPropertyGFABuildings,
	FieldSurfacePerBuilding,
	FieldBuildingAge,
	FieldNaturalGasRatio,
	FieldSurfacePerFloor,
	FieldNumberOfFloors,
	FieldSteamRatio,
}

// EnergyFrame projects b onto EnergyColumns.
func EnergyFrame(b BuildingFeatures) frame.Frame {
	return frame.Row(
		frame.Column{Name: FieldPropertyGFATotal, Value: frame.Number(b.PropertyGFATotal)},
		frame.Column{Name: FieldLargestPropertyUseType, Value: frame.String(b.LargestPropertyUseType)},
		frame.Column{Name: FieldENERGYSTARScore, Value: frame.Number(float64(b.ENERGYSTARScore))},
		frame.Column{Name: ColumnPropertyGFABuildings, Value: frame.Number(b.PropertyGFABuildings)},
		frame.Column{Name: FieldElectricityRatio, Value: frame.Number(b.ElectricityRatio)},
		frame.Column{Name: FieldSurfacePerBuilding, Value: frame.Number(b.SurfacePerBuilding)},
	)
}

// GHGFrame projects b onto GHGColumns. Absent optional fields become
// frame.Missing, never zero.
func GHGFrame(b BuildingFeatures) frame.Frame {
	return frame.Row(
		frame.Column{Name: FieldElectricityRatio, Value: frame.Number(b.ElectricityRatio)},
		frame.Column{Name: FieldPropertyGFATotal, Value: frame.Number(b.PropertyGFATotal)},
		frame.Column{Name: FieldENERGYSTARScore, Value: frame.Number(float64(b.ENERGYSTARScore))},
		frame.Column{Name: FieldLargestPropertyUseType, Value: frame.String(b.LargestPropertyUseType)},
		frame.Column{Name: ColumnPropertyGFABuildings, Value: frame.Number(b.PropertyGFABuildings)},
		frame.Column{Name: FieldSurfacePerBuilding, Value: frame.Number(b.SurfacePerBuilding)},
		frame.Column{Name: FieldBuildingAge, Value: optInt(b.BuildingAge)},
		frame.Column{Name: FieldNaturalGasRatio, Value: optFloat(b.NaturalGasRatio)},
		frame.Column{Name: FieldSurfacePerFloor, Value: optFloat(b.SurfacePerFloor)},
		frame.Column{Name: FieldNumberOfFloors, Value: optInt(b.NumberOfFloors)},
		frame.Column{Name: FieldSteamRatio, Value: optFloat(b.SteamRatio)},
	)
}

func optFloat(o Optional[float64]) frame.Value {
	if v, ok := o.Get(); ok {
		return frame.Number(v)
	}
	return frame.Missing()
}

func optInt(o Optional[int]) frame.Value {
	if v, ok := o.Get(); ok {
		return frame.Number(float64(v))
	}
	return frame.Missing()
}
