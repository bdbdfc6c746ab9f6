package types

// BuildingFeatures documents the POST /predict request body. The service
// validates raw JSON against the published schema; this type exists for API
// docs and clients.
type BuildingFeatures struct {
	// Total gross floor area (sq ft), > 0.
	// example: 50000
	PropertyGFATotal float64 `json:"PropertyGFATotal" example:"50000"`
	// Largest property use type, non-empty.
	// example: Office
	LargestPropertyUseType string `json:"LargestPropertyUseType" example:"Office"`
	// ENERGY STAR score, 0..100.
	// example: 75
	ENERGYSTARScore int `json:"ENERGYSTARScore" example:"75"`
	// Gross floor area of the building(s), > 0.
	// example: 40000
	PropertyGFABuildings float64 `json:"PropertyGFABuilding_s" example:"40000"`
	// Share of energy from electricity, 0..1.
	// example: 0.6
	ElectricityRatio float64 `json:"ElectricityRatio" example:"0.6"`
	// Surface per building, > 0.
	// example: 1000
	SurfacePerBuilding float64 `json:"SurfacePerBuilding" example:"1000"`
	// Building age in years, >= 0.
	// example: 35
	BuildingAge *int `json:"building_age,omitempty" example:"35"`
	// Share of energy from natural gas, 0..1.
	// example: 0.3
	NaturalGasRatio *float64 `json:"NaturalGasRatio,omitempty" example:"0.3"`
	// Surface per floor, > 0.
	// example: 4000
	SurfacePerFloor *float64 `json:"SurfacePerFloor,omitempty" example:"4000"`
	// Number of floors, > 0.
	// example: 10
	NumberOfFloors *int `json:"NumberofFloors,omitempty" example:"10"`
	// Share of energy from district steam, 0..1.
	// example: 0.1
	SteamRatio *float64 `json:"SteamRatio,omitempty" example:"0.1"`
}

// PredictResponse is returned by POST /predict when both models succeed.
type PredictResponse struct {
	// Predicted site energy use (kBtu).
	// example: 5210.5
	SiteEnergyUse float64 `json:"predicted_SiteEnergyUse(kBtu)" example:"5210.5"`
	// Predicted total greenhouse-gas emissions.
	// example: 105.2
	TotalGHGEmissions float64 `json:"predicted_TotalGHGEmissions" example:"105.2"`
}

// PredictErrorResponse is returned with HTTP 200 when prediction fails after
// validation.
type PredictErrorResponse struct {
	// example: Prediction failed: ghg_predictor_model: feature names do not match model input
	Error string `json:"error" example:"Prediction failed: ghg_predictor_model: feature names do not match model input"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	// Payload field name; empty for whole-body errors.
	// example: ENERGYSTARScore
	Field string `json:"field" example:"ENERGYSTARScore"`
	// One of invalid_json, missing, wrong_type, out_of_range, unknown.
	// example: out_of_range
	Code string `json:"code" example:"out_of_range"`
	// example: must be less than or equal to 100
	Message string `json:"message" example:"must be less than or equal to 100"`
}

// ValidationErrorResponse is returned with HTTP 400 for invalid payloads.
type ValidationErrorResponse struct {
	// example: validation failed
	Error string `json:"error" example:"validation failed"`
	// example: 400
	Code   int          `json:"code" example:"400"`
	Fields []FieldError `json:"fields"`
}

// ModelsResponse wraps the models returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ModelStatus summarizes a serving model for /status.
type ModelStatus struct {
	// Role of the model in a prediction (energy or ghg).
	// example: energy
	Role string `json:"role" example:"energy"`
	// Registered model reference.
	// example: energy_predictor_model:01923f6e-7d2a-7c4e-9d8b-2f0a5c3e1b7d
	Ref string `json:"ref" example:"energy_predictor_model:01923f6e-7d2a-7c4e-9d8b-2f0a5c3e1b7d"`
	// Evaluations currently running.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Requests waiting for an evaluation slot.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Maximum concurrent evaluations.
	// example: 8
	MaxConcurrent int `json:"max_concurrent" example:"8"`
	// Maximum waiting requests before backpressure triggers.
	// example: 64
	MaxQueueDepth int `json:"max_queue_depth" example:"64"`
	// Entries held in the prediction cache (0 when disabled).
	// example: 12
	CacheEntries int `json:"cache_entries" example:"12"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall state (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Serving models.
	Models []ModelStatus `json:"models"`
	// Predictions attempted after validation.
	// example: 1200
	PredictionsTotal uint64 `json:"predictions_total" example:"1200"`
	// Predictions that returned an error.
	// example: 3
	PredictionFailures uint64 `json:"prediction_failures" example:"3"`
	// Last prediction error observed (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
