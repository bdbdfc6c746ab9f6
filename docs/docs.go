// Package docs registers the energyd Swagger document with swag.
// Regenerate with `swag init -g cmd/energyd/docs.go -o docs` after changing
// the API annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "energyd maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/predict": {
            "post": {
                "description": "Validates a building payload and returns both model predictions.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["predict"],
                "summary": "Predict energy use and emissions",
                "parameters": [
                    {
                        "description": "Building features",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.BuildingFeatures"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PredictResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ValidationErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List serving models",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Service status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        },
        "/schema": {
            "get": {
                "produces": ["application/schema+json"],
                "tags": ["predict"],
                "summary": "JSON Schema of the predict payload",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "types.BuildingFeatures": {
            "type": "object",
            "required": ["PropertyGFATotal", "LargestPropertyUseType", "ENERGYSTARScore", "PropertyGFABuilding_s", "ElectricityRatio", "SurfacePerBuilding"],
            "properties": {
                "PropertyGFATotal": {"type": "number", "example": 50000},
                "LargestPropertyUseType": {"type": "string", "example": "Office"},
                "ENERGYSTARScore": {"type": "integer", "example": 75},
                "PropertyGFABuilding_s": {"type": "number", "example": 40000},
                "ElectricityRatio": {"type": "number", "example": 0.6},
                "SurfacePerBuilding": {"type": "number", "example": 1000},
                "building_age": {"type": "integer", "minimum": 0, "maximum": 2147483647, "example": 35},
                "NaturalGasRatio": {"type": "number", "example": 0.3},
                "SurfacePerFloor": {"type": "number", "example": 4000},
                "NumberofFloors": {"type": "integer", "maximum": 2147483647, "example": 10},
                "SteamRatio": {"type": "number", "example": 0.1}
            }
        },
        "types.PredictResponse": {
            "type": "object",
            "properties": {
                "predicted_SiteEnergyUse(kBtu)": {"type": "number", "example": 5210.5},
                "predicted_TotalGHGEmissions": {"type": "number", "example": 105.2}
            }
        },
        "types.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "ENERGYSTARScore"},
                "code": {"type": "string", "example": "out_of_range"},
                "message": {"type": "string", "example": "must be less than or equal to 100"}
            }
        },
        "types.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "validation failed"},
                "code": {"type": "integer", "example": 400},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/types.FieldError"}}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid JSON body"},
                "code": {"type": "integer", "example": 400}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "energy_predictor_model"},
                "version": {"type": "string"},
                "path": {"type": "string"},
                "sha256": {"type": "string"},
                "size_bytes": {"type": "integer"},
                "kind": {"type": "string", "example": "energyd.gbt/v1"},
                "target": {"type": "string", "example": "SiteEnergyUse(kBtu)"},
                "created_at_unix": {"type": "integer"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}
            }
        },
        "types.ModelStatus": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "example": "energy"},
                "ref": {"type": "string"},
                "inflight": {"type": "integer"},
                "queue_len": {"type": "integer"},
                "max_concurrent": {"type": "integer"},
                "max_queue_depth": {"type": "integer"},
                "cache_entries": {"type": "integer"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "example": "ready"},
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.ModelStatus"}},
                "predictions_total": {"type": "integer"},
                "prediction_failures": {"type": "integer"},
                "last_error": {"type": "string"},
                "uptime_seconds": {"type": "integer"},
                "server_time_unix": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "energyd API",
	Description:      "Validated HTTP API for building energy-use and greenhouse-gas emission predictions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
