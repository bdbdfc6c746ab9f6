// Package manager coordinates the two serving models. It is structured into
// small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: lifecycle state and model bindings.
//   - errors.go: error types and helpers (PredictionError, IsTooBusy, IsNotReady).
//   - load.go: resolving models from a store and building runners.
//   - predict.go: the prediction entry point.
//   - sanity.go: startup checks of model inputs against the feature projector.
//   - status_report.go: Status reporting.
//   - events.go, eventpub_*.go: lifecycle event publishing.
//
// External packages should treat this package as the orchestration layer and use
// public methods only (NewWithConfig, Load, Use, Ready, ListModels, Status, Predict).
package manager
