package types

// Model is a registered model version in the local store.
type Model struct {
	// Logical model name.
	// example: energy_predictor_model
	Name string `json:"name" example:"energy_predictor_model"`
	// Version tag assigned at registration.
	// example: 01923f6e-7d2a-7c4e-9d8b-2f0a5c3e1b7d
	Version string `json:"version" example:"01923f6e-7d2a-7c4e-9d8b-2f0a5c3e1b7d"`
	// Absolute path of the stored artifact.
	// example: /home/user/.energyd/store/models/energy_predictor_model/01923f6e/model.json
	Path string `json:"path" example:"/home/user/.energyd/store/models/energy_predictor_model/01923f6e/model.json"`
	// Hex sha256 of the artifact bytes.
	SHA256 string `json:"sha256"`
	// Artifact size in bytes.
	// example: 48213
	SizeBytes int64 `json:"size_bytes" example:"48213"`
	// Artifact format.
	// example: energyd.gbt/v1
	Kind string `json:"kind" example:"energyd.gbt/v1"`
	// Target variable the model predicts.
	// example: SiteEnergyUse(kBtu)
	Target string `json:"target,omitempty" example:"SiteEnergyUse(kBtu)"`
	// Registration time (unix seconds).
	// example: 1700000000
	CreatedAt int64 `json:"created_at_unix" example:"1700000000"`
}

// Ref returns "name:version".
func (m Model) Ref() string { return m.Name + ":" + m.Version }
