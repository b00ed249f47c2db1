package dto

type UpsertProviderConfigRequest struct {
	Provider  string  `json:"provider" validate:"required"`
	ApiKey    *string `json:"api_key,omitempty"`
	BaseURL   *string `json:"base_url,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

// ProviderConfigResponse never carries key material, only whether a key is
// stored.
type ProviderConfigResponse struct {
	Provider  string  `json:"provider"`
	BaseURL   *string `json:"base_url,omitempty"`
	IsDefault bool    `json:"is_default"`
	HasKey    bool    `json:"has_key"`
}

type ProviderModelsResponse struct {
	Provider   string   `json:"provider"`
	Keyless    bool     `json:"keyless"`
	Configured bool     `json:"configured"`
	Models     []string `json:"models"`
}
