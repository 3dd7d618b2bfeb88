package models

import "encoding/json"

// Settings is the user-adjustable portion of the persisted store.
// The API key is handled by the secret provider, never stored here.
type Settings struct {
	Model            string `json:"model"`
	CacheEnabled     bool   `json:"cache_enabled"`
	TelemetryEnabled bool   `json:"telemetry_enabled"`
}

// UnmarshalJSON applies per-field defaults: cache and telemetry are on
// unless the document says otherwise. A partial or legacy settings
// document must never silently disable them.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	tmp := plain{CacheEnabled: true, TelemetryEnabled: true}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*s = Settings(tmp)
	return nil
}
