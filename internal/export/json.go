package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"jkouame/tft-engine/internal/engine"
)

// WriteJSON writes the full run as one JSON document. The key layout
// matches the tft_json and coherence_json payloads the legacy backend
// persisted, so existing consumers keep working.
func WriteJSON(result *engine.Result, path string) error {
	if result == nil {
		return fmt.Errorf("cannot export nil result")
	}

	payload := map[string]interface{}{
		"window":              result.Window,
		"tft":                 result.LineItems.Rows(),
		"feuilles_maitresses": result.Ledgers,
		"coherence":           result.Coherence,
	}
	if len(result.Diagnostics) > 0 {
		payload["diagnostics"] = result.Diagnostics
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling result: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing JSON export: %w", err)
	}

	log.WithField("file", path).Info("Wrote TFT JSON export")
	return nil
}
