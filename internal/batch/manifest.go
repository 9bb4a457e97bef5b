package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one rendered object in the output manifest.
type ManifestEntry struct {
	Container string `json:"container"`
	PathID    int64  `json:"path_id"`
	Class     string `json:"class"`
	Name      string `json:"name"`
	Image     string `json:"image"`
}

// WriteManifest writes the successful results as a JSON array.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Container: r.Key.Container,
			PathID:    r.Key.PathID,
			Class:     r.Class.String(),
			Name:      r.Name,
			Image:     filepath.ToSlash(r.Image),
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
