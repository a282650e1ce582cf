package browse

import (
	"encoding/json"
	"os"
)

// formatCache persists per-title format lookups between runs so repeated
// browses only hit the API for new titles.
type formatCache struct {
	Entries map[string][]string `json:"entries"`
}

func loadFormatCache(path string) formatCache {
	cache := formatCache{Entries: map[string][]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		return cache
	}
	// A corrupt cache is treated as empty rather than fatal.
	var loaded formatCache
	if err := json.Unmarshal(data, &loaded); err == nil && loaded.Entries != nil {
		cache = loaded
	}
	return cache
}

func (c formatCache) save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
