package smartplaylist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes playlists to path as a JSON array, atomically: the file
// is written to a temp sibling and renamed into place so readers never
// observe a partial list. Rule and group order is preserved exactly.
func Save(path string, playlists []SmartPlaylist) error {
	for i, p := range playlists {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("playlist %d (%s): %w", i, p.Name, err)
		}
	}

	payload, err := json.MarshalIndent(playlists, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode playlists: %w", err)
	}
	payload = append(payload, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create playlist directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write playlists: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("failed to replace playlist file: %w", err)
	}
	return nil
}

// Load reads playlists from path. A missing file is an empty library,
// not an error. A file that exists but cannot be decoded or validated
// fails loudly; corruption must never masquerade as an empty or
// partially-loaded list.
func Load(path string) ([]SmartPlaylist, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []SmartPlaylist{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read playlists: %w", err)
	}

	var playlists []SmartPlaylist
	if err := json.Unmarshal(data, &playlists); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptFile, path, err)
	}

	for i, p := range playlists {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: playlist %d (%s): %v", ErrCorruptFile, i, p.Name, err)
		}
	}
	return playlists, nil
}
