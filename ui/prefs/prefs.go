// Package prefs persists user preferences as JSON in the platform config
// directory.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	appDirName = "tilemapper"
	fileName   = "prefs.json"
)

// Preferences holds the persisted editor settings.
type Preferences struct {
	SnapToGrid     bool `json:"snap_to_grid"`
	SnapToFineGrid bool `json:"snap_to_fine_grid"`
	GridFine       int  `json:"grid_fine"`

	WindowWidth  int     `json:"window_width"`
	WindowHeight int     `json:"window_height"`
	Zoom         float64 `json:"zoom"`
}

// Default returns the stock preferences.
func Default() *Preferences {
	return &Preferences{
		SnapToGrid:   true,
		GridFine:     4,
		WindowWidth:  1280,
		WindowHeight: 800,
		Zoom:         1.0,
	}
}

func prefsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDirName, fileName), nil
}

// Load reads the preferences file, falling back to defaults when it does not
// exist or cannot be parsed.
func Load() *Preferences {
	p := Default()

	path, err := prefsPath()
	if err != nil {
		return p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}

	if err := json.Unmarshal(data, p); err != nil {
		return Default()
	}
	if p.GridFine < 1 {
		p.GridFine = Default().GridFine
	}
	return p
}

// Save writes the preferences file, creating the config directory if needed.
func (p *Preferences) Save() error {
	path, err := prefsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
