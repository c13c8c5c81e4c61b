// Package prefs remembers the theme and the open tab between listkeeper runs.
//
// The file lives at ~/.config/listkeeper/prefs.toml unless a path is given.
// Reading it never fails: anything unusable yields the defaults, so a broken
// prefs file cannot keep the lists from opening.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs is the state restored at startup.
type Prefs struct {
	Theme string `toml:"theme"`
	Tab   string `toml:"tab"` // screen key, e.g. "shopping"
}

const (
	defaultPrefsPath = "~/.config/listkeeper/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the unexpanded location used for an empty path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load returns the saved preferences at path, or the defaults when the file
// is absent, unreadable or not valid TOML. Callers validate Tab themselves
// since the set of screens is not known here.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return defaults()
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return defaults()
	}
	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return defaults()
	}
	return p.normalized()
}

// Save replaces the file at path with p. The new contents are written to a
// sibling temp file first so an interrupted save leaves the old file intact.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.Tab = strings.TrimSpace(p.Tab)
	return p
}

func resolvePath(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = defaultPrefsPath
	}
	if rest, ok := strings.CutPrefix(p, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		p = filepath.Join(home, rest)
	}
	return filepath.Abs(p)
}
