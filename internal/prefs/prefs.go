// Package prefs persists the small amount of state reel keeps between runs:
// the theme, the last username and recent search terms. The file lives at
// ~/.config/reel/prefs.toml. Any problem reading it yields defaults; a
// broken prefs file never stops the client from starting.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// MaxRecentSearches bounds RecentSearches.
const MaxRecentSearches = 8

const (
	defaultPath  = "~/.config/reel/prefs.toml"
	defaultTheme = "Nightfox"
)

// Prefs is the persisted user state.
type Prefs struct {
	Theme string `toml:"theme"`
	// LastUsername prefills the login form.
	LastUsername string `toml:"last_username,omitempty"`
	// RecentSearches is newest first.
	RecentSearches []string `toml:"recent_searches,omitempty"`
}

// Defaults returns the prefs used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPath
}

// Load reads prefs from path, or the default path when empty. The error is
// informational; the returned Prefs are always usable.
func Load(path string) (Prefs, error) {
	resolved, err := resolve(path)
	if err != nil {
		return Defaults(), err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("read prefs: %w", err)
	}
	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("parse prefs: %w", err)
	}
	p.normalize()
	return p, nil
}

// Save writes p to path, creating parent directories.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	p.normalize()
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Remember records a search term as the most recent, dropping an earlier
// case-insensitive duplicate. It reports whether the list changed.
func (p *Prefs) Remember(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	if len(p.RecentSearches) > 0 && p.RecentSearches[0] == term {
		return false
	}
	next := make([]string, 0, MaxRecentSearches)
	next = append(next, term)
	for _, s := range p.RecentSearches {
		if strings.EqualFold(s, term) {
			continue
		}
		if len(next) == MaxRecentSearches {
			break
		}
		next = append(next, s)
	}
	p.RecentSearches = next
	return true
}

func (p *Prefs) normalize() {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.LastUsername = strings.TrimSpace(p.LastUsername)

	recent := p.RecentSearches
	p.RecentSearches = nil
	for i := len(recent) - 1; i >= 0; i-- {
		p.Remember(recent[i])
	}
}

func resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPath
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
