// Package prefs persists small keyed settings outside the relational
// store: the PIN, the chosen theme, and the gamification level and XP.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"soldi/internal/core"
)

// Theme names a selectable color theme. Themes beyond the defaults are
// unlocked by gamification level.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeOcean  Theme = "ocean"
	ThemeSunset Theme = "sunset"
)

// themeLevels maps each theme to the level required to select it.
var themeLevels = map[Theme]int{
	ThemeLight:  1,
	ThemeDark:   1,
	ThemeOcean:  3,
	ThemeSunset: 5,
}

const xpPerLevel = 100

// fileData is the on-disk layout. The PIN is never stored in the clear;
// only its bcrypt hash is written.
type fileData struct {
	PINHash string `json:"pin_hash,omitempty"`
	Theme   Theme  `json:"theme,omitempty"`
	Level   int    `json:"level"`
	XP      int    `json:"xp"`
}

// Preferences is a file-backed key-value store. Each setter rewrites
// the file atomically (write to temp, rename), so a crash mid-write
// never leaves a torn file behind.
type Preferences struct {
	path string

	mu   sync.Mutex
	data fileData
}

// Open loads the preference file at path, creating defaults when it
// does not exist yet.
func Open(path string) (*Preferences, error) {
	p := &Preferences{path: path, data: fileData{Level: 1}}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := json.Unmarshal(raw, &p.data); err != nil {
		return nil, fmt.Errorf("parse preferences: %w", err)
	}
	if p.data.Level < 1 {
		p.data.Level = 1
	}
	if p.data.XP < 0 {
		p.data.XP = 0
	}
	return p, nil
}

// SetPIN hashes and stores a new PIN.
func (p *Preferences) SetPIN(pin string) error {
	if len(pin) < 4 {
		return fmt.Errorf("%w: PIN must be at least 4 characters", core.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash PIN: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.PINHash = string(hash)
	return p.save()
}

// VerifyPIN reports whether pin matches the stored one. A store without
// a PIN never matches.
func (p *Preferences) VerifyPIN(pin string) bool {
	p.mu.Lock()
	hash := p.data.PINHash
	p.mu.Unlock()

	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// HasPIN reports whether a PIN has been set.
func (p *Preferences) HasPIN() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.PINHash != ""
}

// ClearPIN removes the stored PIN.
func (p *Preferences) ClearPIN() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.PINHash = ""
	return p.save()
}

// Theme returns the selected theme, defaulting to light.
func (p *Preferences) Theme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data.Theme == "" {
		return ThemeLight
	}
	return p.data.Theme
}

// SetTheme selects a theme. Unknown themes and themes not yet unlocked
// by the current level are rejected.
func (p *Preferences) SetTheme(t Theme) error {
	required, ok := themeLevels[t]
	if !ok {
		return fmt.Errorf("%w: unknown theme %q", core.ErrValidation, t)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data.Level < required {
		return fmt.Errorf("%w: theme %q unlocks at level %d", core.ErrValidation, t, required)
	}
	p.data.Theme = t
	return p.save()
}

// Level returns the gamification level, at least 1.
func (p *Preferences) Level() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.Level
}

// XP returns the accumulated experience points.
func (p *Preferences) XP() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.XP
}

// AddXP grants experience points and returns the resulting level. The
// level only ever rises: one level per full xpPerLevel earned.
func (p *Preferences) AddXP(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: XP grant must be positive", core.ErrValidation)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.XP += n
	if level := 1 + p.data.XP/xpPerLevel; level > p.data.Level {
		p.data.Level = level
	}
	if err := p.save(); err != nil {
		return 0, err
	}
	return p.data.Level, nil
}

// save writes the whole file atomically. Callers hold p.mu.
func (p *Preferences) save() error {
	raw, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}
