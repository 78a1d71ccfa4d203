package tables

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths locates the default table file and per-profile overrides.
type Paths struct {
	BaseDir string // e.g. /etc/upgrade-ev/tables
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}
func (p Paths) ProfilePath(profile string) string {
	return filepath.Join(p.BaseDir, "profiles", profile+".yaml")
}

// Loader reads YAML tables and merges default → profile.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: profile, "" for default only
}

// NewLoader creates a table loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Files lists the files a profile is built from, for watching.
func (l *Loader) Files(profile string) []string {
	files := []string{l.paths.DefaultPath()}
	if profile != "" {
		files = append(files, l.paths.ProfilePath(profile))
	}
	return files
}

// LoadMerged returns the default tables overlaid with the profile's file.
// The default file is required; the profile file is optional.
func (l *Loader) LoadMerged(profile string) (RawConfig, error) {
	l.mu.RLock()
	cfg, ok := l.cache[profile]
	l.mu.RUnlock()
	if ok {
		return cfg, nil
	}

	defPath := l.paths.DefaultPath()
	defCfg, found, err := readYAML(defPath)
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	if !found {
		return RawConfig{}, fmt.Errorf("read default: %s: %w", defPath, os.ErrNotExist)
	}
	merged := defCfg
	if profile != "" {
		profCfg, _, err := readYAML(l.paths.ProfilePath(profile))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read profile %q: %w", profile, err)
		}
		merged = mergeRaw(defCfg, profCfg)
	}

	l.mu.Lock()
	l.cache[profile] = merged
	l.mu.Unlock()
	return merged, nil
}

// Invalidate clears the cache. Call after the watcher reports a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML decodes one file; a missing file reports found=false and no error.
func readYAML(path string) (cfg RawConfig, found bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, true, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, true, nil
}

// mergeRaw overlays b onto a: every field b sets wins; slices and maps are
// replaced whole rather than appended.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// points
	if b.Points.PerLevel != nil {
		out.Points.PerLevel = b.Points.PerLevel
	}
	if b.Points.PerPackItem != nil {
		out.Points.PerPackItem = b.Points.PerPackItem
	}
	if b.Points.PerTierBonus != nil {
		out.Points.PerTierBonus = b.Points.PerTierBonus
	}

	// pack
	switch {
	case out.Pack == nil && b.Pack != nil:
		c := *b.Pack
		out.Pack = &c
	case out.Pack != nil && b.Pack != nil:
		c := *out.Pack
		if b.Pack.Size != nil {
			c.Size = b.Pack.Size
		}
		if b.Pack.Price != nil {
			c.Price = b.Pack.Price
		}
		if len(b.Pack.Categories) > 0 {
			c.Categories = append([]string(nil), b.Pack.Categories...)
		}
		out.Pack = &c
	}

	// attribute
	switch {
	case out.Attribute == nil && b.Attribute != nil:
		c := *b.Attribute
		out.Attribute = &c
	case out.Attribute != nil && b.Attribute != nil:
		c := *out.Attribute
		if len(b.Attribute.CostCurve) > 0 {
			c.CostCurve = append([]float64(nil), b.Attribute.CostCurve...)
		}
		if b.Attribute.EnhanceBonusProbability != nil {
			c.EnhanceBonusProbability = b.Attribute.EnhanceBonusProbability
		}
		if b.Attribute.AcquirePrice != nil {
			c.AcquirePrice = b.Attribute.AcquirePrice
		}
		// an explicit empty mapping clears the outcomes; an absent key keeps them
		if b.Attribute.BonusOutcomeProbabilities != nil {
			m := make(map[int]float64, len(b.Attribute.BonusOutcomeProbabilities))
			for k, v := range b.Attribute.BonusOutcomeProbabilities {
				m[k] = v
			}
			c.BonusOutcomeProbabilities = m
		}
		out.Attribute = &c
	}

	// tiers
	if b.Tiers != nil && len(b.Tiers.Thresholds) > 0 {
		out.Tiers = &TierConfig{Thresholds: append([]int(nil), b.Tiers.Thresholds...)}
	}

	return out
}
