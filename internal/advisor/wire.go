package advisor

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/upgrade-ev/internal/ev"
)

// SnapshotDoc is the YAML/JSON form of ev.Snapshot.
type SnapshotDoc struct {
	Currency           float64          `yaml:"currency" json:"currency"`
	AttributeLevels    map[string]int   `yaml:"attribute_levels" json:"attribute_levels"`
	CumulativeProgress map[string]int   `yaml:"cumulative_progress" json:"cumulative_progress"`
	BonusSources       []BonusSourceDoc `yaml:"bonus_sources" json:"bonus_sources"`
}

type BonusSourceDoc struct {
	ID            string `yaml:"id" json:"id"`
	Category      string `yaml:"category" json:"category"`
	ActivatedTier int    `yaml:"activated_tier" json:"activated_tier"`
	Thresholds    []int  `yaml:"thresholds,omitempty" json:"thresholds,omitempty"`
}

// ScoreDoc is the wire form of ev.Score.
type ScoreDoc struct {
	Action    string  `json:"action"`
	Cost      float64 `json:"cost"`
	Gain      float64 `json:"gain"`
	BonusGain float64 `json:"bonus_gain"`
	Crossings int     `json:"crossings,omitempty"`
	Ratio     float64 `json:"ratio"`
	Reason    string  `json:"reason,omitempty"`
}

// ReadSnapshot decodes a snapshot document from a YAML (or JSON) file.
func ReadSnapshot(path string) (SnapshotDoc, error) {
	var doc SnapshotDoc
	b, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ToSnapshot checks the document and converts it. Levels are never
// defaulted: a listed attribute needs an explicit level >= 1.
func (d SnapshotDoc) ToSnapshot() (ev.Snapshot, error) {
	var errs []string

	if math.IsNaN(d.Currency) || math.IsInf(d.Currency, 0) || d.Currency < 0 {
		errs = append(errs, "currency must be a finite value >= 0")
	}

	s := ev.Snapshot{
		Currency:           d.Currency,
		AttributeLevels:    make(map[ev.AttributeID]int, len(d.AttributeLevels)),
		CumulativeProgress: make(map[ev.Category]int, len(d.CumulativeProgress)),
	}
	for _, id := range sortedKeys(d.AttributeLevels) {
		lv := d.AttributeLevels[id]
		if lv < 1 {
			errs = append(errs, fmt.Sprintf("attribute_levels[%s] must be >= 1", id))
		}
		s.AttributeLevels[ev.AttributeID(id)] = lv
	}
	for _, c := range sortedKeys(d.CumulativeProgress) {
		v := d.CumulativeProgress[c]
		if v < 0 {
			errs = append(errs, fmt.Sprintf("cumulative_progress[%s] must be >= 0", c))
		}
		s.CumulativeProgress[ev.Category(c)] = v
	}
	for i, src := range d.BonusSources {
		if strings.TrimSpace(src.Category) == "" {
			errs = append(errs, fmt.Sprintf("bonus_sources[%d].category is required", i))
		}
		if src.ActivatedTier < 0 {
			errs = append(errs, fmt.Sprintf("bonus_sources[%d].activated_tier must be >= 0", i))
		}
		s.BonusSources = append(s.BonusSources, ev.BonusSource{
			ID:            src.ID,
			Category:      ev.Category(src.Category),
			ActivatedTier: src.ActivatedTier,
			Thresholds:    append([]int(nil), src.Thresholds...),
		})
	}

	if len(errs) > 0 {
		return ev.Snapshot{}, fmt.Errorf("%w: %s", ev.ErrInvalidSnapshot, strings.Join(errs, "; "))
	}
	return s, nil
}

func toScoreDoc(sc ev.Score) ScoreDoc {
	d := ScoreDoc{
		Cost:      sc.Cost,
		Gain:      sc.Gain(),
		BonusGain: sc.BonusGain,
		Crossings: sc.Crossings,
		Ratio:     sc.Ratio,
	}
	if sc.Action != nil {
		d.Action = sc.Action.String()
	}
	if sc.Err != nil {
		d.Reason = sc.Err.Error()
	}
	return d
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
