// types.go
package tables

// RawConfig mirrors one YAML table file. Pointer and slice fields stay nil
// when absent so a profile can override only what it names.
type RawConfig struct {
	Version   string           `yaml:"version"`
	Points    PointsConfig     `yaml:"points"`
	Pack      *PackConfig      `yaml:"pack,omitempty"`
	Attribute *AttributeConfig `yaml:"attribute,omitempty"`
	Tiers     *TierConfig      `yaml:"tiers,omitempty"`
	Notes     string           `yaml:"notes,omitempty"`
}

type PointsConfig struct {
	PerLevel     *float64 `yaml:"per_level"`
	PerPackItem  *float64 `yaml:"per_pack_item"`
	PerTierBonus *float64 `yaml:"per_tier_bonus"`
}

type PackConfig struct {
	Size       *int     `yaml:"size"`
	Price      *float64 `yaml:"price"`
	Categories []string `yaml:"categories,omitempty"`
}

type AttributeConfig struct {
	CostCurve               []float64 `yaml:"cost_curve"` // .inf marks a level that cannot advance
	EnhanceBonusProbability *float64  `yaml:"enhance_bonus_probability"`
	AcquirePrice            *float64  `yaml:"acquire_price"`

	// extra levels -> probability; outcomes are independent
	BonusOutcomeProbabilities map[int]float64 `yaml:"bonus_outcome_probabilities,omitempty"`
}

type TierConfig struct {
	Thresholds []int `yaml:"thresholds"`
}
