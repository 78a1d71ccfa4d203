package ev

// BonusSource pays a fixed reward each time cumulative progress in its
// category crosses one of its tier thresholds.
type BonusSource struct {
	ID       string
	Category Category

	// ActivatedTier counts tiers already paid out; thresholds below it are skipped.
	ActivatedTier int

	// Thresholds overrides Tables.TierThresholds when non-empty.
	Thresholds []int
}

// Snapshot is the player's progress at the moment of evaluation.
// The engine only reads it.
type Snapshot struct {
	Currency float64

	// Every owned attribute must be listed with an explicit level >= 1.
	AttributeLevels map[AttributeID]int

	// CumulativeProgress counts items ever bought per category.
	CumulativeProgress map[Category]int
	BonusSources       []BonusSource
}
