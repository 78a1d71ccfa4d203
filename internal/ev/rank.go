package ev

import (
	"sort"
)

// Candidates lists every action worth scoring for a snapshot: one pack per
// known category, one advance per owned attribute, and one acquisition.
// The order is stable so rankings with ties are reproducible.
func Candidates(s Snapshot, t Tables) []Action {
	cats := make(map[Category]bool)
	for _, c := range t.PackCategories {
		cats[c] = true
	}
	for _, src := range s.BonusSources {
		cats[src.Category] = true
	}
	catList := make([]string, 0, len(cats))
	for c := range cats {
		if c != "" {
			catList = append(catList, string(c))
		}
	}
	sort.Strings(catList)

	attrs := make([]string, 0, len(s.AttributeLevels))
	for id := range s.AttributeLevels {
		attrs = append(attrs, string(id))
	}
	sort.Strings(attrs)

	out := make([]Action, 0, len(catList)+len(attrs)+1)
	for _, c := range catList {
		out = append(out, PurchasePack{Category: Category(c)})
	}
	for _, id := range attrs {
		out = append(out, AdvanceAttribute{Attribute: AttributeID(id)})
	}
	return append(out, AcquireNewAttribute{})
}

// Rank scores each action once and orders them best first. Actions scoring
// 0 stay in the result, after every positive score, with Err explaining why.
// Ties are broken by Action.String.
func (e *Evaluator) Rank(actions []Action, s Snapshot) []Score {
	out := make([]Score, 0, len(actions))
	for _, a := range actions {
		sc, err := e.Explain(a, s)
		if err != nil {
			sc.Ratio = 0
			sc.Err = err
		}
		out = append(out, sc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ratio != out[j].Ratio {
			return out[i].Ratio > out[j].Ratio
		}
		return actionKey(out[i].Action) < actionKey(out[j].Action)
	})
	return out
}

func actionKey(a Action) string {
	if a == nil {
		return ""
	}
	return a.String()
}
