package ev

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates(t *testing.T) {
	s := richSnapshot()
	s.BonusSources = append(s.BonusSources, BonusSource{ID: "x", Category: "Alpha"})

	got := Candidates(s, testTables())
	names := make([]string, len(got))
	for i, a := range got {
		names[i] = a.String()
	}
	assert.Equal(t, []string{
		"pack:Alpha", "pack:Focus", "pack:Grace",
		"advance:crown", "advance:spark", "advance:tide",
		"acquire",
	}, names)
}

func TestRankOrdersBestFirst(t *testing.T) {
	e := newTestEvaluator(t, testTables())
	s := richSnapshot()

	ranked := e.Rank(Candidates(s, e.Tables()), s)
	require.Len(t, ranked, 6)

	assert.Equal(t, "pack:Focus", ranked[0].Action.String())
	assert.Equal(t, "advance:tide", ranked[1].Action.String())
	assert.Equal(t, "pack:Grace", ranked[2].Action.String())
	assert.Equal(t, "acquire", ranked[3].Action.String())
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Ratio, ranked[i].Ratio)
	}

	last := ranked[len(ranked)-1]
	assert.Equal(t, "advance:crown", last.Action.String())
	assert.Zero(t, last.Ratio)
	assert.ErrorIs(t, last.Err, ErrMaxLevel)
}

func TestParseAction(t *testing.T) {
	for _, a := range []Action{
		PurchasePack{Category: "Focus"},
		AdvanceAttribute{Attribute: "spark"},
		AcquireNewAttribute{},
	} {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	for _, bad := range []string{"", "pack", "pack:", "advance: ", "acquire:x", "sell:Focus"} {
		_, err := ParseAction(bad)
		assert.Error(t, err, bad)
	}
	_, err := ParseAction("sell:Focus")
	assert.ErrorIs(t, err, ErrUnknownAction)
}
