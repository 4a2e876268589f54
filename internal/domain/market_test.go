package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidOddsFiltersMalformed(t *testing.T) {
	m := MarketSnapshot{Name: "1X2", Odds: map[string]float64{
		"home": 1.85,
		"draw": 0,
		"away": -3.0,
		"void": math.NaN(),
		"inf":  math.Inf(1),
	}}

	valid := m.ValidOdds()
	require.Len(t, valid, 1)
	assert.Equal(t, 1.85, valid["home"])
}

func TestOutcomesSortedAndStable(t *testing.T) {
	m := MarketSnapshot{Odds: map[string]float64{"draw": 3.4, "away": 4.1, "home": 1.9}}

	for i := 0; i < 5; i++ {
		assert.Equal(t, []string{"away", "draw", "home"}, m.Outcomes())
	}
}

func TestImpliedTotal(t *testing.T) {
	m := MarketSnapshot{Odds: map[string]float64{"over": 2.0, "under": 2.0}}
	assert.InDelta(t, 1.0, m.ImpliedTotal(), 0.001)

	withMargin := MarketSnapshot{Odds: map[string]float64{"over": 1.9, "under": 1.9}}
	assert.InDelta(t, 1.0526, withMargin.ImpliedTotal(), 0.001)
}

func TestVolumeShares(t *testing.T) {
	v := VolumeSnapshot{Volumes: map[string]float64{"home": 8500, "draw": 1000, "away": 500}}

	assert.InDelta(t, 10000, v.Total(), 0.001)
	assert.InDelta(t, 0.85, v.Share("home"), 0.001)
	assert.Zero(t, v.Share("missing"))

	outcome, share := v.MaxShare()
	assert.Equal(t, "home", outcome)
	assert.InDelta(t, 0.85, share, 0.001)
}

func TestMaxShareTieBreaksAlphabetically(t *testing.T) {
	v := VolumeSnapshot{Volumes: map[string]float64{"zeta": 500, "alfa": 500}}

	for i := 0; i < 5; i++ {
		outcome, share := v.MaxShare()
		assert.Equal(t, "alfa", outcome)
		assert.InDelta(t, 0.5, share, 0.001)
	}
}

func TestEmptyVolume(t *testing.T) {
	var v VolumeSnapshot
	assert.Zero(t, v.Total())
	outcome, share := v.MaxShare()
	assert.Empty(t, outcome)
	assert.Zero(t, share)
}

func TestHistorySortedAndRecent(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	h := OddsHistory{Points: []OddsHistoryPoint{
		{Timestamp: base.Add(2 * time.Hour), Odds: map[string]float64{"home": 2.2}},
		{Timestamp: base, Odds: map[string]float64{"home": 2.0}},
		{Timestamp: base.Add(time.Hour), Odds: map[string]float64{"home": 2.1}},
	}}

	sorted := h.Sorted()
	assert.Equal(t, 2.0, sorted[0].Odds["home"])
	assert.Equal(t, 2.2, sorted[2].Odds["home"])

	recent := h.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, 2.1, recent[0].Odds["home"])

	// Pedir más puntos de los que hay devuelve la serie completa.
	assert.Len(t, h.Recent(10), 3)
}

func TestValuesForSkipsSparsePoints(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	h := OddsHistory{Points: []OddsHistoryPoint{
		{Timestamp: base, Odds: map[string]float64{"home": 2.0, "away": 3.5}},
		{Timestamp: base.Add(time.Hour), Odds: map[string]float64{"away": 3.6}},
		{Timestamp: base.Add(2 * time.Hour), Odds: map[string]float64{"home": 0, "away": 3.4}},
	}}

	assert.Equal(t, []float64{2.0}, h.ValuesFor("home"))
	assert.Equal(t, []float64{3.5, 3.6, 3.4}, h.ValuesFor("away"))
	assert.Empty(t, h.ValuesFor("draw"))
}

func TestMatchLabel(t *testing.T) {
	mc := MatchContext{HomeTeam: "Sevilla", AwayTeam: "Betis"}
	assert.Equal(t, "Sevilla vs Betis", mc.Label())
}
