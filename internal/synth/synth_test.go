package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

func TestOddsMatchTargetMargin(t *testing.T) {
	g := New(42)

	odds := g.Odds([]string{"home", "draw", "away"}, 1.08)
	require.Len(t, odds, 3)

	snapshot := domain.MarketSnapshot{Name: "1X2", Odds: odds}
	// El redondeo a dos decimales desvía el margen unos centésimos.
	assert.InDelta(t, 1.08, snapshot.ImpliedTotal(), 0.02)
	for outcome, v := range odds {
		assert.GreaterOrEqual(t, v, 1.01, "outcome %s", outcome)
	}
}

func TestVolumesConcentration(t *testing.T) {
	g := New(7)
	outcomes := []string{"home", "draw", "away"}

	volumes := g.Volumes(outcomes, 10000, "home")
	snap := domain.VolumeSnapshot{Volumes: volumes}

	assert.InDelta(t, 10000, snap.Total(), 0.01)
	assert.GreaterOrEqual(t, snap.Share("home"), 0.70)

	spread := g.Volumes(outcomes, 10000, "")
	assert.InDelta(t, 10000, domain.VolumeSnapshot{Volumes: spread}.Total(), 0.01)
}

func TestHistoryDrift(t *testing.T) {
	g := New(11)
	current := map[string]float64{"home": 2.0, "away": 2.0}

	history := g.History(current, 6, 0.3)
	require.Len(t, history.Points, 6)

	// Con deriva positiva la serie arranca por debajo de la cuota actual.
	first := history.Points[0].Odds["home"]
	assert.Less(t, first, 2.0)
	assert.Less(t, history.AverageOdds["home"], 2.0)
}

func TestSameSeedSameData(t *testing.T) {
	a := New(99).Match("Sevilla", "Betis")
	b := New(99).Match("Sevilla", "Betis")

	assert.Equal(t, a.Odds, b.Odds)
	assert.Equal(t, a.Volumes, b.Volumes)

	c := New(100).Match("Sevilla", "Betis")
	assert.NotEqual(t, a.Odds, c.Odds)
}

func TestTrapMatchPlantsAnomalies(t *testing.T) {
	req := New(5).TrapMatch("Sevilla", "Betis")

	assert.Equal(t, 1.15, req.Odds["1X2"]["home"])

	snap := domain.VolumeSnapshot{Volumes: req.Volumes["1X2"]}
	assert.GreaterOrEqual(t, snap.Share("home"), 0.70)
	assert.NotEmpty(t, req.History["1X2"].Points)
}
