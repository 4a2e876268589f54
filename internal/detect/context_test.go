package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

func TestEmptyContextQuiet(t *testing.T) {
	d := NewContextIntegrator(DefaultConfig())

	signals := d.Detect(Input{Market: market("1X2", map[string]float64{"home": 1.9, "away": 2.1})})
	assert.Nil(t, signals)
}

func TestFactorBelowFloorIgnored(t *testing.T) {
	d := NewContextIntegrator(DefaultConfig())

	signals := d.Detect(Input{
		Market: market("1X2", map[string]float64{"home": 1.9, "away": 2.1}),
		Context: domain.ContextSignals{Factors: []domain.ContextFactor{
			{Kind: domain.FactorKeyAbsences, Team: "Sevilla", Impact: 0.15},
		}},
	})

	assert.Empty(t, signals)
}

func TestFactorWeightedByMarketClass(t *testing.T) {
	d := NewContextIntegrator(DefaultConfig())
	ctx := domain.ContextSignals{Factors: []domain.ContextFactor{
		{Kind: domain.FactorKeyAbsences, Team: "Sevilla", Favors: "away", Impact: 0.6, Description: "bajas"},
	}}

	// Las bajas pesan 1.0 en mercados de goles y 0.4 en tarjetas.
	goals := d.Detect(Input{
		Market:  market("over_under_2_5", map[string]float64{"over": 1.9, "under": 1.9}),
		Context: ctx,
	})
	require.Len(t, goals, 1)
	assert.Equal(t, domain.AnomalyKeyPlayerAbsence, goals[0].Type)
	assert.Equal(t, "away", goals[0].Outcome)
	assert.InDelta(t, 0.6, goals[0].Severity, 0.001)
	assert.InDelta(t, 0.8, goals[0].Confidence, 0.001)

	cards := d.Detect(Input{
		Market:  market("total_cards", map[string]float64{"over": 1.9, "under": 1.9}),
		Context: ctx,
	})
	require.Len(t, cards, 1)
	assert.InDelta(t, 0.24, cards[0].Severity, 0.001)
}

func TestAggregateInstabilitySignal(t *testing.T) {
	d := NewContextIntegrator(DefaultConfig())

	signals := d.Detect(Input{
		Market: market("1X2", map[string]float64{"home": 1.9, "away": 2.1}),
		Context: domain.ContextSignals{
			InstabilityFactor: 0.5,
		},
	})

	require.Len(t, signals, 1)
	assert.Equal(t, domain.AnomalyTeamInstability, signals[0].Type)
	// 0.5 × peso 0.9 en mercados de resultado.
	assert.InDelta(t, 0.45, signals[0].Severity, 0.001)
}

func TestClassifyMarket(t *testing.T) {
	cases := map[string]marketClass{
		"1X2":            classResult,
		"match_winner":   classResult,
		"double_chance":  classResult,
		"over_under_2_5": classGoals,
		"btts":           classGoals,
		"asian_handicap": classHandicap,
		"total_cards":    classCards,
		"corners_total":  classCards,
		"first_scorer":   classGoals,
		"desconocido":    classOther,
	}
	for name, want := range cases {
		assert.Equal(t, want, classifyMarket(name), "market %s", name)
	}
}
