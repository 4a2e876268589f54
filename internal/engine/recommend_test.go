package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

func analysesFixture() map[string]domain.MarketAnalysis {
	return map[string]domain.MarketAnalysis{
		"1X2": {
			Market: "1X2", TrapDetected: true, TrapType: domain.TrapFalseFavorite,
			TrapSeverity: 0.85, Confidence: 0.8, Description: "favorito sobrevalorado",
		},
		"over_under_2_5": {
			Market: "over_under_2_5", SafetyScore: 0.9, Advice: "seguro",
		},
		"btts": {
			Market: "btts", SafetyScore: 0.75, Advice: "seguro",
		},
		"asian_handicap": {
			Market: "asian_handicap", SafetyScore: 0.5,
		},
	}
}

func TestSafeMarketsRankingAndCutoff(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	safe := r.safeMarkets(analysesFixture())

	require.Len(t, safe, 2)
	assert.Equal(t, "over_under_2_5", safe[0].Market)
	assert.Equal(t, "btts", safe[1].Market)
}

func TestSafeMarketsExcludeTraps(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	analyses := analysesFixture()
	// Un mercado con trampa nunca es recomendable aunque puntúe alto.
	trapped := analyses["1X2"]
	trapped.SafetyScore = 0.95
	analyses["1X2"] = trapped

	for _, m := range r.safeMarkets(analyses) {
		assert.NotEqual(t, "1X2", m.Market)
	}
}

func TestSafeMarketsCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSafeMarkets = 1
	r := NewRecommender(cfg)

	safe := r.safeMarkets(analysesFixture())
	require.Len(t, safe, 1)
	assert.Equal(t, "over_under_2_5", safe[0].Market)
}

func TestRiskMarketsThreshold(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	analyses := analysesFixture()
	analyses["btts"] = domain.MarketAnalysis{
		Market: "btts", TrapDetected: true, TrapSeverity: 0.4, // por debajo del mínimo
	}

	risk := r.riskMarkets(analyses)
	require.Len(t, risk, 1)
	assert.Equal(t, "1X2", risk[0].Market)
	assert.InDelta(t, 0.85, risk[0].RiskLevel, 0.001)
}

func TestTrapsSortedByMarket(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	analyses := analysesFixture()
	analyses["btts"] = domain.MarketAnalysis{
		Market: "btts", TrapDetected: true, TrapType: domain.TrapSteamMove, TrapSeverity: 0.7,
	}

	traps := r.traps(analyses)
	require.Len(t, traps, 2)
	assert.Equal(t, "1X2", traps[0].Market)
	assert.Equal(t, "btts", traps[1].Market)
}

func TestRiskLevel(t *testing.T) {
	assert.Zero(t, riskLevel(nil))

	// Una trampa: media 0.6, factor 2/3.
	one := riskLevel([]domain.TrapSummary{{Severity: 0.8, Confidence: 0.75}})
	assert.InDelta(t, 0.4, one, 0.001)

	// Tres trampas: el factor satura en 1.0.
	three := riskLevel([]domain.TrapSummary{
		{Severity: 0.8, Confidence: 0.75},
		{Severity: 0.8, Confidence: 0.75},
		{Severity: 0.8, Confidence: 0.75},
	})
	assert.InDelta(t, 0.6, three, 0.001)
}

func TestRecommendationsVerdicts(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	t.Run("riesgo dominante", func(t *testing.T) {
		recs := r.recommendations(nil, []domain.RiskMarket{
			{Market: "1X2", RiskLevel: 0.85},
			{Market: "btts", RiskLevel: 0.7},
		})
		require.Len(t, recs, 2)
		assert.Equal(t, domain.RecommendAvoid, recs[0].Type)
		assert.InDelta(t, 0.85, recs[0].Confidence, 0.001)
		assert.Equal(t, domain.RecommendCaution, recs[1].Type)
	})

	t.Run("sin trampas", func(t *testing.T) {
		recs := r.recommendations([]domain.SafeMarket{{Market: "btts", SafetyScore: 0.9}}, nil)
		require.Len(t, recs, 2)
		assert.Equal(t, domain.RecommendSafeMarkets, recs[0].Type)
		assert.InDelta(t, 0.85, recs[0].Confidence, 0.001, "confianza saturada en 0.85")
		assert.Equal(t, domain.RecommendConfidence, recs[1].Type)
	})

	t.Run("mixto", func(t *testing.T) {
		recs := r.recommendations(
			[]domain.SafeMarket{{Market: "btts", SafetyScore: 0.8}},
			[]domain.RiskMarket{{Market: "1X2", RiskLevel: 0.85}},
		)
		require.Len(t, recs, 3)
		assert.Equal(t, domain.RecommendSelective, recs[2].Type)
	})
}
