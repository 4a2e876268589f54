package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

func TestClassifyNeutralWithoutSignals(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	a := c.Classify("1X2", nil, domain.CrossMarketReport{})

	assert.False(t, a.TrapDetected)
	assert.InDelta(t, 0.5, a.SafetyScore, 0.001)
	assert.Equal(t, domain.StateNormal, a.State)
	assert.Contains(t, a.Advice, "cautela")
}

func TestClassifySafeMarket(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	signals := []domain.Signal{
		domain.Safety(domain.SafetyStableOdds, "", 0.7),
		domain.Safety(domain.SafetyFairMargin, "", 0.75),
	}
	a := c.Classify("over_under_2_5", signals, domain.CrossMarketReport{})

	assert.False(t, a.TrapDetected)
	assert.InDelta(t, 1.0, a.SafetyScore, 0.001)
	assert.Contains(t, a.Advice, "seguro")
}

func TestTrapRequiresBothThresholds(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	// Ratio alto pero score total bajo: una única señal no basta.
	weak := c.Classify("1X2", []domain.Signal{
		domain.Warning(domain.AnomalyConcentratedVolume, "home", "", 0.9),
	}, domain.CrossMarketReport{})
	assert.False(t, weak.TrapDetected)

	// Score alto pero ratio diluido por indicadores de seguridad.
	diluted := c.Classify("1X2", []domain.Signal{
		domain.Warning(domain.AnomalyConcentratedVolume, "home", "", 0.6),
		domain.Warning(domain.AnomalySuddenOddsMovement, "home", "", 0.6),
		domain.Safety(domain.SafetyFairMargin, "", 0.75),
		domain.Safety(domain.SafetyHistoricalConsistency, "", 0.8),
	}, domain.CrossMarketReport{})
	assert.False(t, diluted.TrapDetected)
}

func TestClassifyResolvesTaxonomy(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	// Cuota atípica + sobrerronda abusiva: la firma del artificial_boost.
	signals := []domain.Signal{
		domain.Warning(domain.AnomalyOutlierHighOdds, "away", "", 0.6),
		domain.Warning(domain.AnomalyHighOverround, "", "", 0.5),
	}
	a := c.Classify("1X2", signals, domain.CrossMarketReport{})

	require.True(t, a.TrapDetected)
	assert.Equal(t, domain.TrapArtificialBoost, a.TrapType)
	// Ratio 1.0 sobre umbral 0.65 dispara la severidad al tope.
	assert.InDelta(t, 1.0, a.TrapSeverity, 0.001)
	assert.InDelta(t, 0.95, a.Confidence, 0.001, "confianza saturada en 0.95")
	assert.Equal(t, domain.StateConfirmedTrap, a.State)
	assert.Contains(t, a.Advice, "EVITAR")
}

func TestClassifyTieBreakByRegistryOrder(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	// rapid_odds_shift (steam_move) y heavy_public_favorite (false_favorite)
	// empatan a un patrón cada uno: gana la entrada registrada antes.
	signals := []domain.Signal{
		domain.Warning(domain.AnomalySuddenOddsMovement, "home", "", 0.8),
		domain.Warning(domain.AnomalyConcentratedVolume, "home", "", 0.9),
		domain.Safety(domain.SafetyStableOdds, "", 0.7),
	}
	a := c.Classify("1X2", signals, domain.CrossMarketReport{})

	require.True(t, a.TrapDetected)
	assert.Equal(t, domain.TrapFalseFavorite, a.TrapType)
}

func TestClassifyGenericFallback(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	// Anomalías sin patrón registrado: cae al arquetipo genérico.
	signals := []domain.Signal{
		domain.Warning(domain.AnomalyType("anomalia_desconocida"), "", "", 0.8),
		domain.Warning(domain.AnomalyType("otra_desconocida"), "", "", 0.4),
	}
	a := c.Classify("1X2", signals, domain.CrossMarketReport{})

	require.True(t, a.TrapDetected)
	assert.Equal(t, domain.TrapGeneric, a.TrapType)
	assert.InDelta(t, 0.8, a.TrapSeverity, 0.001)
	assert.InDelta(t, 0.9, a.Confidence, 0.001)
}

func TestCorrelationBonus(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	signals := []domain.Signal{
		domain.Warning(domain.AnomalySuddenOddsMovement, "home", "", 0.8),
		domain.Warning(domain.AnomalyConcentratedVolume, "home", "", 0.9),
		domain.Safety(domain.SafetyStableOdds, "", 0.7),
	}

	alone := c.Classify("1X2", signals, domain.CrossMarketReport{})

	report := domain.CrossMarketReport{
		Correlated: true,
		Strength:   0.5,
		Groups:     [][]string{{"1X2", "btts"}},
	}
	grouped := c.Classify("1X2", signals, report)

	assert.InDelta(t, alone.Confidence+0.05, grouped.Confidence, 0.001)

	// Mercados fuera del grupo no reciben el refuerzo.
	outside := c.Classify("asian_handicap", signals, report)
	assert.InDelta(t, alone.Confidence, outside.Confidence, 0.001)
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	signals := []domain.Signal{
		domain.Warning(domain.AnomalyOutlierLowOdds, "home", "", 0.7),
		domain.Warning(domain.AnomalyConcentratedVolume, "home", "", 0.9),
		domain.Safety(domain.SafetyFairMargin, "", 0.75),
	}

	first := c.Classify("1X2", signals, domain.CrossMarketReport{})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify("1X2", signals, domain.CrossMarketReport{}))
	}
}
