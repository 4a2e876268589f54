package history

// strategy.go — estrategia de evitación por equipo a partir del histórico.
//
// El score pondera frecuencia (0.4), severidad media (0.3) y actividad
// reciente (0.3). Los pesos favorecen la frecuencia: un equipo que aparece
// una y otra vez en trampas es mejor predictor que un pico aislado severo.

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

const (
	weightFrequency = 0.4
	weightSeverity  = 0.3
	weightRecency   = 0.3

	// Saturación de cada componente.
	frequencySaturation = 10 // registros
	recencySaturation   = 5  // registros en 30 días
	recencyWindow       = 30 * 24 * time.Hour

	// Un mercado repetido es candidato a evitar.
	avoidMarketMinCount = 2

	strategyRecordLimit = 100
)

// StrategyTier gradúa la recomendación de evitación.
type StrategyTier string

const (
	TierLow      StrategyTier = "low"
	TierModerate StrategyTier = "moderate"
	TierHigh     StrategyTier = "high"
)

// Strategy es la recomendación de evitación para un equipo.
type Strategy struct {
	Team           string
	RiskScore      float64 // 0-1
	Tier           StrategyTier
	MarketsToAvoid []string
	Advice         string
}

// StrategyFor calcula la estrategia de evitación de un equipo leyendo su
// histórico del storage.
func (a *Analyzer) StrategyFor(ctx context.Context, team string) (Strategy, error) {
	records, err := a.storage.RecordsForTeam(ctx, team, strategyRecordLimit)
	if err != nil {
		return Strategy{}, fmt.Errorf("history.StrategyFor %q: %w", team, err)
	}
	return BuildStrategy(team, records, a.now()), nil
}

// BuildStrategy calcula la estrategia sobre registros ya cargados.
func BuildStrategy(team string, records []domain.TrapRecord, now time.Time) Strategy {
	s := Strategy{Team: team, Tier: TierLow}
	if len(records) == 0 {
		s.Advice = "Sin histórico de trampas, operar con normalidad"
		return s
	}

	totalSeverity := 0.0
	recent := 0
	marketCounts := make(map[string]int)
	for _, r := range records {
		totalSeverity += r.Severity
		if now.Sub(r.DetectedAt) <= recencyWindow {
			recent++
		}
		marketCounts[r.Market]++
	}

	frequency := min(1, float64(len(records))/frequencySaturation)
	severity := totalSeverity / float64(len(records))
	recency := min(1, float64(recent)/recencySaturation)

	s.RiskScore = weightFrequency*frequency + weightSeverity*severity + weightRecency*recency

	for _, market := range topKeys(marketCounts, 0) {
		if marketCounts[market] >= avoidMarketMinCount {
			s.MarketsToAvoid = append(s.MarketsToAvoid, market)
		}
	}

	switch {
	case s.RiskScore >= 0.7:
		s.Tier = TierHigh
		s.Advice = fmt.Sprintf("Historial de trampas denso en partidos de %s, evitar los mercados señalados", team)
	case s.RiskScore >= 0.4:
		s.Tier = TierModerate
		s.Advice = fmt.Sprintf("Trampas recurrentes en partidos de %s, revisar cada mercado antes de entrar", team)
	default:
		s.Tier = TierLow
		s.Advice = "Histórico escaso, sin patrón de evitación claro"
	}
	return s
}
