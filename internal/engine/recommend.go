package engine

// recommend.go — ranking de mercados y recomendaciones de apuesta.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// Recommender convierte los veredictos por mercado en listas ordenadas de
// mercados seguros y de riesgo, un nivel global de riesgo y recomendaciones
// textuales.
type Recommender struct {
	cfg Config
}

// NewRecommender crea un generador de recomendaciones.
func NewRecommender(cfg Config) *Recommender {
	return &Recommender{cfg: cfg}
}

// safeMarkets devuelve los mercados sin trampa con puntuación de seguridad
// alta, ordenados de más a menos seguros y limitados al máximo configurado.
func (r *Recommender) safeMarkets(analyses map[string]domain.MarketAnalysis) []domain.SafeMarket {
	var safe []domain.SafeMarket
	for _, a := range analyses {
		if a.TrapDetected || a.SafetyScore <= r.cfg.SafetyCutoff {
			continue
		}
		safe = append(safe, domain.SafeMarket{
			Market:      a.Market,
			SafetyScore: a.SafetyScore,
			Advice:      a.Advice,
		})
	}

	sort.Slice(safe, func(i, j int) bool {
		if safe[i].SafetyScore != safe[j].SafetyScore {
			return safe[i].SafetyScore > safe[j].SafetyScore
		}
		return safe[i].Market < safe[j].Market
	})

	if len(safe) > r.cfg.MaxSafeMarkets {
		safe = safe[:r.cfg.MaxSafeMarkets]
	}
	return safe
}

// riskMarkets devuelve los mercados con trampa de severidad relevante,
// ordenados de mayor a menor riesgo.
func (r *Recommender) riskMarkets(analyses map[string]domain.MarketAnalysis) []domain.RiskMarket {
	var risk []domain.RiskMarket
	for _, a := range analyses {
		if !a.TrapDetected || a.TrapSeverity < r.cfg.MinTrapSeverity {
			continue
		}
		risk = append(risk, domain.RiskMarket{
			Market:    a.Market,
			RiskLevel: a.TrapSeverity,
			Warning:   a.Description,
		})
	}

	sort.Slice(risk, func(i, j int) bool {
		if risk[i].RiskLevel != risk[j].RiskLevel {
			return risk[i].RiskLevel > risk[j].RiskLevel
		}
		return risk[i].Market < risk[j].Market
	})
	return risk
}

// traps resume todas las trampas detectadas en orden estable por mercado.
func (r *Recommender) traps(analyses map[string]domain.MarketAnalysis) []domain.TrapSummary {
	var traps []domain.TrapSummary
	for _, a := range analyses {
		if !a.TrapDetected {
			continue
		}
		traps = append(traps, domain.TrapSummary{
			Market:      a.Market,
			TrapType:    a.TrapType,
			Severity:    a.TrapSeverity,
			Confidence:  a.Confidence,
			Description: a.Description,
		})
	}
	sort.Slice(traps, func(i, j int) bool { return traps[i].Market < traps[j].Market })
	return traps
}

// riskLevel calcula el nivel global: media de severidad×confianza de las
// trampas, escalada por un factor que crece con el número de trampas
// simultáneas (más trampas a la vez = más cautela global).
func riskLevel(traps []domain.TrapSummary) float64 {
	if len(traps) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range traps {
		sum += t.Severity * t.Confidence
	}
	avg := sum / float64(len(traps))
	factor := min(1.0, 0.5+float64(len(traps))/3.0*0.5)
	return min(1.0, avg*factor)
}

// recommendations genera los registros textuales: evitar, mercados seguros
// y el veredicto global.
func (r *Recommender) recommendations(safe []domain.SafeMarket, risk []domain.RiskMarket) []domain.Recommendation {
	var recs []domain.Recommendation

	if len(risk) > 0 {
		names := make([]string, len(risk))
		maxRisk := 0.0
		for i, m := range risk {
			names[i] = m.Market
			if m.RiskLevel > maxRisk {
				maxRisk = m.RiskLevel
			}
		}
		recs = append(recs, domain.Recommendation{
			Type:        domain.RecommendAvoid,
			Markets:     names,
			Description: fmt.Sprintf("Evitar estos mercados de alto riesgo: %s", strings.Join(names, ", ")),
			Confidence:  min(0.9, maxRisk),
		})
	}

	if len(safe) > 0 {
		names := make([]string, len(safe))
		maxSafety := 0.0
		for i, m := range safe {
			names[i] = m.Market
			if m.SafetyScore > maxSafety {
				maxSafety = m.SafetyScore
			}
		}
		recs = append(recs, domain.Recommendation{
			Type:        domain.RecommendSafeMarkets,
			Markets:     names,
			Description: fmt.Sprintf("Mercados considerados seguros: %s", strings.Join(names, ", ")),
			Confidence:  min(0.85, maxSafety),
		})
	}

	// Veredicto global según la relación riesgo/seguridad.
	switch {
	case len(risk) > len(safe)*2:
		recs = append(recs, domain.Recommendation{
			Type:        domain.RecommendCaution,
			Description: "PRUDENCIA GLOBAL - Numerosos mercados de riesgo detectados",
			Confidence:  0.8,
		})
	case len(safe) > 0 && len(risk) == 0:
		recs = append(recs, domain.Recommendation{
			Type:        domain.RecommendConfidence,
			Description: "CONDICIONES FAVORABLES - Ninguna trampa mayor detectada",
			Confidence:  0.75,
		})
	default:
		recs = append(recs, domain.Recommendation{
			Type:        domain.RecommendSelective,
			Description: "ENFOQUE SELECTIVO - Limitarse a los mercados considerados seguros",
			Confidence:  0.7,
		})
	}

	return recs
}
