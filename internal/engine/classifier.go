package engine

// classifier.go — fusión de señales y clasificación taxonómica por mercado.

import (
	"fmt"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// Classifier agrega las señales de un mercado en un veredicto: puntuación
// de seguridad, detección de trampa y resolución contra la taxonomía.
// Es determinista: señales idénticas + reporte idéntico → mismo veredicto.
type Classifier struct {
	cfg Config
}

// NewClassifier crea un clasificador con los umbrales dados.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify fusiona las señales de un mercado consultando el reporte de
// correlación entre mercados como modificador de confianza (solo lectura).
func (c *Classifier) Classify(market string, signals []domain.Signal, report domain.CrossMarketReport) domain.MarketAnalysis {
	analysis := domain.MarketAnalysis{
		Market:      market,
		Signals:     signals,
		SafetyScore: 0.5, // sin señales en ningún sentido: neutral
	}

	warningScore, safetyScore := scoreSignals(signals)
	total := warningScore + safetyScore
	if total > 0 {
		analysis.SafetyScore = safetyScore / total
	}

	warningRatio := 0.0
	if total > 0 {
		warningRatio = warningScore / total
	}

	// Un mercado con muchas señales débiles pero score total bajo no se
	// marca: hacen falta ambas condiciones.
	if warningRatio > c.cfg.WarningRatioThreshold && warningScore > c.cfg.WarningScoreThreshold {
		c.resolveTrap(&analysis, signals, warningRatio, report)
	}

	analysis.State = domain.StateForSeverity(analysis.TrapSeverity)
	analysis.Advice = advice(analysis)
	return analysis
}

// resolveTrap determina el arquetipo de trampa que mejor explica las
// señales y fija severidad, confianza y descripción.
func (c *Classifier) resolveTrap(analysis *domain.MarketAnalysis, signals []domain.Signal, warningRatio float64, report domain.CrossMarketReport) {
	analysis.TrapDetected = true
	patterns := domain.ResolvePatterns(signals)

	// Mejor entrada por número de patrones coincidentes. El recorrido en
	// orden de registro con comparación estricta resuelve empates a favor
	// de la primera entrada registrada.
	var best *domain.TrapTaxonomyEntry
	bestMatches := 0
	for i, entry := range domain.Taxonomy() {
		matches := countMatches(patterns, entry.Patterns)
		if matches > bestMatches {
			bestMatches = matches
			best = &domain.Taxonomy()[i]
		}
	}

	if best != nil && bestMatches > 0 {
		analysis.TrapType = best.Type
		analysis.TrapSeverity = domain.Clamp(
			best.BaseSeverity*(warningRatio/c.cfg.WarningRatioThreshold), 0, 1)
		analysis.Description = best.Description

		matchRatio := float64(bestMatches) / float64(len(best.Patterns))
		analysis.Confidence = min(0.95, warningRatio*0.7+matchRatio*0.3)
	} else {
		analysis.TrapType = domain.TrapGeneric
		analysis.TrapSeverity = warningRatio * 0.8
		analysis.Description = "Configuración sospechosa de cuotas y volúmenes"
		analysis.Confidence = warningRatio * 0.9
	}

	// Mercados dentro de un grupo correlacionado: varias anomalías con la
	// misma firma refuerzan la confianza en la detección.
	if report.Correlated && report.InGroup(analysis.Market) {
		analysis.Confidence = min(0.95, analysis.Confidence+0.1*report.Strength)
	}
}

// scoreSignals suma las severidades por tipo de señal.
func scoreSignals(signals []domain.Signal) (warning, safety float64) {
	for _, s := range signals {
		switch s.Kind {
		case domain.KindWarning:
			warning += s.Severity
		case domain.KindSafety:
			safety += s.Severity
		}
	}
	return warning, safety
}

// countMatches cuenta cuántos patrones resueltos figuran entre los
// patrones registrados de una entrada.
func countMatches(resolved []domain.PatternTag, registered []domain.PatternTag) int {
	matches := 0
	for _, p := range resolved {
		for _, r := range registered {
			if p == r {
				matches++
				break
			}
		}
	}
	return matches
}

// advice genera el consejo textual del mercado según su veredicto.
func advice(a domain.MarketAnalysis) string {
	switch {
	case a.TrapDetected:
		return fmt.Sprintf("EVITAR - %s", a.Description)
	case a.SafetyScore > 0.7:
		return "Mercado considerado seguro para apostar"
	default:
		return "Proceder con cautela - datos insuficientes o mixtos"
	}
}
