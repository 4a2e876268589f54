package detect

import (
	"fmt"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// SafetyDetector comparte la interfaz de los demás detectores pero señala
// la *ausencia* de anomalía: cuotas estables, volumen equilibrado, margen
// justo y coherencia con las medias históricas. Sus señales alimentan el
// safety_score del clasificador.
type SafetyDetector struct {
	cfg Config
}

// NewSafetyDetector crea el detector de indicadores de seguridad.
func NewSafetyDetector(cfg Config) *SafetyDetector {
	return &SafetyDetector{cfg: cfg}
}

func (d *SafetyDetector) Name() string { return "safety" }

// Detect evalúa los cuatro indicadores de seguridad del mercado.
func (d *SafetyDetector) Detect(in Input) []domain.Signal {
	var signals []domain.Signal

	if s, ok := d.stableOdds(in); ok {
		signals = append(signals, s)
	}
	if s, ok := d.balancedVolume(in); ok {
		signals = append(signals, s)
	}
	if s, ok := d.fairMargin(in); ok {
		signals = append(signals, s)
	}
	if s, ok := d.historicalConsistency(in); ok {
		signals = append(signals, s)
	}

	return signals
}

// stableOdds comprueba que ningún outcome haya variado más de un 15%
// dentro de la ventana histórica reciente.
func (d *SafetyDetector) stableOdds(in Input) (domain.Signal, bool) {
	recent := in.History.Recent(3)
	if len(recent) == 0 {
		return domain.Signal{}, false
	}

	for _, outcome := range in.Market.Outcomes() {
		var values []float64
		for _, p := range recent {
			if odds, ok := p.Odds[outcome]; ok && odds > 0 {
				values = append(values, odds)
			}
		}
		if len(values) == 0 {
			continue
		}

		maxVal, minVal := values[0], values[0]
		for _, v := range values[1:] {
			if v > maxVal {
				maxVal = v
			}
			if v < minVal {
				minVal = v
			}
		}
		if maxVal > minVal*1.15 {
			return domain.Signal{}, false
		}
	}

	return domain.Safety(domain.SafetyStableOdds,
		"Cuotas estables en la ventana reciente", 0.7), true
}

// balancedVolume comprueba que ningún outcome acapare el volumen.
func (d *SafetyDetector) balancedVolume(in Input) (domain.Signal, bool) {
	if in.Volume.Total() <= 0 {
		return domain.Signal{}, false
	}
	_, share := in.Volume.MaxShare()
	if share >= 0.6 {
		return domain.Signal{}, false
	}
	return domain.Safety(domain.SafetyBalancedVolume,
		fmt.Sprintf("Volumen de apuestas equilibrado entre outcomes (máx %.0f%%)", share*100),
		0.6), true
}

// fairMargin comprueba que la sobrerronda esté en la banda de margen normal.
func (d *SafetyDetector) fairMargin(in Input) (domain.Signal, bool) {
	total := in.Market.ImpliedTotal()
	if total < d.cfg.FairMarginLow || total > d.cfg.FairMarginHigh {
		return domain.Signal{}, false
	}
	return domain.Safety(domain.SafetyFairMargin,
		fmt.Sprintf("Margen del bookmaker equitativo: %.1f%%", (total-1)*100),
		0.75), true
}

// historicalConsistency comprueba que cada cuota actual esté dentro de una
// banda razonable alrededor de su media histórica.
func (d *SafetyDetector) historicalConsistency(in Input) (domain.Signal, bool) {
	if len(in.History.AverageOdds) == 0 {
		return domain.Signal{}, false
	}

	valid := in.Market.ValidOdds()
	checked := false
	for outcome, current := range valid {
		avg, ok := in.History.AverageOdds[outcome]
		if !ok || avg <= 0 {
			continue
		}
		checked = true
		if current < avg*0.7 || current > avg*1.4 {
			return domain.Signal{}, false
		}
	}
	if !checked {
		return domain.Signal{}, false
	}

	return domain.Safety(domain.SafetyHistoricalConsistency,
		"Cuotas coherentes con las medias históricas", 0.8), true
}
