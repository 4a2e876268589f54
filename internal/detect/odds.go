package detect

import (
	"fmt"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// historyConfidence rebaja la confianza de señales derivadas de series
// históricas dispersas frente a las calculadas sobre cuotas actuales.
const historyConfidence = 0.8

// OddsDetector señala cuotas aberrantes e incoherencias en las
// probabilidades implícitas de un mercado.
type OddsDetector struct {
	cfg Config
}

// NewOddsDetector crea el detector de anomalías de cuotas.
func NewOddsDetector(cfg Config) *OddsDetector {
	return &OddsDetector{cfg: cfg}
}

func (d *OddsDetector) Name() string { return "odds" }

// Detect evalúa cuotas atípicas, sobrerronda y desvíos frente a la media
// histórica. Las cuotas no numéricas o no positivas se omiten sin error.
func (d *OddsDetector) Detect(in Input) []domain.Signal {
	var signals []domain.Signal
	valid := in.Market.ValidOdds()

	// Cuotas individuales aberrantes.
	for _, outcome := range in.Market.Outcomes() {
		odds := valid[outcome]
		implied := domain.ImpliedProbability(odds)

		switch {
		case odds > 10.0 && implied < 0.1:
			signals = append(signals, domain.Warning(
				domain.AnomalyOutlierHighOdds, outcome,
				fmt.Sprintf("Cuota anormalmente alta para %s: %.2f", outcome, odds),
				0.6,
			))
		case odds < 1.2 && implied > 0.85:
			signals = append(signals, domain.Warning(
				domain.AnomalyOutlierLowOdds, outcome,
				fmt.Sprintf("Cuota anormalmente baja para %s: %.2f", outcome, odds),
				0.7,
			))
		}
	}

	// Coherencia de la suma de probabilidades implícitas.
	total := in.Market.ImpliedTotal()
	if total > d.cfg.OverroundLimit {
		signals = append(signals, domain.Warning(
			domain.AnomalyHighOverround, "",
			fmt.Sprintf("Sobrerronda elevada: %.2f — margen excesivo del bookmaker", total),
			(total-d.cfg.FairMarginHigh)*2,
		))
	} else if total > 0 && total < 1.0 {
		signals = append(signals, domain.Warning(
			domain.AnomalyArbitrageOpportunity, "",
			fmt.Sprintf("Posible oportunidad de arbitraje: Σ implícitas %.2f", total),
			0.9,
		))
	}

	// Desvíos frente a la media histórica de cada outcome.
	if len(in.History.Points) > 0 {
		signals = append(signals, d.detectHistoricalDeviations(in)...)
	}

	return signals
}

// detectHistoricalDeviations compara la cuota actual de cada outcome con la
// media de sus valores históricos.
func (d *OddsDetector) detectHistoricalDeviations(in Input) []domain.Signal {
	var signals []domain.Signal
	valid := in.Market.ValidOdds()

	for _, outcome := range in.Market.Outcomes() {
		current := valid[outcome]
		values := in.History.ValuesFor(outcome)
		if len(values) == 0 {
			continue
		}
		avg := domain.Mean(values)
		if avg <= 0 {
			continue
		}

		switch {
		case current > avg*d.cfg.HistoricalIncreaseFactor:
			sig := domain.Warning(
				domain.AnomalyHistoricalIncrease, outcome,
				fmt.Sprintf("Subida anómala de la cuota de %s: %.2f frente a media histórica %.2f", outcome, current, avg),
				min(0.8, (current/avg-1.0)*1.5),
			)
			signals = append(signals, sig.WithConfidence(historyConfidence))
		case current < avg*d.cfg.HistoricalDecreaseFactor:
			sig := domain.Warning(
				domain.AnomalyHistoricalDecrease, outcome,
				fmt.Sprintf("Bajada anómala de la cuota de %s: %.2f frente a media histórica %.2f", outcome, current, avg),
				min(0.85, (avg/current-d.cfg.HistoricalDecreaseFactor)*2.0),
			)
			signals = append(signals, sig.WithConfidence(historyConfidence))
		}
	}
	return signals
}
