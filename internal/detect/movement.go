package detect

import (
	"fmt"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// MovementDetector señala trayectorias sospechosas en la serie histórica
// de cuotas: reversiones, movimientos bruscos y reprecios sincronizados.
type MovementDetector struct {
	cfg Config
}

// NewMovementDetector crea el detector de movimientos de cuotas.
func NewMovementDetector(cfg Config) *MovementDetector {
	return &MovementDetector{cfg: cfg}
}

func (d *MovementDetector) Name() string { return "movement" }

// Detect evalúa los movimientos recientes. Con menos de 2 puntos de
// historia no hay trayectoria que analizar: devuelve lista vacía, no error.
func (d *MovementDetector) Detect(in Input) []domain.Signal {
	if len(in.History.Points) < 2 {
		return nil
	}

	recent := in.History.Recent(3)
	valid := in.Market.ValidOdds()
	var signals []domain.Signal

	for _, outcome := range in.Market.Outcomes() {
		current := valid[outcome]

		// Valores del outcome dentro de la ventana reciente.
		var values []float64
		for _, p := range recent {
			if odds, ok := p.Odds[outcome]; ok && odds > 0 {
				values = append(values, odds)
			}
		}
		if len(values) < 2 {
			continue
		}

		recentChange := domain.PctChange(values[0], values[len(values)-1])
		currentChange := domain.PctChange(values[len(values)-1], current)

		switch {
		case (recentChange > 0.1 && currentChange < -0.15) ||
			(recentChange < -0.1 && currentChange > 0.15):
			signals = append(signals, domain.Warning(
				domain.AnomalyOddsReversal, outcome,
				fmt.Sprintf("Reversión de cuotas en %s: tendencia reciente %+.0f%%, luego cambio de %+.0f%%",
					outcome, recentChange*100, currentChange*100),
				min(0.9, abs(currentChange)*3),
			))
		case abs(currentChange) > d.cfg.MovementSignificance:
			signals = append(signals, domain.Warning(
				domain.AnomalySuddenOddsMovement, outcome,
				fmt.Sprintf("Movimiento brusco de la cuota de %s: %+.0f%%", outcome, currentChange*100),
				min(0.8, abs(currentChange)*2.5),
			))
		}
	}

	if s, ok := d.detectUniformMovement(in, recent); ok {
		signals = append(signals, s)
	}

	return signals
}

// detectUniformMovement comprueba si todas las cuotas del mercado se han
// movido en la misma dirección desde el último punto histórico: sugiere un
// repricing externo sincronizado, no una señal sobre un outcome concreto.
func (d *MovementDetector) detectUniformMovement(in Input, recent []domain.OddsHistoryPoint) (domain.Signal, bool) {
	valid := in.Market.ValidOdds()
	if len(valid) < 2 || len(recent) == 0 {
		return domain.Signal{}, false
	}

	last := recent[len(recent)-1]
	var movements []float64
	for outcome, current := range valid {
		prev, ok := last.Odds[outcome]
		if !ok || prev <= 0 {
			continue
		}
		movements = append(movements, domain.PctChange(prev, current))
	}
	if len(movements) < 2 {
		return domain.Signal{}, false
	}

	allUp, allDown := true, true
	for _, m := range movements {
		if m <= d.cfg.UniformMovementMin {
			allUp = false
		}
		if m >= -d.cfg.UniformMovementMin {
			allDown = false
		}
	}
	if !allUp && !allDown {
		return domain.Signal{}, false
	}

	direction := "subida"
	if allDown {
		direction = "bajada"
	}
	return domain.Warning(
		domain.AnomalyUniformOddsMovement, "",
		fmt.Sprintf("Todas las cuotas del mercado se mueven en la misma dirección: %s", direction),
		0.7,
	), true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
