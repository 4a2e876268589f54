package detect

import (
	"fmt"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// VolumeDetector señala desajustes entre el dinero apostado y las
// probabilidades implícitas de las cuotas.
type VolumeDetector struct {
	cfg Config
}

// NewVolumeDetector crea el detector de anomalías de volumen.
func NewVolumeDetector(cfg Config) *VolumeDetector {
	return &VolumeDetector{cfg: cfg}
}

func (d *VolumeDetector) Name() string { return "volume" }

// Detect evalúa los desequilibrios volumen/cuotas. Sin datos de volumen
// devuelve lista vacía: el volumen es una fuente opcional.
func (d *VolumeDetector) Detect(in Input) []domain.Signal {
	if in.Volume.Total() <= 0 {
		return nil
	}

	var signals []domain.Signal
	valid := in.Market.ValidOdds()

	for _, outcome := range in.Market.Outcomes() {
		share := in.Volume.Share(outcome)
		implied := domain.ImpliedProbability(valid[outcome])

		switch {
		case share > 0.7 && implied < 0.4:
			// El público carga un outcome que las cuotas consideran improbable.
			signals = append(signals, domain.Warning(
				domain.AnomalyVolumeOddsImbalance, outcome,
				fmt.Sprintf("Desequilibrio volumen/cuotas en %s: %.0f%% del volumen con probabilidad implícita de solo %.0f%%",
					outcome, share*100, implied*100),
				min(0.9, share*1.2),
			))
		case share < 0.2 && implied > 0.6:
			signals = append(signals, domain.Warning(
				domain.AnomalyReverseVolumeOddsImbalance, outcome,
				fmt.Sprintf("Desequilibrio inverso en %s: solo %.0f%% del volumen pese a probabilidad implícita de %.0f%%",
					outcome, share*100, implied*100),
				min(0.85, implied*1.3),
			))
		}
	}

	// Concentración anómala del volumen en un único outcome.
	if outcome, share := in.Volume.MaxShare(); share > d.cfg.ConcentratedVolumeThreshold {
		signals = append(signals, domain.Warning(
			domain.AnomalyConcentratedVolume, outcome,
			fmt.Sprintf("Concentración anómala del volumen en %s: %.0f%%", outcome, share*100),
			min(0.9, share*1.1),
		))
	}

	return signals
}
