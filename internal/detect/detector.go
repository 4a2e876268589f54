package detect

// detector.go — contrato común de los detectores de anomalías.
//
// Cada detector es una función pura de su Input: sin I/O, sin estado entre
// llamadas, sin aleatoriedad. El motor los ejecuta como pipeline ordenado
// por mercado; el orden del registro solo afecta al orden de las señales
// emitidas, nunca a su contenido.

import "github.com/alejandrodnm/trapmap/internal/domain"

// Input agrupa todos los datos disponibles de un mercado. Volume, History
// y Context pueden ser valores cero: cada detector degrada a lista vacía
// cuando le falta su fuente de datos.
type Input struct {
	Market  domain.MarketSnapshot
	Volume  domain.VolumeSnapshot
	History domain.OddsHistory
	Context domain.ContextSignals
}

// Detector analiza un mercado y emite cero o más señales.
type Detector interface {
	// Name identifica al detector en logs y reportes.
	Name() string

	// Detect evalúa el mercado. Nunca devuelve error: los datos
	// malformados o insuficientes producen menos señales, no fallos.
	Detect(in Input) []domain.Signal
}

// Config reúne los umbrales de detección. Los valores provienen del
// sistema original sin fuente de calibración documentada: se exponen como
// configuración para poder ajustarlos sin tocar la semántica.
type Config struct {
	// Cuotas (OddsDetector).
	OverroundLimit float64 // Σ implícitas por encima = margen abusivo
	FairMarginLow  float64 // banda de margen considerado justo
	FairMarginHigh float64

	// Historia (OddsDetector, MovementDetector).
	HistoricalIncreaseFactor float64 // cuota actual > media × factor = subida anómala
	HistoricalDecreaseFactor float64 // cuota actual < media × factor = bajada anómala
	MovementSignificance     float64 // |cambio| relativo que cuenta como movimiento brusco
	UniformMovementMin       float64 // movimiento mínimo por outcome para contar como uniforme

	// Volumen (VolumeDetector).
	ConcentratedVolumeThreshold float64 // share máximo antes de señalar concentración

	// Contexto (ContextIntegrator).
	ContextImpactFloor float64 // impacto mínimo para emitir señal contextual
}

// DefaultConfig devuelve los umbrales del sistema original.
func DefaultConfig() Config {
	return Config{
		OverroundLimit:              1.20,
		FairMarginLow:               1.05,
		FairMarginHigh:              1.15,
		HistoricalIncreaseFactor:    1.5,
		HistoricalDecreaseFactor:    0.7,
		MovementSignificance:        0.15,
		UniformMovementMin:          0.05,
		ConcentratedVolumeThreshold: 0.65,
		ContextImpactFloor:          0.2,
	}
}

// Registry devuelve el pipeline completo de detectores en su orden canónico:
// cuotas, volumen, movimiento, contexto y, por último, indicadores de seguridad.
func Registry(cfg Config) []Detector {
	return []Detector{
		NewOddsDetector(cfg),
		NewVolumeDetector(cfg),
		NewMovementDetector(cfg),
		NewContextIntegrator(cfg),
		NewSafetyDetector(cfg),
	}
}

// Run ejecuta todos los detectores sobre el input y concatena sus señales.
func Run(detectors []Detector, in Input) []domain.Signal {
	var signals []domain.Signal
	for _, d := range detectors {
		signals = append(signals, d.Detect(in)...)
	}
	return signals
}
