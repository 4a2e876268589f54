package domain

// signal.go — señales emitidas por los detectores.
//
// Una Signal es inmutable una vez emitida: los detectores las crean,
// el clasificador solo las lee. Severity y Confidence viven en [0, 1].

// AnomalyType etiqueta la clase de anomalía (o indicador de seguridad) detectada.
type AnomalyType string

// Anomalías sobre cuotas actuales.
const (
	AnomalyOutlierHighOdds      AnomalyType = "outlier_high_odds"
	AnomalyOutlierLowOdds       AnomalyType = "outlier_low_odds"
	AnomalyHighOverround        AnomalyType = "high_overround"
	AnomalyArbitrageOpportunity AnomalyType = "arbitrage_opportunity"
	AnomalyHistoricalIncrease   AnomalyType = "historical_odds_increase"
	AnomalyHistoricalDecrease   AnomalyType = "historical_odds_decrease"
)

// Anomalías sobre volúmenes de apuestas.
const (
	AnomalyVolumeOddsImbalance        AnomalyType = "volume_odds_imbalance"
	AnomalyReverseVolumeOddsImbalance AnomalyType = "reverse_volume_odds_imbalance"
	AnomalyConcentratedVolume         AnomalyType = "concentrated_volume"
)

// Anomalías sobre la trayectoria histórica de las cuotas.
const (
	AnomalyOddsReversal        AnomalyType = "odds_reversal"
	AnomalySuddenOddsMovement  AnomalyType = "sudden_odds_movement"
	AnomalyUniformOddsMovement AnomalyType = "uniform_odds_movement"
)

// Señales contextuales convertidas desde factores cualitativos externos.
const (
	AnomalyTeamInstability   AnomalyType = "team_instability"
	AnomalyKeyPlayerAbsence  AnomalyType = "key_player_absence"
	AnomalyTacticalMismatch  AnomalyType = "tactical_mismatch"
	AnomalyHeadToHeadSkew    AnomalyType = "h2h_skew"
	AnomalyFormExtreme       AnomalyType = "form_extreme"
)

// Indicadores de seguridad: señalan la *ausencia* de anomalía.
const (
	SafetyStableOdds            AnomalyType = "stable_odds"
	SafetyBalancedVolume        AnomalyType = "balanced_volume"
	SafetyFairMargin            AnomalyType = "fair_margin"
	SafetyHistoricalConsistency AnomalyType = "historical_consistency"
)

// SignalKind separa las señales de riesgo de los indicadores de seguridad.
type SignalKind int

const (
	KindWarning SignalKind = iota // señal de riesgo: suma al warning_score
	KindSafety                    // indicador de seguridad: suma al safety_score
)

func (k SignalKind) String() string {
	if k == KindSafety {
		return "safety"
	}
	return "warning"
}

// Signal es una anomalía o indicador individual con su severidad y confianza.
type Signal struct {
	Type        AnomalyType
	Kind        SignalKind
	Outcome     string // outcome afectado/favorecido, "" si aplica al mercado entero
	Description string
	Severity    float64 // 0-1, peso en la agregación
	Confidence  float64 // 0-1, fiabilidad de la fuente de datos
}

// Warning construye una señal de riesgo con confianza total.
func Warning(t AnomalyType, outcome, description string, severity float64) Signal {
	return Signal{
		Type:        t,
		Kind:        KindWarning,
		Outcome:     outcome,
		Description: description,
		Severity:    Clamp(severity, 0, 1),
		Confidence:  1.0,
	}
}

// Safety construye un indicador de seguridad con confianza total.
func Safety(t AnomalyType, description string, severity float64) Signal {
	return Signal{
		Type:        t,
		Kind:        KindSafety,
		Description: description,
		Severity:    Clamp(severity, 0, 1),
		Confidence:  1.0,
	}
}

// WithConfidence devuelve una copia de la señal con la confianza dada.
func (s Signal) WithConfidence(c float64) Signal {
	s.Confidence = Clamp(c, 0, 1)
	return s
}
