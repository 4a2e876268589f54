package domain

import "time"

// analysis.go — resultados derivados del análisis. Se recalculan en cada
// llamada: no hay identidad persistida ni estado entre análisis.

// MarketState clasifica un mercado según la severidad de trampa detectada.
// Es una función pura de la severidad, no una máquina de estados.
type MarketState int

const (
	StateNormal        MarketState = iota // sin anomalías relevantes
	StateSuspicious                       // actividad sospechosa, no confirmada
	StateProbableTrap                     // alta probabilidad de trampa
	StateConfirmedTrap                    // trampa respaldada por varios indicadores
)

func (s MarketState) String() string {
	switch s {
	case StateSuspicious:
		return "suspicious"
	case StateProbableTrap:
		return "probable_trap"
	case StateConfirmedTrap:
		return "confirmed_trap"
	default:
		return "normal"
	}
}

// Icon devuelve el marcador corto del estado para el output de consola.
func (s MarketState) Icon() string {
	switch s {
	case StateSuspicious:
		return "[?]"
	case StateProbableTrap:
		return "[!]"
	case StateConfirmedTrap:
		return "[!!]"
	default:
		return "[ ]"
	}
}

// StateForSeverity mapea una severidad de trampa a su estado de mercado.
func StateForSeverity(severity float64) MarketState {
	switch {
	case severity >= 0.8:
		return StateConfirmedTrap
	case severity >= 0.65:
		return StateProbableTrap
	case severity >= 0.5:
		return StateSuspicious
	default:
		return StateNormal
	}
}

// MarketAnalysis es el veredicto sobre un mercado individual.
type MarketAnalysis struct {
	Market       string
	Signals      []Signal
	SafetyScore  float64 // 0 = peligroso, 1 = seguro; 0.5 = sin datos
	TrapDetected bool
	TrapType     TrapType // "" si no se detectó trampa
	TrapSeverity float64
	Confidence   float64
	Description  string
	State        MarketState
	Advice       string
}

// WarningSignals devuelve solo las señales de riesgo del mercado.
func (ma MarketAnalysis) WarningSignals() []Signal {
	var out []Signal
	for _, s := range ma.Signals {
		if s.Kind == KindWarning {
			out = append(out, s)
		}
	}
	return out
}

// CrossMarketReport es el resultado del análisis de correlación entre
// mercados. Lo produce el analizador de correlación tras la barrera de
// sincronización y lo consume el clasificador en modo solo-lectura.
type CrossMarketReport struct {
	Correlated bool
	Strength   float64    // 0-0.9, fracción de mercados en grupos correlacionados
	Groups     [][]string // grupos de mercados con firma de anomalías idéntica
}

// InGroup devuelve true si el mercado pertenece a algún grupo correlacionado.
func (r CrossMarketReport) InGroup(market string) bool {
	for _, group := range r.Groups {
		for _, m := range group {
			if m == market {
				return true
			}
		}
	}
	return false
}

// RecommendationType etiqueta el tipo de recomendación generada.
type RecommendationType string

const (
	RecommendAvoid       RecommendationType = "avoid"
	RecommendSafeMarkets RecommendationType = "safe_markets"
	RecommendCaution     RecommendationType = "global_caution"
	RecommendConfidence  RecommendationType = "proceed_with_confidence"
	RecommendSelective   RecommendationType = "selective_approach"
)

// Recommendation es una recomendación textual sobre uno o varios mercados.
type Recommendation struct {
	Type        RecommendationType
	Markets     []string // mercados afectados, vacío en veredictos globales
	Description string
	Confidence  float64
}

// SafeMarket es un mercado recomendable por su puntuación de seguridad.
type SafeMarket struct {
	Market      string
	SafetyScore float64
	Advice      string
}

// RiskMarket es un mercado a evitar por su nivel de riesgo.
type RiskMarket struct {
	Market    string
	RiskLevel float64
	Warning   string
}

// TrapSummary resume una trampa detectada para el nivel agregado.
type TrapSummary struct {
	Market      string
	TrapType    TrapType
	Severity    float64
	Confidence  float64
	Description string
}

// TrapAnalysis es el resultado completo de un análisis de partido.
// Se construye una vez y no se muta después; el núcleo no lo persiste.
type TrapAnalysis struct {
	Match           string
	MatchDate       time.Time
	AnalyzedAt      time.Time
	RiskLevel       float64 // nivel global de riesgo de trampa, 0-1
	Traps           []TrapSummary
	Markets         map[string]MarketAnalysis
	SafeMarkets     []SafeMarket
	HighRiskMarkets []RiskMarket
	Recommendations []Recommendation
	CrossMarket     CrossMarketReport
}
