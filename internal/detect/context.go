package detect

// context.go — integración de factores cualitativos externos.
//
// Este detector no calcula nada: convierte factores ya resueltos
// (inestabilidad de plantilla, bajas, perfiles tácticos, h2h) en señales
// de mercado aplicando una tabla declarativa de relevancia por tipo de
// mercado. Los consumidores posteriores no necesitan conocer la forma de
// los datos de equipos.

import (
	"fmt"
	"strings"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// contextConfidence — los factores cualitativos llegan de proveedores
// externos con datos parciales; su confianza es menor que la de las cuotas.
const contextConfidence = 0.8

// marketClass agrupa los mercados según qué factores les afectan.
type marketClass int

const (
	classResult   marketClass = iota // 1X2, draw no bet, double chance
	classGoals                       // over/under, both teams to score
	classHandicap                    // handicaps asiáticos y europeos
	classCards                       // tarjetas, córners y otros secundarios
	classOther
)

// classifyMarket infiere la clase de mercado a partir de su nombre.
func classifyMarket(name string) marketClass {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "handicap"):
		return classHandicap
	case strings.Contains(n, "over_under"), strings.Contains(n, "goals"),
		strings.Contains(n, "score"), strings.Contains(n, "btts"),
		strings.Contains(n, "both_teams"):
		return classGoals
	case strings.Contains(n, "card"), strings.Contains(n, "corner"),
		strings.Contains(n, "booking"):
		return classCards
	case strings.Contains(n, "result"), strings.Contains(n, "1x2"),
		strings.Contains(n, "winner"), strings.Contains(n, "draw"),
		strings.Contains(n, "double_chance"):
		return classResult
	default:
		return classOther
	}
}

// relevance pondera cuánto pesa cada tipo de factor en cada clase de
// mercado. Las bajas de jugadores pesan más en mercados de goles que en
// tarjetas; la inestabilidad de plantilla pesa en casi todos.
var relevance = map[domain.ContextFactorKind]map[marketClass]float64{
	domain.FactorTeamInstability: {
		classResult: 0.9, classGoals: 0.7, classHandicap: 0.8, classCards: 0.5, classOther: 0.6,
	},
	domain.FactorKeyAbsences: {
		classResult: 0.9, classGoals: 1.0, classHandicap: 0.9, classCards: 0.4, classOther: 0.6,
	},
	domain.FactorTacticalMismatch: {
		classResult: 0.8, classGoals: 0.9, classHandicap: 0.8, classCards: 0.6, classOther: 0.5,
	},
	domain.FactorHeadToHeadSkew: {
		classResult: 1.0, classGoals: 0.8, classHandicap: 0.9, classCards: 0.3, classOther: 0.5,
	},
	domain.FactorFormExtreme: {
		classResult: 0.9, classGoals: 0.6, classHandicap: 0.8, classCards: 0.3, classOther: 0.5,
	},
}

// factorAnomaly mapea cada tipo de factor a su tipo de anomalía.
var factorAnomaly = map[domain.ContextFactorKind]domain.AnomalyType{
	domain.FactorTeamInstability:  domain.AnomalyTeamInstability,
	domain.FactorKeyAbsences:      domain.AnomalyKeyPlayerAbsence,
	domain.FactorTacticalMismatch: domain.AnomalyTacticalMismatch,
	domain.FactorHeadToHeadSkew:   domain.AnomalyHeadToHeadSkew,
	domain.FactorFormExtreme:      domain.AnomalyFormExtreme,
}

// ContextIntegrator convierte ContextSignals en señales de mercado.
type ContextIntegrator struct {
	cfg Config
}

// NewContextIntegrator crea el integrador de factores contextuales.
func NewContextIntegrator(cfg Config) *ContextIntegrator {
	return &ContextIntegrator{cfg: cfg}
}

func (d *ContextIntegrator) Name() string { return "context" }

// Detect convierte cada factor relevante en una señal, filtrando por
// impacto mínimo. Sin datos contextuales devuelve lista vacía.
func (d *ContextIntegrator) Detect(in Input) []domain.Signal {
	if in.Context.Empty() {
		return nil
	}

	class := classifyMarket(in.Market.Name)
	var signals []domain.Signal

	for _, factor := range in.Context.Factors {
		anomaly, ok := factorAnomaly[factor.Kind]
		if !ok {
			continue
		}
		weight := relevance[factor.Kind][class]
		severity := factor.Impact * weight
		if factor.Impact <= d.cfg.ContextImpactFloor || severity <= 0 {
			continue
		}

		sig := domain.Warning(anomaly, factor.Favors, factor.Description, severity)
		signals = append(signals, sig.WithConfidence(contextConfidence))
	}

	// La inestabilidad agregada de las plantillas genera una señal propia
	// cuando supera el umbral, ademas de los factores individuales.
	if in.Context.InstabilityFactor > 0.4 {
		sig := domain.Warning(
			domain.AnomalyTeamInstability, "",
			fmt.Sprintf("Inestabilidad de plantillas detectada (factor %.2f)", in.Context.InstabilityFactor),
			in.Context.InstabilityFactor*relevance[domain.FactorTeamInstability][class],
		)
		signals = append(signals, sig.WithConfidence(contextConfidence))
	}

	return signals
}
