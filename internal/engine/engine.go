package engine

// engine.go — orquestador del análisis de trampas de un partido.
//
// Pipeline: detección por mercado en paralelo → correlación entre
// mercados (barrera) → clasificación por mercado → recomendaciones.
// El motor es stateless: cada llamada es una función pura de sus inputs
// y del registro inmutable de taxonomía. Ningún paso hace I/O.

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/alejandrodnm/trapmap/internal/detect"
	"github.com/alejandrodnm/trapmap/internal/domain"
)

// Config contiene los umbrales y el paralelismo del motor.
type Config struct {
	Detect detect.Config

	WarningRatioThreshold float64 // ratio aviso/total por encima del cual hay trampa
	WarningScoreThreshold float64 // score de aviso mínimo acumulado
	SafetyCutoff          float64 // seguridad mínima para recomendar un mercado
	MinTrapSeverity       float64 // severidad mínima para listar como alto riesgo
	MaxSafeMarkets        int     // máximo de mercados seguros a recomendar
	Workers               int     // goroutines de detección (0 = NumCPU)
}

// DefaultConfig devuelve los umbrales del sistema original.
func DefaultConfig() Config {
	return Config{
		Detect:                detect.DefaultConfig(),
		WarningRatioThreshold: 0.65,
		WarningScoreThreshold: 1.0,
		SafetyCutoff:          0.7,
		MinTrapSeverity:       0.6,
		MaxSafeMarkets:        3,
	}
}

// Request agrupa todos los datos de un partido, ya resueltos por el caller.
// El motor nunca inicia llamadas de red: cualquier dato externo (perfiles
// de equipo, feeds de cuotas) debe llegar aquí materializado.
type Request struct {
	Match   domain.MatchContext
	Odds    map[string]map[string]float64 // mercado → outcome → cuota
	Volumes map[string]map[string]float64 // mercado → outcome → volumen (opcional)
	History map[string]domain.OddsHistory // mercado → serie histórica (opcional)
}

// Engine ejecuta el análisis completo de trampas.
type Engine struct {
	cfg         Config
	detectors   []detect.Detector
	classifier  *Classifier
	recommender *Recommender
	now         func() time.Time
}

// New crea un Engine con el reloj del sistema.
func New(cfg Config) *Engine {
	return NewWithClock(cfg, time.Now)
}

// NewWithClock crea un Engine con un reloj inyectado, para que los tests
// puedan fijar el timestamp del análisis.
func NewWithClock(cfg Config, now func() time.Time) *Engine {
	return &Engine{
		cfg:         cfg,
		detectors:   detect.Registry(cfg.Detect),
		classifier:  NewClassifier(cfg),
		recommender: NewRecommender(cfg),
		now:         now,
	}
}

// Analyze analiza todos los mercados del partido y devuelve el resultado
// completo. Los mercados malformados (menos de 2 outcomes válidos) quedan
// con el veredicto neutral por defecto; nunca interrumpen el análisis.
func (e *Engine) Analyze(ctx context.Context, req Request) (domain.TrapAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return domain.TrapAnalysis{}, fmt.Errorf("engine.Analyze: %w", err)
	}
	start := time.Now()

	analysis := domain.TrapAnalysis{
		Match:      req.Match.Label(),
		MatchDate:  req.Match.Date,
		AnalyzedAt: e.now(),
		Markets:    make(map[string]domain.MarketAnalysis, len(req.Odds)),
	}

	// Separar mercados analizables de los malformados.
	inputs := make([]detect.Input, 0, len(req.Odds))
	for _, name := range sortedMarkets(req.Odds) {
		snapshot := domain.MarketSnapshot{Name: name, Odds: req.Odds[name]}
		if len(snapshot.ValidOdds()) < 2 {
			analysis.Markets[name] = insufficientData(name)
			continue
		}
		inputs = append(inputs, detect.Input{
			Market:  snapshot,
			Volume:  domain.VolumeSnapshot{Volumes: req.Volumes[name]},
			History: req.History[name],
			Context: req.Match.Signals,
		})
	}

	// Detección por mercado en paralelo; la correlación espera al pool.
	signals := detectConcurrent(e.detectors, inputs, e.cfg.Workers)
	analysis.CrossMarket = Correlate(signals)

	for market, sigs := range signals {
		analysis.Markets[market] = e.classifier.Classify(market, sigs, analysis.CrossMarket)
	}

	analysis.Traps = e.recommender.traps(analysis.Markets)
	analysis.SafeMarkets = e.recommender.safeMarkets(analysis.Markets)
	analysis.HighRiskMarkets = e.recommender.riskMarkets(analysis.Markets)
	analysis.RiskLevel = riskLevel(analysis.Traps)
	analysis.Recommendations = e.recommender.recommendations(analysis.SafeMarkets, analysis.HighRiskMarkets)

	slog.Info("trap analysis complete",
		"match", analysis.Match,
		"markets", len(analysis.Markets),
		"traps", len(analysis.Traps),
		"risk_level", fmt.Sprintf("%.2f", analysis.RiskLevel),
		"correlated", analysis.CrossMarket.Correlated,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return analysis, nil
}

// MarketEvaluation es el veredicto rápido sobre un único mercado.
type MarketEvaluation struct {
	Match            string
	Market           string
	TrapDetected     bool
	TrapProbability  float64
	TrapType         domain.TrapType
	WarningSigns     []domain.Signal
	SafetyIndicators []domain.Signal
	Recommendation   string
}

// EvaluateMarket analiza un único mercado con el mismo pipeline y devuelve
// una evaluación con recomendación textual graduada por severidad.
func (e *Engine) EvaluateMarket(ctx context.Context, match domain.MatchContext, in detect.Input) (MarketEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return MarketEvaluation{}, fmt.Errorf("engine.EvaluateMarket: %w", err)
	}

	eval := MarketEvaluation{
		Match:  match.Label(),
		Market: in.Market.Name,
	}

	if len(in.Market.ValidOdds()) < 2 {
		eval.Recommendation = "Datos insuficientes para evaluar este mercado"
		return eval, nil
	}

	in.Context = match.Signals
	signals := detect.Run(e.detectors, in)
	result := e.classifier.Classify(in.Market.Name, signals, domain.CrossMarketReport{})

	for _, s := range signals {
		if s.Kind == domain.KindWarning {
			eval.WarningSigns = append(eval.WarningSigns, s)
		} else {
			eval.SafetyIndicators = append(eval.SafetyIndicators, s)
		}
	}

	eval.TrapDetected = result.TrapDetected
	eval.TrapProbability = result.Confidence
	eval.TrapType = result.TrapType
	eval.Recommendation = evaluationAdvice(result)
	return eval, nil
}

// evaluationAdvice gradúa la recomendación según severidad o seguridad.
func evaluationAdvice(a domain.MarketAnalysis) string {
	if a.TrapDetected {
		rec := fmt.Sprintf("EVITAR este mercado - %s", a.Description)
		switch {
		case a.TrapSeverity > 0.8:
			rec += " - Riesgo extremadamente alto"
		case a.TrapSeverity > 0.6:
			rec += " - Riesgo alto"
		default:
			rec += " - Riesgo moderado"
		}
		return rec
	}

	switch {
	case a.SafetyScore > 0.8:
		return "Mercado considerado seguro - Ninguna trampa detectada"
	case a.SafetyScore > 0.6:
		return "Mercado probablemente seguro - Bajo riesgo de trampa"
	default:
		return "Datos insuficientes o inciertos - Proceder con prudencia"
	}
}

// insufficientData es el veredicto neutral de un mercado sin cuotas útiles.
func insufficientData(market string) domain.MarketAnalysis {
	return domain.MarketAnalysis{
		Market:      market,
		SafetyScore: 0.5,
		State:       domain.StateNormal,
		Description: "Datos de cuotas insuficientes",
		Advice:      "Proceder con cautela - datos insuficientes o mixtos",
	}
}

// sortedMarkets devuelve los nombres de mercado en orden estable.
func sortedMarkets(odds map[string]map[string]float64) []string {
	names := make([]string, 0, len(odds))
	for name := range odds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
