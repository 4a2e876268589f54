package synth

// synth.go — datos sintéticos de cuotas para demos y pruebas manuales.
//
// El generador es determinista por semilla y queda fuera del pipeline de
// análisis: el motor nunca genera datos, solo los consume.

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/alejandrodnm/trapmap/internal/domain"
	"github.com/alejandrodnm/trapmap/internal/engine"
)

// Generator produce snapshots sintéticos reproducibles.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// New crea un Generator con la semilla dada.
func New(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now(),
	}
}

// Odds genera cuotas para los outcomes dados con el margen objetivo.
// Un margen de 1.08 produce un mercado razonable; >1.20 uno abusivo.
func (g *Generator) Odds(outcomes []string, margin float64) map[string]float64 {
	weights := make([]float64, len(outcomes))
	total := 0.0
	for i := range weights {
		weights[i] = 0.2 + g.rng.Float64()
		total += weights[i]
	}

	odds := make(map[string]float64, len(outcomes))
	for i, outcome := range outcomes {
		implied := weights[i] / total * margin
		odds[outcome] = roundOdds(1 / implied)
	}
	return odds
}

// Volumes reparte un volumen total entre los outcomes. Con concentrate
// no vacío, ese outcome acapara el 70-85% del total.
func (g *Generator) Volumes(outcomes []string, total float64, concentrate string) map[string]float64 {
	volumes := make(map[string]float64, len(outcomes))

	if concentrate != "" {
		share := 0.70 + g.rng.Float64()*0.15
		volumes[concentrate] = total * share
		rest := total * (1 - share)
		others := 0
		for _, o := range outcomes {
			if o != concentrate {
				others++
			}
		}
		for _, o := range outcomes {
			if o != concentrate {
				volumes[o] = rest / float64(others)
			}
		}
		return volumes
	}

	weights := make([]float64, len(outcomes))
	sum := 0.0
	for i := range weights {
		weights[i] = 0.5 + g.rng.Float64()
		sum += weights[i]
	}
	for i, o := range outcomes {
		volumes[o] = total * weights[i] / sum
	}
	return volumes
}

// History genera una serie que termina cerca de las cuotas actuales.
// drift > 0 hace que las cuotas vinieran subiendo; < 0, bajando.
func (g *Generator) History(current map[string]float64, points int, drift float64) domain.OddsHistory {
	history := domain.OddsHistory{
		AverageOdds: make(map[string]float64, len(current)),
	}

	start := g.now.Add(-time.Duration(points) * time.Hour)
	for i := 0; i < points; i++ {
		point := domain.OddsHistoryPoint{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Odds:      make(map[string]float64, len(current)),
		}
		// Progresión lineal hacia la cuota actual con ruido pequeño.
		progress := float64(i+1) / float64(points)
		for outcome, odds := range current {
			origin := odds * (1 - drift)
			value := origin + (odds-origin)*progress
			noise := 1 + (g.rng.Float64()-0.5)*0.02
			point.Odds[outcome] = roundOdds(value * noise)
		}
		history.Points = append(history.Points, point)
	}

	for outcome, odds := range current {
		history.AverageOdds[outcome] = roundOdds(odds * (1 - drift/2))
	}
	return history
}

// Match genera un partido completo con los tres mercados habituales.
func (g *Generator) Match(home, away string) engine.Request {
	resultOutcomes := []string{"home", "draw", "away"}
	goalsOutcomes := []string{"over", "under"}
	bttsOutcomes := []string{"yes", "no"}

	result := g.Odds(resultOutcomes, 1.08)
	goals := g.Odds(goalsOutcomes, 1.06)
	btts := g.Odds(bttsOutcomes, 1.07)

	return engine.Request{
		Match: domain.MatchContext{
			HomeTeam: home,
			AwayTeam: away,
			Date:     g.now.Add(48 * time.Hour),
		},
		Odds: map[string]map[string]float64{
			"1X2":            result,
			"over_under_2_5": goals,
			"btts":           btts,
		},
		Volumes: map[string]map[string]float64{
			"1X2":            g.Volumes(resultOutcomes, 10000, ""),
			"over_under_2_5": g.Volumes(goalsOutcomes, 4000, ""),
			"btts":           g.Volumes(bttsOutcomes, 3000, ""),
		},
		History: map[string]domain.OddsHistory{
			"1X2":            g.History(result, 6, 0),
			"over_under_2_5": g.History(goals, 6, 0),
			"btts":           g.History(btts, 6, 0),
		},
	}
}

// TrapMatch genera un partido con una trampa plantada en el 1X2: favorito
// con cuota hundida, volumen concentrado y deriva reciente brusca.
func (g *Generator) TrapMatch(home, away string) engine.Request {
	req := g.Match(home, away)

	trapped := map[string]float64{"home": 1.15, "draw": 7.5, "away": 12.0}
	req.Odds["1X2"] = trapped
	req.Volumes["1X2"] = g.Volumes([]string{"home", "draw", "away"}, 10000, "home")
	req.History["1X2"] = g.History(trapped, 6, 0.3)
	return req
}

func roundOdds(v float64) float64 {
	if v < 1.01 {
		v = 1.01
	}
	return float64(int(v*100+0.5)) / 100
}

// Teams devuelve un emparejamiento sintético numerado, útil para demos
// con varios partidos.
func Teams(i int) (string, string) {
	return fmt.Sprintf("Local %d", i), fmt.Sprintf("Visitante %d", i)
}
