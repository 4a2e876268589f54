package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// MarketSnapshot representa el estado actual de un mercado de apuestas:
// un nombre y las cuotas decimales de cada outcome.
type MarketSnapshot struct {
	Name string
	Odds map[string]float64 // outcome → cuota decimal (> 1.0)
}

// ValidOdds devuelve solo las cuotas utilizables: finitas y positivas.
// Las entradas malformadas se descartan en silencio (no son fatales).
func (m MarketSnapshot) ValidOdds() map[string]float64 {
	valid := make(map[string]float64, len(m.Odds))
	for outcome, odds := range m.Odds {
		if odds > 0 && !math.IsInf(odds, 0) && !math.IsNaN(odds) {
			valid[outcome] = odds
		}
	}
	return valid
}

// Outcomes devuelve los outcomes válidos en orden alfabético estable.
func (m MarketSnapshot) Outcomes() []string {
	valid := m.ValidOdds()
	outcomes := make([]string, 0, len(valid))
	for o := range valid {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)
	return outcomes
}

// ImpliedTotal devuelve la suma de probabilidades implícitas del mercado.
// Una suma > 1.0 es la sobrerronda (margen del bookmaker).
func (m MarketSnapshot) ImpliedTotal() float64 {
	total := 0.0
	for _, odds := range m.ValidOdds() {
		total += ImpliedProbability(odds)
	}
	return total
}

// VolumeSnapshot contiene el volumen apostado por outcome de un mercado.
type VolumeSnapshot struct {
	Volumes map[string]float64 // outcome → volumen (≥ 0)
}

// Total devuelve el volumen total del mercado, ignorando valores negativos.
func (v VolumeSnapshot) Total() float64 {
	total := 0.0
	for _, vol := range v.Volumes {
		if vol > 0 {
			total += vol
		}
	}
	return total
}

// Share devuelve la fracción del volumen total apostada al outcome dado.
// Devuelve 0 si no hay volumen total.
func (v VolumeSnapshot) Share(outcome string) float64 {
	total := v.Total()
	if total <= 0 {
		return 0
	}
	vol := v.Volumes[outcome]
	if vol <= 0 {
		return 0
	}
	return vol / total
}

// MaxShare devuelve el outcome con mayor volumen y su fracción del total.
// Empates se resuelven por orden alfabético para mantener el análisis determinista.
func (v VolumeSnapshot) MaxShare() (outcome string, share float64) {
	total := v.Total()
	if total <= 0 {
		return "", 0
	}

	outcomes := make([]string, 0, len(v.Volumes))
	for o := range v.Volumes {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)

	best := ""
	bestVol := 0.0
	for _, o := range outcomes {
		if vol := v.Volumes[o]; vol > bestVol {
			best = o
			bestVol = vol
		}
	}
	return best, bestVol / total
}

// OddsHistoryPoint es una instantánea histórica de las cuotas de un mercado.
type OddsHistoryPoint struct {
	Timestamp time.Time
	Odds      map[string]float64
}

// OddsHistory es la serie histórica de cuotas de un mercado.
// Puede ser dispersa: no todos los puntos cubren todos los outcomes.
type OddsHistory struct {
	Points      []OddsHistoryPoint
	AverageOdds map[string]float64 // medias pre-calculadas por outcome (opcional)
}

// Sorted devuelve una copia de los puntos ordenada por timestamp ascendente.
func (h OddsHistory) Sorted() []OddsHistoryPoint {
	points := make([]OddsHistoryPoint, len(h.Points))
	copy(points, h.Points)
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points
}

// Recent devuelve los últimos n puntos de la serie ordenada.
func (h OddsHistory) Recent(n int) []OddsHistoryPoint {
	sorted := h.Sorted()
	if len(sorted) <= n {
		return sorted
	}
	return sorted[len(sorted)-n:]
}

// ValuesFor extrae las cuotas históricas válidas de un outcome, en orden temporal.
func (h OddsHistory) ValuesFor(outcome string) []float64 {
	var values []float64
	for _, p := range h.Sorted() {
		if odds, ok := p.Odds[outcome]; ok && odds > 0 && !math.IsInf(odds, 0) && !math.IsNaN(odds) {
			values = append(values, odds)
		}
	}
	return values
}

// MatchContext identifica el partido bajo análisis y transporta las señales
// cualitativas que los collaborators externos hayan podido resolver.
type MatchContext struct {
	HomeTeam   string
	AwayTeam   string
	Date       time.Time
	HomeTeamID string // ID opcional en el proveedor de datos
	AwayTeamID string
	Signals    ContextSignals
}

// Label devuelve el identificador legible del partido.
func (mc MatchContext) Label() string {
	return fmt.Sprintf("%s vs %s", mc.HomeTeam, mc.AwayTeam)
}
