package history

// patterns.go — informes agregados sobre el histórico de trampas.
//
// Las agregaciones son funciones puras sobre los registros; Analyzer solo
// añade la lectura del storage. Así los tests no necesitan base de datos.

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alejandrodnm/trapmap/internal/domain"
	"github.com/alejandrodnm/trapmap/internal/ports"
)

// Report resume las trampas detectadas en una ventana temporal.
type Report struct {
	Window      time.Duration
	Total       int
	AvgSeverity float64
	ByType      map[domain.TrapType]int
	ByMarket    map[string]int
	ByTeam      map[string]int
	ByWeekday   map[time.Weekday]int
}

// TopMarkets devuelve los n mercados con más trampas, por frecuencia
// descendente con desempate alfabético.
func (r Report) TopMarkets(n int) []string {
	return topKeys(r.ByMarket, n)
}

// TopTeams devuelve los n equipos más implicados en trampas.
func (r Report) TopTeams(n int) []string {
	return topKeys(r.ByTeam, n)
}

// Analyzer genera informes leyendo el storage de trampas.
type Analyzer struct {
	storage ports.TrapStorage
	now     func() time.Time
}

// NewAnalyzer crea un Analyzer con el reloj del sistema.
func NewAnalyzer(storage ports.TrapStorage) *Analyzer {
	return &Analyzer{storage: storage, now: time.Now}
}

// Report agrega las trampas detectadas dentro de la ventana dada.
func (a *Analyzer) Report(ctx context.Context, window time.Duration) (Report, error) {
	records, err := a.storage.RecentRecords(ctx, a.now().Add(-window))
	if err != nil {
		return Report{}, fmt.Errorf("history.Report: %w", err)
	}
	report := BuildReport(records)
	report.Window = window
	return report, nil
}

// BuildReport agrega una lista de registros ya cargada.
func BuildReport(records []domain.TrapRecord) Report {
	report := Report{
		Total:     len(records),
		ByType:    make(map[domain.TrapType]int),
		ByMarket:  make(map[string]int),
		ByTeam:    make(map[string]int),
		ByWeekday: make(map[time.Weekday]int),
	}

	totalSeverity := 0.0
	for _, r := range records {
		report.ByType[r.TrapType]++
		report.ByMarket[r.Market]++
		report.ByTeam[r.HomeTeam]++
		report.ByTeam[r.AwayTeam]++
		if !r.MatchDate.IsZero() {
			report.ByWeekday[r.MatchDate.Weekday()]++
		}
		totalSeverity += r.Severity
	}
	if report.Total > 0 {
		report.AvgSeverity = totalSeverity / float64(report.Total)
	}
	return report
}

func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
