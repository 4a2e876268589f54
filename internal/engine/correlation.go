package engine

// correlation.go — correlación de anomalías entre mercados de un partido.
//
// Se ejecuta únicamente después de que todos los detectores por mercado
// hayan terminado (barrera de sincronización): la agrupación necesita el
// conjunto completo de señales.

import (
	"sort"
	"strings"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// Correlate agrupa los mercados cuyas anomalías comparten una firma común
// (mismo conjunto de tipos de anomalía): sugiere una causa compartida.
// No emite señales por mercado; el clasificador consume el reporte como
// modificador de confianza.
func Correlate(marketSignals map[string][]domain.Signal) domain.CrossMarketReport {
	report := domain.CrossMarketReport{}
	if len(marketSignals) < 2 {
		return report
	}

	// Firma por mercado: tipos de anomalía distintos, ordenados.
	bySignature := make(map[string][]string)
	for market, signals := range marketSignals {
		sig := signature(signals)
		if sig == "" {
			continue
		}
		bySignature[sig] = append(bySignature[sig], market)
	}

	// Grupos correlacionados: misma firma no vacía en ≥ 2 mercados.
	// Firmas en orden estable para que el reporte sea determinista.
	signatures := make([]string, 0, len(bySignature))
	for sig := range bySignature {
		signatures = append(signatures, sig)
	}
	sort.Strings(signatures)

	correlated := 0
	for _, sig := range signatures {
		markets := bySignature[sig]
		if len(markets) < 2 {
			continue
		}
		sort.Strings(markets)
		report.Groups = append(report.Groups, markets)
		correlated += len(markets)
	}

	if len(report.Groups) > 0 {
		report.Correlated = true
		report.Strength = min(0.9, float64(correlated)/float64(len(marketSignals)))
	}
	return report
}

// signature serializa el conjunto de tipos de anomalía de un mercado.
// Devuelve "" si el mercado no tiene señales de riesgo.
func signature(signals []domain.Signal) string {
	seen := make(map[string]bool)
	var types []string
	for _, s := range signals {
		if s.Kind != domain.KindWarning {
			continue
		}
		t := string(s.Type)
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return ""
	}
	sort.Strings(types)
	return strings.Join(types, ",")
}
