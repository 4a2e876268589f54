package domain

import "time"

// TrapRecord es la forma persistida de una trampa detectada. El ID lo
// asigna la capa de almacenamiento; el núcleo de análisis no lo conoce.
type TrapRecord struct {
	ID         string
	Match      string
	HomeTeam   string
	AwayTeam   string
	Market     string
	TrapType   TrapType
	Severity   float64
	Confidence float64
	MatchDate  time.Time
	DetectedAt time.Time
}

// RecordsFrom aplana las trampas de un análisis en registros persistibles,
// sin ID. El orden sigue al de analysis.Traps (alfabético por mercado).
func RecordsFrom(analysis TrapAnalysis, match MatchContext) []TrapRecord {
	records := make([]TrapRecord, 0, len(analysis.Traps))
	for _, trap := range analysis.Traps {
		records = append(records, TrapRecord{
			Match:      analysis.Match,
			HomeTeam:   match.HomeTeam,
			AwayTeam:   match.AwayTeam,
			Market:     trap.Market,
			TrapType:   trap.TrapType,
			Severity:   trap.Severity,
			Confidence: trap.Confidence,
			MatchDate:  analysis.MatchDate,
			DetectedAt: analysis.AnalyzedAt,
		})
	}
	return records
}
