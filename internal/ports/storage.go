package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// TrapStorage persiste las trampas detectadas para los informes históricos.
type TrapStorage interface {
	// SaveAnalysis guarda las trampas del análisis como registros
	// individuales. Un análisis sin trampas no escribe nada.
	SaveAnalysis(ctx context.Context, analysis domain.TrapAnalysis, match domain.MatchContext) error

	// RecentRecords devuelve los registros detectados desde la fecha dada,
	// más recientes primero.
	RecentRecords(ctx context.Context, since time.Time) ([]domain.TrapRecord, error)

	// RecordsForTeam devuelve los últimos registros donde el equipo jugó
	// como local o visitante.
	RecordsForTeam(ctx context.Context, team string, limit int) ([]domain.TrapRecord, error)

	// Prune elimina registros más antiguos que la retención y devuelve
	// cuántos borró.
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}
