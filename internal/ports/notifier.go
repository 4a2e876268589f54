package ports

import (
	"context"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// Notifier presenta el resultado de un análisis al usuario.
type Notifier interface {
	// NotifyAnalysis muestra el informe completo del partido.
	NotifyAnalysis(ctx context.Context, analysis domain.TrapAnalysis) error
}
