package ports

import (
	"context"
	"errors"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// ErrProviderUnavailable indica que el proveedor de datos de equipo no
// responde. El builder de contexto degrada a señales vacías; nunca aborta
// el análisis por esto.
var ErrProviderUnavailable = errors.New("team provider unavailable")

// TeamProvider obtiene datos de equipo de una fuente externa.
type TeamProvider interface {
	// SearchTeam resuelve un nombre de equipo a su perfil en el proveedor.
	SearchTeam(ctx context.Context, name string) (domain.TeamProfile, error)

	// TeamSnapshot devuelve el estado completo del equipo: traspasos
	// recientes, ausencias y racha de forma.
	TeamSnapshot(ctx context.Context, teamID string) (domain.TeamSnapshot, error)
}
