package transfermarkt

import (
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// Ventana de fichajes considerada "reciente" para la señal de
// inestabilidad de plantilla.
const recentTransferWindow = 90 * 24 * time.Hour

func mapProfile(club clubResult) domain.TeamProfile {
	return domain.TeamProfile{
		ID:         club.ID,
		Name:       club.Name,
		SquadValue: parseMarketValue(club.MarketValue),
	}
}

func mapSnapshot(profile profileResponse, players []playerEntry, now time.Time) domain.TeamSnapshot {
	snap := domain.TeamSnapshot{
		Profile: domain.TeamProfile{
			ID:         profile.ID,
			Name:       profile.Name,
			League:     profile.League.Name,
			SquadValue: parseMarketValue(profile.CurrentMarketValue),
		},
		FetchedAt: now,
	}

	for _, p := range players {
		if isAbsent(p.Status) {
			snap.Absences = append(snap.Absences, p.Name)
		}
		if t, ok := recentTransfer(p, now); ok {
			snap.Transfers = append(snap.Transfers, t)
		}
	}
	return snap
}

// isAbsent interpreta el campo status libre de la API. Solo los estados
// que implican no disponibilidad cuentan como ausencia.
func isAbsent(status string) bool {
	s := strings.ToLower(status)
	if s == "" {
		return false
	}
	for _, kw := range []string{"injur", "tear", "suspend", "surgery", "rehab", "ill"} {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// recentTransfer devuelve el fichaje si el jugador llegó dentro de la
// ventana reciente. JoinedOn llega como fecha ISO; si no parsea, no hay
// fichaje que contar.
func recentTransfer(p playerEntry, now time.Time) (domain.Transfer, bool) {
	if p.JoinedOn == "" || p.SignedFrom == "" {
		return domain.Transfer{}, false
	}
	joined, err := time.Parse("2006-01-02", p.JoinedOn)
	if err != nil {
		return domain.Transfer{}, false
	}
	if now.Sub(joined) > recentTransferWindow {
		return domain.Transfer{}, false
	}
	return domain.Transfer{
		Player:   p.Name,
		Fee:      parseMarketValue(p.MarketValue),
		Date:     joined,
		Incoming: true,
	}, true
}

// parseMarketValue convierte "€1.20bn", "€850.00k" o "€25.50m" a EUR.
// Devuelve 0 para valores vacíos o no reconocidos.
func parseMarketValue(raw string) float64 {
	s := strings.TrimSpace(strings.TrimPrefix(raw, "€"))
	if s == "" || s == "-" {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "bn"):
		mult = 1e9
		s = strings.TrimSuffix(s, "bn")
	case strings.HasSuffix(s, "m"):
		mult = 1e6
		s = strings.TrimSuffix(s, "m")
	case strings.HasSuffix(s, "k"):
		mult = 1e3
		s = strings.TrimSuffix(s, "k")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * mult
}
