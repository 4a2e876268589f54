package teamdata

// builder.go — convierte datos de equipo del proveedor en ContextSignals.
//
// El builder es la frontera entre el mundo con I/O y el núcleo puro: si el
// proveedor no responde, degrada a señales vacías y el análisis sigue solo
// con cuotas y volúmenes. La API de Transfermarkt no sirve histórico de
// enfrentamientos directos, así que el factor h2h_skew solo se emite si el
// caller lo aporta por otra vía.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/trapmap/internal/domain"
	"github.com/alejandrodnm/trapmap/internal/ports"
)

const (
	// Umbrales de derivación de factores.
	minTransfersForInstability = 3
	minAbsencesForFactor       = 2
	squadValueMismatchRatio    = 4.0
	minFormResults             = 5
	formExtremeHigh            = 0.8
	formExtremeLow             = 0.2
)

// Builder resuelve los ContextSignals de un partido consultando el
// proveedor de datos de equipo a través del cache.
type Builder struct {
	provider ports.TeamProvider
	cache    ports.Cache
	ttl      time.Duration
}

// NewBuilder crea un Builder. Un TTL no positivo usa una hora.
func NewBuilder(provider ports.TeamProvider, cache ports.Cache, ttl time.Duration) *Builder {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Builder{provider: provider, cache: cache, ttl: ttl}
}

// Build resuelve los factores contextuales del partido. Cualquier fallo
// del proveedor degrada a señales vacías, nunca a error: el contexto es
// enriquecimiento, no requisito.
func (b *Builder) Build(ctx context.Context, home, away string) domain.ContextSignals {
	homeSnap, err := b.teamSnapshot(ctx, home)
	if err != nil {
		b.logDegrade(home, err)
		return domain.ContextSignals{}
	}
	awaySnap, err := b.teamSnapshot(ctx, away)
	if err != nil {
		b.logDegrade(away, err)
		return domain.ContextSignals{}
	}

	return Derive(homeSnap, awaySnap)
}

// Derive calcula los factores a partir de dos snapshots ya resueltos.
// Es puro; Build solo añade la capa de I/O con cache.
func Derive(home, away domain.TeamSnapshot) domain.ContextSignals {
	var signals domain.ContextSignals

	homeInstability := instability(home, away.Profile.Name, &signals)
	awayInstability := instability(away, home.Profile.Name, &signals)
	signals.InstabilityFactor = (homeInstability + awayInstability) / 2

	deriveMismatch(home, away, &signals)
	deriveForm(home, &signals)
	deriveForm(away, &signals)

	return signals
}

// instability emite los factores de plantilla de un equipo y devuelve su
// contribución al factor de inestabilidad agregado.
func instability(snap domain.TeamSnapshot, rival string, signals *domain.ContextSignals) float64 {
	team := snap.Profile.Name
	contribution := 0.0

	if n := len(snap.Transfers); n >= minTransfersForInstability {
		impact := min(0.8, 0.3+0.1*float64(n))
		contribution = impact
		signals.Factors = append(signals.Factors, domain.ContextFactor{
			Kind:        domain.FactorTeamInstability,
			Team:        team,
			Favors:      rival,
			Impact:      impact,
			Description: fmt.Sprintf("%s con %d fichajes recientes, plantilla por asentar", team, n),
		})
	}

	if n := len(snap.Absences); n >= minAbsencesForFactor {
		impact := min(0.85, 0.25+0.15*float64(n))
		if impact > contribution {
			contribution = impact
		}
		signals.Factors = append(signals.Factors, domain.ContextFactor{
			Kind:        domain.FactorKeyAbsences,
			Team:        team,
			Favors:      rival,
			Impact:      impact,
			Description: fmt.Sprintf("%s con %d bajas clave", team, n),
		})
	}

	return contribution
}

// deriveMismatch compara valores de plantilla. Solo dispara con una
// diferencia grande: las cuotas ya descuentan diferencias normales.
func deriveMismatch(home, away domain.TeamSnapshot, signals *domain.ContextSignals) {
	hv, av := home.Profile.SquadValue, away.Profile.SquadValue
	if hv <= 0 || av <= 0 {
		return
	}

	ratio := hv / av
	strong, weak := home.Profile.Name, away.Profile.Name
	if ratio < 1 {
		ratio = av / hv
		strong, weak = weak, strong
	}
	if ratio < squadValueMismatchRatio {
		return
	}

	signals.Factors = append(signals.Factors, domain.ContextFactor{
		Kind:        domain.FactorTacticalMismatch,
		Team:        weak,
		Favors:      strong,
		Impact:      min(0.75, 0.3+ratio*0.05),
		Description: fmt.Sprintf("valor de plantilla %.1fx a favor de %s", ratio, strong),
	})
}

// deriveForm marca rachas extremas, que suelen venir ya sobredescontadas
// en las cuotas.
func deriveForm(snap domain.TeamSnapshot, signals *domain.ContextSignals) {
	if len(snap.Form.Results) < minFormResults {
		return
	}

	team := snap.Profile.Name
	rate := snap.Form.WinRate()
	switch {
	case rate >= formExtremeHigh:
		signals.Factors = append(signals.Factors, domain.ContextFactor{
			Kind:        domain.FactorFormExtreme,
			Team:        team,
			Favors:      team,
			Impact:      0.6,
			Description: fmt.Sprintf("%s en racha extrema (%.0f%% victorias)", team, rate*100),
		})
	case rate <= formExtremeLow:
		signals.Factors = append(signals.Factors, domain.ContextFactor{
			Kind:        domain.FactorFormExtreme,
			Team:        team,
			Impact:      0.6,
			Description: fmt.Sprintf("%s en crisis de resultados (%.0f%% victorias)", team, rate*100),
		})
	}
}

// teamSnapshot resuelve el snapshot vía cache; un miss consulta al
// proveedor y guarda el resultado.
func (b *Builder) teamSnapshot(ctx context.Context, name string) (domain.TeamSnapshot, error) {
	key := "team:" + name

	if cached, err := b.cache.Get(ctx, key); err == nil {
		var snap domain.TeamSnapshot
		if err := json.Unmarshal(cached, &snap); err == nil {
			return snap, nil
		}
		slog.Warn("teamdata: corrupt cache entry, refetching", "key", key)
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		slog.Warn("teamdata: cache read failed", "key", key, "error", err)
	}

	profile, err := b.provider.SearchTeam(ctx, name)
	if err != nil {
		return domain.TeamSnapshot{}, fmt.Errorf("teamdata: search %q: %w", name, err)
	}
	snap, err := b.provider.TeamSnapshot(ctx, profile.ID)
	if err != nil {
		return domain.TeamSnapshot{}, fmt.Errorf("teamdata: snapshot %q: %w", name, err)
	}

	if raw, err := json.Marshal(snap); err == nil {
		if err := b.cache.Set(ctx, key, raw, b.ttl); err != nil {
			slog.Warn("teamdata: cache write failed", "key", key, "error", err)
		}
	}
	return snap, nil
}

func (b *Builder) logDegrade(team string, err error) {
	if errors.Is(err, ports.ErrProviderUnavailable) {
		slog.Warn("teamdata: provider unavailable, continuing without context", "team", team)
		return
	}
	slog.Warn("teamdata: context degraded", "team", team, "error", err)
}
