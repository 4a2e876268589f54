package teamdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/trapmap/internal/domain"
	"github.com/alejandrodnm/trapmap/internal/ports"
)

// fakeProvider sirve snapshots fijos por nombre y cuenta llamadas.
type fakeProvider struct {
	snapshots map[string]domain.TeamSnapshot
	searches  int
	fail      bool
}

func (f *fakeProvider) SearchTeam(_ context.Context, name string) (domain.TeamProfile, error) {
	f.searches++
	if f.fail {
		return domain.TeamProfile{}, ports.ErrProviderUnavailable
	}
	snap, ok := f.snapshots[name]
	if !ok {
		return domain.TeamProfile{}, ports.ErrProviderUnavailable
	}
	return snap.Profile, nil
}

func (f *fakeProvider) TeamSnapshot(_ context.Context, teamID string) (domain.TeamSnapshot, error) {
	for _, snap := range f.snapshots {
		if snap.Profile.ID == teamID {
			return snap, nil
		}
	}
	return domain.TeamSnapshot{}, ports.ErrProviderUnavailable
}

// memCache es un ports.Cache en memoria sin expiración.
type memCache struct {
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.entries[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.entries[key] = value
	return nil
}

func stableTeam(id, name string, value float64) domain.TeamSnapshot {
	return domain.TeamSnapshot{
		Profile: domain.TeamProfile{ID: id, Name: name, SquadValue: value},
	}
}

func TestBuildDegradesWhenProviderDown(t *testing.T) {
	b := NewBuilder(&fakeProvider{fail: true}, newMemCache(), time.Hour)

	signals := b.Build(context.Background(), "Sevilla", "Betis")
	assert.True(t, signals.Empty())
}

func TestBuildUsesCacheOnSecondCall(t *testing.T) {
	provider := &fakeProvider{snapshots: map[string]domain.TeamSnapshot{
		"Sevilla": stableTeam("368", "Sevilla", 200e6),
		"Betis":   stableTeam("150", "Betis", 180e6),
	}}
	b := NewBuilder(provider, newMemCache(), time.Hour)

	b.Build(context.Background(), "Sevilla", "Betis")
	require.Equal(t, 2, provider.searches)

	b.Build(context.Background(), "Sevilla", "Betis")
	assert.Equal(t, 2, provider.searches, "la segunda llamada debe servirse del cache")
}

func TestDeriveInstabilityFromTransfers(t *testing.T) {
	home := stableTeam("1", "Chelsea", 900e6)
	for i := 0; i < 5; i++ {
		home.Transfers = append(home.Transfers, domain.Transfer{Player: "p", Incoming: true})
	}
	away := stableTeam("2", "Fulham", 300e6)

	signals := Derive(home, away)

	require.Len(t, signals.Factors, 1)
	f := signals.Factors[0]
	assert.Equal(t, domain.FactorTeamInstability, f.Kind)
	assert.Equal(t, "Chelsea", f.Team)
	assert.Equal(t, "Fulham", f.Favors)
	assert.InDelta(t, 0.8, f.Impact, 0.001)
	assert.InDelta(t, 0.4, signals.InstabilityFactor, 0.001)
}

func TestDeriveAbsences(t *testing.T) {
	home := stableTeam("1", "Arsenal", 900e6)
	home.Absences = []string{"Saliba", "Odegaard", "Saka"}
	away := stableTeam("2", "Brentford", 400e6)

	signals := Derive(home, away)

	require.Len(t, signals.Factors, 1)
	f := signals.Factors[0]
	assert.Equal(t, domain.FactorKeyAbsences, f.Kind)
	assert.InDelta(t, 0.7, f.Impact, 0.001)
}

func TestDeriveMismatchNeedsLargeRatio(t *testing.T) {
	big := stableTeam("1", "City", 1.2e9)
	small := stableTeam("2", "Luton", 100e6)

	signals := Derive(big, small)
	require.Len(t, signals.Factors, 1)
	f := signals.Factors[0]
	assert.Equal(t, domain.FactorTacticalMismatch, f.Kind)
	assert.Equal(t, "Luton", f.Team)
	assert.Equal(t, "City", f.Favors)

	// Diferencias normales no generan factor.
	even := Derive(stableTeam("1", "A", 500e6), stableTeam("2", "B", 300e6))
	assert.True(t, even.Empty())
}

func TestDeriveFormExtremes(t *testing.T) {
	hot := stableTeam("1", "Leverkusen", 500e6)
	hot.Form = domain.TeamForm{Results: []domain.FormResult{
		domain.FormWin, domain.FormWin, domain.FormWin, domain.FormWin, domain.FormWin,
	}}
	cold := stableTeam("2", "Union", 150e6)
	cold.Form = domain.TeamForm{Results: []domain.FormResult{
		domain.FormLoss, domain.FormLoss, domain.FormDraw, domain.FormLoss, domain.FormLoss,
	}}

	signals := Derive(hot, cold)

	var kinds []domain.ContextFactorKind
	for _, f := range signals.Factors {
		kinds = append(kinds, f.Kind)
	}
	assert.Contains(t, kinds, domain.FactorFormExtreme)

	count := 0
	for _, f := range signals.Factors {
		if f.Kind == domain.FactorFormExtreme {
			count++
		}
	}
	assert.Equal(t, 2, count, "racha extrema y crisis deben emitir factor cada una")

	// Rachas cortas no cuentan.
	short := stableTeam("3", "X", 100e6)
	short.Form = domain.TeamForm{Results: []domain.FormResult{domain.FormWin, domain.FormWin}}
	assert.True(t, Derive(short, stableTeam("4", "Y", 100e6)).Empty())
}
