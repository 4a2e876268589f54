package transfermarkt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/alejandrodnm/trapmap/internal/domain"
	"github.com/alejandrodnm/trapmap/internal/ports"
)

const (
	defaultBaseURL = "https://transfermarkt-api.fly.dev"

	// La API pública no documenta límites; 2 req/s evita los 429
	// observados con ráfagas mayores.
	requestsPerSec = 2

	maxElapsedRetry = 15 * time.Second
)

// Client consulta la API de Transfermarkt con rate limiting y retries.
// Implementa ports.TeamProvider.
type Client struct {
	http        *http.Client
	base        string
	limiter     *rate.Limiter
	retryBudget time.Duration
}

// NewClient crea un Client. Si base está vacío usa la API pública.
func NewClient(base string) *Client {
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		base:        base,
		limiter:     rate.NewLimiter(requestsPerSec, 2),
		retryBudget: maxElapsedRetry,
	}
}

// Health comprueba que la API responde.
func (c *Client) Health(ctx context.Context) error {
	var out struct{}
	if err := c.get(ctx, "/", &out); err != nil {
		return fmt.Errorf("transfermarkt.Health: %w", err)
	}
	return nil
}

// SearchTeam resuelve un nombre de equipo al primer resultado de búsqueda.
func (c *Client) SearchTeam(ctx context.Context, name string) (domain.TeamProfile, error) {
	var resp searchResponse
	path := "/clubs/search/" + url.PathEscape(name)
	if err := c.get(ctx, path, &resp); err != nil {
		return domain.TeamProfile{}, fmt.Errorf("transfermarkt.SearchTeam %q: %w", name, err)
	}
	if len(resp.Results) == 0 {
		return domain.TeamProfile{}, fmt.Errorf("transfermarkt.SearchTeam: club %q not found", name)
	}
	return mapProfile(resp.Results[0]), nil
}

// TeamSnapshot compone perfil y plantilla en un snapshot del equipo.
// La API no expone rachas de resultados, así que Form queda vacío y el
// builder de contexto degrada esa señal.
func (c *Client) TeamSnapshot(ctx context.Context, teamID string) (domain.TeamSnapshot, error) {
	var profile profileResponse
	if err := c.get(ctx, "/clubs/"+teamID+"/profile", &profile); err != nil {
		return domain.TeamSnapshot{}, fmt.Errorf("transfermarkt.TeamSnapshot %s: profile: %w", teamID, err)
	}

	var players playersResponse
	if err := c.get(ctx, "/clubs/"+teamID+"/players", &players); err != nil {
		return domain.TeamSnapshot{}, fmt.Errorf("transfermarkt.TeamSnapshot %s: players: %w", teamID, err)
	}

	snap := mapSnapshot(profile, players.Players, time.Now())
	return snap, nil
}

// get hace un GET con rate limiting y retries exponenciales. Los errores
// de transporte se marcan como ErrProviderUnavailable para que el caller
// pueda degradar; los 4xx no se reintentan.
func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ports.ErrProviderUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			if err := json.Unmarshal(body, out); err != nil {
				return backoff.Permanent(fmt.Errorf("decode %s: %w", path, err))
			}
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
			return backoff.Permanent(fmt.Errorf("GET %s: status %d", path, resp.StatusCode))
		default:
			return fmt.Errorf("%w: GET %s: status %d", ports.ErrProviderUnavailable, path, resp.StatusCode)
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.retryBudget
	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}
