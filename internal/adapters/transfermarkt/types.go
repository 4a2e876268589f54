package transfermarkt

// types.go — DTOs del wire de la API. Los valores de mercado llegan como
// strings con sufijo ("€1.20bn", "€850k"); mapping.go los normaliza.

type searchResponse struct {
	Results []clubResult `json:"results"`
}

type clubResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	MarketValue string `json:"marketValue"`
}

type profileResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	CurrentMarketValue string `json:"currentMarketValue"`
	League             struct {
		Name string `json:"name"`
	} `json:"league"`
}

type playersResponse struct {
	Players []playerEntry `json:"players"`
}

type playerEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	MarketValue string `json:"marketValue"`
	Status      string `json:"status"`
	JoinedOn    string `json:"joinedOn"`
	SignedFrom  string `json:"signedFrom"`
}
