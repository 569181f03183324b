package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProviderSource yields the current set of providers.
type ProviderSource interface {
	GetProviders(ctx context.Context) ([]ProviderData, error)
}

// ProviderClientConfig holds the antennakaart API settings.
type ProviderClientConfig struct {
	BaseURL        string `mapstructure:"base_url" default:"https://antennekaart.nl/api/v1"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" default:"30"`
}

// ProviderClient fetches providers from the antennakaart API.
type ProviderClient struct {
	baseURL string
	http    *http.Client
}

// NewProviderClient creates an antennakaart API client.
func NewProviderClient(config ProviderClientConfig) *ProviderClient {
	return &ProviderClient{
		baseURL: config.BaseURL,
		http:    &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second},
	}
}

// providerPage is one page of the paginated providers endpoint.
type providerPage struct {
	Results []ProviderData `json:"results"`
	Next    *string        `json:"next"`
}

// GetProviders fetches all providers, following pagination to the end.
func (c *ProviderClient) GetProviders(ctx context.Context) ([]ProviderData, error) {
	var providers []ProviderData

	url := c.baseURL + "/providers/"
	for url != "" {
		page, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}
		providers = append(providers, page.Results...)

		url = ""
		if page.Next != nil {
			url = *page.Next
		}
	}

	return providers, nil
}

func (c *ProviderClient) fetchPage(ctx context.Context, url string) (*providerPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build providers request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch providers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("providers request returned status %d", resp.StatusCode)
	}

	var page providerPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode providers response: %w", err)
	}
	return &page, nil
}
