package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Provider identifiers accepted by NewProviders.
const (
	ProviderOpenFoodFacts = "openfoodfacts"
	ProviderUPCItemDB     = "upcitemdb"
	ProviderOpenGTINDB    = "opengtindb"
)

// Default provider base URLs.
const (
	DefaultOpenFoodFactsURL = "https://world.openfoodfacts.org"
	DefaultUPCItemDBURL     = "https://api.upcitemdb.com"
	DefaultOpenGTINDBURL    = "https://opengtindb.org"
)

const (
	userAgent    = "larder/1.0"
	maxBodyBytes = 1 << 20
)

// DefaultProviderOrder is the cascade order used when none is configured.
var DefaultProviderOrder = []string{ProviderOpenFoodFacts, ProviderUPCItemDB, ProviderOpenGTINDB}

// Endpoints overrides provider base URLs. Empty fields use the defaults.
type Endpoints struct {
	OpenFoodFacts string
	UPCItemDB     string
	OpenGTINDB    string
}

// NewProviders builds providers in the given order.
func NewProviders(names []string, endpoints Endpoints, client *http.Client, logger zerolog.Logger) ([]Provider, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if len(names) == 0 {
		names = DefaultProviderOrder
	}

	providers := make([]Provider, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ProviderOpenFoodFacts:
			providers = append(providers, NewOpenFoodFacts(orDefault(endpoints.OpenFoodFacts, DefaultOpenFoodFactsURL), client))
		case ProviderUPCItemDB:
			providers = append(providers, NewUPCItemDB(orDefault(endpoints.UPCItemDB, DefaultUPCItemDBURL), client))
		case ProviderOpenGTINDB:
			providers = append(providers, NewOpenGTINDB(orDefault(endpoints.OpenGTINDB, DefaultOpenGTINDBURL), client))
		default:
			return nil, fmt.Errorf("unknown lookup provider %q", name)
		}
	}

	logger.Info().Strs("providers", names).Msg("lookup providers configured")
	return providers, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return strings.TrimRight(v, "/")
}

// get performs a GET and returns the body of a 200 response.
func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	body, err := get(ctx, client, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
