package exchange

import (
	"context"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"

	"github.com/snowgift/snow-gift/config"
	"github.com/snowgift/snow-gift/http"
)

// https://docs.coingecko.com/reference/simple-price
type coinGeckoClient struct {
	*http.Client
	baseURL string
	asset   string
}

func NewCoinGeckoClient(baseURL, asset string, httpClient *http.Client) ReferencePriceSource {
	return &coinGeckoClient{Client: httpClient, baseURL: strings.TrimSuffix(baseURL, "/"), asset: asset}
}

func (client *coinGeckoClient) GetName() string {
	return "CoinGecko"
}

func (client *coinGeckoClient) GetReferencePrice(ctx context.Context) (float64, error) {
	respBytes, err := client.Get(ctx, client.baseURL+"/simple/price", map[string]string{
		"ids":           client.asset,
		"vs_currencies": "usd",
	})
	if err != nil {
		return 0, err
	}

	// The response is keyed by the asset id, eg. {"solana":{"usd":151.2}}
	price, err := jsonparser.GetFloat(respBytes, client.asset, "usd")
	if err != nil {
		return 0, errors.Wrapf(err, "%s - no usd price for %s", client.GetName(), client.asset)
	}
	if price <= 0 {
		return 0, errors.Errorf("%s - invalid usd price %v for %s", client.GetName(), price, client.asset)
	}
	return price, nil
}

func init() {
	Register("coingecko", func(cfg *config.Config, httpClient *http.Client) ReferencePriceSource {
		return NewCoinGeckoClient(cfg.Endpoints.CoinGecko, cfg.Reference.Asset, httpClient)
	})
}
