package exchange

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/preichenberger/go-coinbasepro/v2"

	"github.com/snowgift/snow-gift/config"
	"github.com/snowgift/snow-gift/http"
)

// https://docs.cdp.coinbase.com/exchange/reference/exchangerestapi_getproductticker
type coinbaseClient struct {
	coinbasepro *coinbasepro.Client
	product     string
}

// NewCoinbaseClient quotes product (eg. SOL-USD). An empty baseURL keeps the
// library default endpoint.
func NewCoinbaseClient(baseURL, product string, httpClient *http.Client) ReferencePriceSource {
	client := coinbasepro.NewClient()
	client.HTTPClient = httpClient.StdClient
	if baseURL != "" {
		client.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &coinbaseClient{coinbasepro: client, product: strings.ToUpper(product)}
}

func (client *coinbaseClient) GetName() string {
	return "Coinbase"
}

// GetReferencePrice ignores ctx, the library has no context support; the
// http client timeout still applies.
func (client *coinbaseClient) GetReferencePrice(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ticker, err := client.coinbasepro.GetTicker(client.product)
	if err != nil {
		return 0, errors.Wrapf(err, "%s - get ticker of %s", client.GetName(), client.product)
	}
	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "%s - failed to convert price %q to float", client.GetName(), ticker.Price)
	}
	if price <= 0 {
		return 0, errors.Errorf("%s - invalid price %v for %s", client.GetName(), price, client.product)
	}
	return price, nil
}

func init() {
	Register("coinbase", func(cfg *config.Config, httpClient *http.Client) ReferencePriceSource {
		return NewCoinbaseClient(cfg.Endpoints.Coinbase, cfg.Reference.CoinbaseProduct, httpClient)
	})
}
