package exchange

import (
	"context"
	"strconv"
	"strings"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"

	"github.com/snowgift/snow-gift/config"
	"github.com/snowgift/snow-gift/http"
)

// https://github.com/binance/binance-spot-api-docs/blob/master/rest-api.md
type binanceClient struct {
	api    *binance.Client
	symbol string
}

// NewBinanceClient quotes symbol (eg. SOLUSDT) from the spot ticker, USDT is taken as USD.
// An empty baseURL keeps the library default endpoint.
func NewBinanceClient(baseURL, symbol string, httpClient *http.Client) ReferencePriceSource {
	// Public endpoints only, no keys needed
	api := binance.NewClient("", "")
	api.HTTPClient = httpClient.StdClient
	if baseURL != "" {
		api.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &binanceClient{api: api, symbol: strings.ToUpper(symbol)}
}

func (client *binanceClient) GetName() string {
	return "Binance"
}

func (client *binanceClient) GetReferencePrice(ctx context.Context) (float64, error) {
	prices, err := client.api.NewListPricesService().Symbol(client.symbol).Do(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "%s - list price of %s", client.GetName(), client.symbol)
	}
	for _, p := range prices {
		if !strings.EqualFold(p.Symbol, client.symbol) {
			continue
		}
		price, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "%s - failed to convert price %q to float", client.GetName(), p.Price)
		}
		if price <= 0 {
			return 0, errors.Errorf("%s - invalid price %v for %s", client.GetName(), price, client.symbol)
		}
		return price, nil
	}
	return 0, errors.Errorf("%s - no price returned for %s", client.GetName(), client.symbol)
}

func init() {
	Register("binance", func(cfg *config.Config, httpClient *http.Client) ReferencePriceSource {
		return NewBinanceClient(cfg.Endpoints.Binance, cfg.Reference.Symbol, httpClient)
	})
}
