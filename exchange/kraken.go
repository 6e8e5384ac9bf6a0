package exchange

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/snowgift/snow-gift/config"
	"github.com/snowgift/snow-gift/http"
)

// https://docs.kraken.com/api/docs/rest-api/get-ticker-information
type krakenClient struct {
	*http.Client
	baseURL string
	pair    string
}

func NewKrakenClient(baseURL, pair string, httpClient *http.Client) ReferencePriceSource {
	return &krakenClient{Client: httpClient, baseURL: strings.TrimSuffix(baseURL, "/"), pair: strings.ToUpper(pair)}
}

func (client *krakenClient) GetName() string {
	return "Kraken"
}

// Check to see if we have error in the response
func (client *krakenClient) extractError(respByte []byte) error {
	errorArray := gjson.GetBytes(respByte, "error").Array()
	if len(errorArray) > 0 && errorArray[0].String() != "" {
		return errors.New(errorArray[0].String())
	}
	return nil
}

func (client *krakenClient) GetReferencePrice(ctx context.Context) (float64, error) {
	respByte, err := client.Get(ctx, client.baseURL+"/Ticker", map[string]string{"pair": client.pair})
	if err := client.extractError(respByte); err != nil {
		return 0, errors.Wrapf(err, "%s - get ticker", client.GetName())
	}
	if err != nil {
		return 0, err
	}

	// c is the last trade closed, [price, lot volume]
	path := "result." + client.pair + ".c.0"
	lastPriceV := gjson.GetBytes(respByte, path)
	if !lastPriceV.Exists() {
		return 0, errors.Errorf("%s - malformed ticker response, missing key %s", client.GetName(), path)
	}
	price := lastPriceV.Float()
	if price <= 0 {
		return 0, errors.Errorf("%s - invalid price %q for %s", client.GetName(), lastPriceV.String(), client.pair)
	}
	return price, nil
}

func init() {
	Register("kraken", func(cfg *config.Config, httpClient *http.Client) ReferencePriceSource {
		return NewKrakenClient(cfg.Endpoints.Kraken, cfg.Reference.KrakenPair, httpClient)
	})
}
