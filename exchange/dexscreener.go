package exchange

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/snowgift/snow-gift/http"
)

// https://docs.dexscreener.com/api/reference
type dexScreenerClient struct {
	*http.Client
	baseURL string
}

type dexScreenerResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

func NewDexScreenerClient(baseURL string, httpClient *http.Client) PairSource {
	return &dexScreenerClient{Client: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (client *dexScreenerClient) GetName() string {
	return "DexScreener"
}

// GetPairs returns every pair listed for the token, an empty slice when the
// token is unknown to the aggregator.
func (client *dexScreenerClient) GetPairs(ctx context.Context, tokenID string) ([]Pair, error) {
	respBytes, err := client.Get(ctx, client.baseURL+"/"+url.PathEscape(tokenID), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "%s - fetch pairs of %s", client.GetName(), tokenID)
	}

	var resp dexScreenerResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, errors.Wrapf(err, "%s - decode pairs of %s", client.GetName(), tokenID)
	}
	return resp.Pairs, nil
}
