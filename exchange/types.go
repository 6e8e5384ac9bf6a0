package exchange

import (
	"context"
	"strings"
)

type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type Liquidity struct {
	USD   *float64 `json:"usd"`
	Base  float64  `json:"base"`
	Quote float64  `json:"quote"`
}

type Volume struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// Window returns the volume for one of "m5", "h1", "h6" or "h24".
func (v Volume) Window(name string) (float64, bool) {
	switch strings.ToLower(name) {
	case "m5":
		return v.M5, true
	case "h1":
		return v.H1, true
	case "h6":
		return v.H6, true
	case "h24":
		return v.H24, true
	}
	return 0, false
}

// Pair is a DEX trading pair as reported by the aggregator, never mutated after decoding.
type Pair struct {
	ChainID       string     `json:"chainId"`
	DexID         string     `json:"dexId"`
	URL           string     `json:"url"`
	PairAddress   string     `json:"pairAddress"`
	BaseToken     Token      `json:"baseToken"`
	QuoteToken    Token      `json:"quoteToken"`
	PriceUSD      string     `json:"priceUsd"`
	Volume        Volume     `json:"volume"`
	Liquidity     *Liquidity `json:"liquidity"`
	FDV           *float64   `json:"fdv"`
	MarketCap     *float64   `json:"marketCap"`
	PairCreatedAt int64      `json:"pairCreatedAt"`
}

// LiquidityUSD treats a missing liquidity block or value as zero.
func (p *Pair) LiquidityUSD() float64 {
	if p.Liquidity == nil || p.Liquidity.USD == nil {
		return 0
	}
	return *p.Liquidity.USD
}

type PairSource interface {
	GetName() string
	GetPairs(ctx context.Context, tokenID string) ([]Pair, error)
}

// ReferencePriceSource quotes the USD price of the chain-native asset.
type ReferencePriceSource interface {
	GetName() string
	GetReferencePrice(ctx context.Context) (float64, error)
}
