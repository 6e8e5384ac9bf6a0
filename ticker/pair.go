package ticker

import (
	"github.com/snowgift/snow-gift/exchange"
)

// SelectMainPair picks the pair with the largest USD liquidity. Missing
// liquidity counts as zero and the first pair wins a tie.
func SelectMainPair(pairs []exchange.Pair) (*exchange.Pair, bool) {
	if len(pairs) == 0 {
		return nil, false
	}
	main := &pairs[0]
	for i := 1; i < len(pairs); i++ {
		if pairs[i].LiquidityUSD() > main.LiquidityUSD() {
			main = &pairs[i]
		}
	}
	return main, true
}

// CapValue is the market cap of the pair, falling back to the fully diluted
// valuation when the market cap is absent or zero.
func CapValue(p *exchange.Pair) float64 {
	if p.MarketCap != nil && *p.MarketCap != 0 {
		return *p.MarketCap
	}
	if p.FDV != nil {
		return *p.FDV
	}
	return 0
}
