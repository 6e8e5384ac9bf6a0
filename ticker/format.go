package ticker

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatMarketCap renders a USD capitalization with a B/M/K suffix and two
// decimals. Zero, which is also how a missing value arrives, renders "$0".
func FormatMarketCap(value float64) string {
	switch {
	case value == 0:
		return "$0"
	case value >= 1e9:
		return "$" + toFixed(value/1e9, 2) + "B"
	case value >= 1e6:
		return "$" + toFixed(value/1e6, 2) + "M"
	case value >= 1e3:
		return "$" + toFixed(value/1e3, 2) + "K"
	}
	return "$" + toFixed(value, 2)
}

// FormatSOL renders an amount of the native asset, with more precision the
// smaller it gets.
func FormatSOL(value float64) string {
	switch {
	case value == 0:
		return "0 SOL"
	case value >= 1000:
		return toFixed(value/1000, 2) + "K SOL"
	case value >= 1:
		return toFixed(value, 4) + " SOL"
	}
	return toFixed(value, 6) + " SOL"
}

// toFixed rounds the exact binary value of v to places decimals, with halves
// going away from zero.
func toFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', int(places), 64)
	}
	exact := new(big.Rat).SetFloat64(v)
	return decimal.NewFromBigRat(exact, places).StringFixed(places)
}
