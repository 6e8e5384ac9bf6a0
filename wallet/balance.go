package wallet

import "github.com/shopspring/decimal"

const lamportDecimals = 9

// LamportsToSOL converts an on-chain balance to SOL.
func LamportsToSOL(lamports uint64) float64 {
	return decimal.NewFromUint64(lamports).Shift(-lamportDecimals).InexactFloat64()
}
