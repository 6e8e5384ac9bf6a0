package writer

import (
	"strconv"
)

const solscanURL = "https://solscan.io"

// ShortAddress keeps the first head and last tail characters of s joined by
// "...". Strings too short to gain from it are returned unchanged.
func ShortAddress(s string, head, tail int) string {
	if len(s) <= head+tail+2 {
		return s
	}
	return s[:head] + "..." + s[len(s)-tail:]
}

func AccountURL(address string) string {
	return solscanURL + "/account/" + address
}

func TxURL(hash string) string {
	return solscanURL + "/tx/" + hash
}

func formatBalance(sol float64) string {
	return strconv.FormatFloat(sol, 'f', 4, 64) + " SOL"
}
