package ticker

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMarketCap(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "$0"},
		{5, "$5.00"},
		{999.994, "$999.99"},
		{1000, "$1.00K"},
		{1500, "$1.50K"},
		{999999, "$1000.00K"},
		{1_000_000, "$1.00M"},
		{1_500_000, "$1.50M"},
		{2_340_000, "$2.34M"},
		{1_000_000_000, "$1.00B"},
		{12_345_678_901, "$12.35B"},
		{0.125, "$0.13"},
		{1125, "$1.13K"},
		{2.625e6, "$2.63M"},
		{1.005, "$1.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMarketCap(tt.value), "value %v", tt.value)
	}
}

func TestFormatMarketCap_Buckets(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	pattern := regexp.MustCompile(`^\$\d+\.\d{2}[KMB]?$`)
	for i := 0; i < 1000; i++ {
		v := rnd.Float64() * 1e12
		got := FormatMarketCap(v)
		if !pattern.MatchString(got) {
			t.Fatalf("FormatMarketCap(%v) = %q, not two decimals", v, got)
		}
		var suffix string
		switch {
		case v >= 1e9:
			suffix = "B"
		case v >= 1e6:
			suffix = "M"
		case v >= 1e3:
			suffix = "K"
		}
		if suffix != "" {
			assert.Equal(t, suffix, got[len(got)-1:], "value %v", v)
		}
	}
}

func TestFormatSOL(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0 SOL"},
		{0.5, "0.500000 SOL"},
		{0.0000123, "0.000012 SOL"},
		{1, "1.0000 SOL"},
		{12.34567, "12.3457 SOL"},
		{999.5, "999.5000 SOL"},
		{1000, "1.00K SOL"},
		{1500, "1.50K SOL"},
		{1.03125, "1.0313 SOL"},
		{2125, "2.13K SOL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSOL(tt.value), "value %v", tt.value)
	}
}

func TestFormatSOL_Precision(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	small := regexp.MustCompile(`^0\.\d{6} SOL$`)
	medium := regexp.MustCompile(`^\d+\.\d{4} SOL$`)
	large := regexp.MustCompile(`^\d+\.\d{2}K SOL$`)
	for i := 0; i < 1000; i++ {
		v := rnd.ExpFloat64() * 200
		got := FormatSOL(v)
		switch {
		case v >= 1000:
			assert.Regexp(t, large, got)
		case v >= 1:
			assert.Regexp(t, medium, got)
		default:
			assert.Regexp(t, small, got)
		}
	}
}
