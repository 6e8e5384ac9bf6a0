package config

import (
	"time"
)

const (
	ColumnToken     = "Token"
	ColumnMarketCap = "Market Cap"
	ColumnFees      = "Fees"
	ColumnStatus    = "Status"
	ColumnUpdated   = "Updated"
)

func supportedColumns() []string {
	return []string{ColumnToken, ColumnMarketCap, ColumnFees, ColumnStatus, ColumnUpdated}
}

// Volume windows reported by DexScreener.
var volumeWindows = []string{"m5", "h1", "h6", "h24"}

type FeeConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`
	Window  string  `mapstructure:"window"`
}

// ReferenceConfig picks where the SOL/USD price comes from. Asset is the
// CoinGecko id, Symbol the Binance symbol, KrakenPair and CoinbaseProduct the
// market names on those exchanges.
type ReferenceConfig struct {
	Source          string  `mapstructure:"source"`
	Asset           string  `mapstructure:"asset"`
	Symbol          string  `mapstructure:"symbol"`
	KrakenPair      string  `mapstructure:"kraken-pair"`
	CoinbaseProduct string  `mapstructure:"coinbase-product"`
	TTL             int     `mapstructure:"ttl"`
	Fallback        float64 `mapstructure:"fallback"`
}

type EndpointConfig struct {
	DexScreener string `mapstructure:"dexscreener"`
	CoinGecko   string `mapstructure:"coingecko"`
	Binance     string `mapstructure:"binance"`
	Kraken      string `mapstructure:"kraken"`
	Coinbase    string `mapstructure:"coinbase"`
	SolanaRPC   string `mapstructure:"solana-rpc"`
}

type Config struct {
	Token        string          `mapstructure:"token"`
	Timeout      int             `mapstructure:"timeout"`
	Proxy        string          `mapstructure:"proxy"`
	Refresh      int             `mapstructure:"refresh"`
	Columns      []string        `mapstructure:"show"`
	Debug        bool            `mapstructure:"debug"`
	Once         bool            `mapstructure:"once"`
	Fees         FeeConfig       `mapstructure:"fees"`
	Reference    ReferenceConfig `mapstructure:"reference"`
	Endpoints    EndpointConfig  `mapstructure:"endpoints"`
	DatabaseDSN  string          `mapstructure:"database-dsn"`
	Listen       string          `mapstructure:"listen"`
	Connect      string          `mapstructure:"connect"`
	SettingsFile string          `mapstructure:"settings-file"`
}

func (c *Config) RefreshInterval() time.Duration {
	if c.Refresh <= 0 {
		return defaultRefresh * time.Second
	}
	return time.Duration(c.Refresh) * time.Second
}

func (c *Config) ReferenceTTL() time.Duration {
	if c.Reference.TTL <= 0 {
		return defaultReferenceTTL * time.Second
	}
	return time.Duration(c.Reference.TTL) * time.Second
}
