package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Will be set by go-build
var (
	Version string
	Rev     string
)

const (
	defaultRefresh       = 15
	defaultTimeout       = 20
	defaultReferenceTTL  = 60
	defaultFallbackPrice = 150
	defaultFeeRate       = 0.01
	defaultFeeWindow     = "h24"

	DexScreenerAPI = "https://api.dexscreener.com/latest/dex/tokens"
	CoinGeckoAPI   = "https://api.coingecko.com/api/v3"
	KrakenAPI      = "https://api.kraken.com/0/public"
	CoinbaseAPI    = "https://api.exchange.coinbase.com"
	SolanaRPC      = "https://api.mainnet-beta.solana.com"

	envPrefix = "SNOWGIFT"
)

func Parse() *Config {
	// Set log format
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	}
	logrus.SetFormatter(formatter)
	logrus.SetOutput(colorable.NewColorableStderr()) // For Windows

	fs := newFlagSet()
	fs.Usage = func() { showUsageAndExit(fs) }
	if err := fs.Parse(os.Args[1:]); err != nil {
		logrus.Fatalf("Failed to parse command line: %v", err)
	}

	if help, _ := fs.GetBool("help"); help {
		showUsageAndExit(fs)
	}

	if showVersion, _ := fs.GetBool("version"); showVersion {
		fmt.Fprintf(os.Stderr, "Version %s", Version)
		if Rev != "" {
			fmt.Fprintf(os.Stderr, ", build %s", Rev)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}

	cfg, err := load(fs)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return cfg
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("snow-gift", pflag.ContinueOnError)
	fs.BoolP("version", "v", false, "Show version number")
	fs.BoolP("help", "h", false, "Show usage message")
	fs.MarkHidden("help")
	fs.BoolP("debug", "d", false, "Enable debug mode")
	fs.Bool("once", false, "Render the dashboard once and exit")
	fs.IntP("refresh", "r", defaultRefresh, "Refresh market data on every specified seconds")
	fs.StringP("config-file", "c", "", "Config file path, "+
		"by default snow-gift uses \"snow_gift.yml\" in current directory, $HOME or /etc")
	fs.StringSliceP("show", "s", supportedColumns(), "Only show comma-separated columns")
	fs.StringP("proxy", "p", "", "Proxy used when sending HTTP request \n(eg. "+
		"\"http://localhost:7777\", \"https://localhost:7777\", \"socks5://localhost:1080\")")
	fs.IntP("timeout", "t", defaultTimeout, "HTTP request timeout in seconds")
	fs.Bool("no-fees", false, "Disable the trading fee estimate")
	fs.Float64("fee-rate", defaultFeeRate, "Share of traded volume counted as fees")
	fs.String("fee-window", defaultFeeWindow, "Volume window used for the fee estimate (m5, h1, h6, h24)")
	fs.String("reference-source", "coingecko", "Where the SOL/USD price comes from (coingecko, binance, kraken, coinbase)")
	fs.String("database-dsn", "", "Postgres DSN of the hosted database, records are disabled when empty")
	fs.String("rpc", SolanaRPC, "Solana JSON-RPC endpoint used for wallet balances")
	fs.StringP("listen", "l", "", "Serve the viewer API on this address (eg. \":8080\")")
	fs.String("connect", "", "Connect a wallet address and record its SOL balance")
	fs.String("settings-file", "", "Publish milestones and stats from this YAML/JSON file")
	fs.SortFlags = false
	return fs
}

func load(fs *pflag.FlagSet) (*Config, error) {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("token", "")
	v.SetDefault("fees.enabled", true)
	v.SetDefault("fees.rate", defaultFeeRate)
	v.SetDefault("fees.window", defaultFeeWindow)
	v.SetDefault("reference.source", "coingecko")
	v.SetDefault("reference.asset", "solana")
	v.SetDefault("reference.symbol", "SOLUSDT")
	v.SetDefault("reference.kraken-pair", "SOLUSD")
	v.SetDefault("reference.coinbase-product", "SOL-USD")
	v.SetDefault("reference.ttl", defaultReferenceTTL)
	v.SetDefault("reference.fallback", defaultFallbackPrice)
	v.SetDefault("endpoints.dexscreener", DexScreenerAPI)
	v.SetDefault("endpoints.coingecko", CoinGeckoAPI)
	v.SetDefault("endpoints.binance", "")
	v.SetDefault("endpoints.kraken", KrakenAPI)
	v.SetDefault("endpoints.coinbase", CoinbaseAPI)
	v.SetDefault("endpoints.solana-rpc", SolanaRPC)

	for _, name := range []string{"debug", "once", "refresh", "show", "proxy", "timeout",
		"database-dsn", "listen", "connect", "settings-file"} {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return nil, errors.Wrapf(err, "bind flag %s", name)
		}
	}
	// Flags whose config keys live in nested sections
	nested := map[string]string{
		"fees.rate":            "fee-rate",
		"fees.window":          "fee-window",
		"reference.source":     "reference-source",
		"endpoints.solana-rpc": "rpc",
	}
	for key, flag := range nested {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, errors.Wrapf(err, "bind flag %s", flag)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Set configure file
	v.SetConfigName("snow_gift") // name of config file (without extension)
	v.AddConfigPath(".")         // path to look for the config file in
	v.AddConfigPath("$HOME")     // optionally look for config in the HOME directory
	v.AddConfigPath("/etc")      // and /etc
	if configFile, _ := fs.GetString("config-file"); configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			logrus.Debug("No config file found, using flags and environment only")
		default:
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %q", v.ConfigFileUsed())
	}
	if noFees, _ := fs.GetBool("no-fees"); noFees {
		cfg.Fees.Enabled = false
	}
	if fs.NArg() != 0 {
		// command-line token takes precedence
		cfg.Token = fs.Arg(0)
	}
	cfg.Token = strings.TrimSpace(cfg.Token)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logrus.Debugln("Using config file:", v.ConfigFileUsed())
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Fees.Rate < 0 {
		return errors.Errorf("fee rate must not be negative, got %v", c.Fees.Rate)
	}
	valid := false
	for _, w := range volumeWindows {
		if c.Fees.Window == w {
			valid = true
			break
		}
	}
	if !valid {
		return errors.Errorf("unknown fee window %q, expecting one of %s", c.Fees.Window, strings.Join(volumeWindows, ", "))
	}
	for _, col := range c.Columns {
		if !isSupportedColumn(col) {
			return errors.Errorf("unknown column: %s", col)
		}
	}
	return nil
}

func isSupportedColumn(col string) bool {
	for _, supported := range supportedColumns() {
		if strings.EqualFold(col, supported) {
			return true
		}
	}
	return false
}

func showUsageAndExit(fs *pflag.FlagSet) {
	// Print usage message and exit
	fmt.Fprintf(os.Stderr, "\nUsage: %s [Options] [TokenAddress]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "\nTrack the Snow Gift market cap, reward milestones and winners in the terminal")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	fs.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nEvery option can also be set in snow_gift.yml or with a SNOWGIFT_ prefixed environment variable"+
		" (eg. \"SNOWGIFT_DATABASE_DSN\").")
	os.Exit(0)
}
