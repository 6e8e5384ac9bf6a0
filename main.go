package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"

	"github.com/snowgift/snow-gift/config"
	"github.com/snowgift/snow-gift/exchange"
	"github.com/snowgift/snow-gift/http"
	"github.com/snowgift/snow-gift/server"
	"github.com/snowgift/snow-gift/store"
	"github.com/snowgift/snow-gift/ticker"
	"github.com/snowgift/snow-gift/wallet"
	"github.com/snowgift/snow-gift/writer"
)

// How long --once waits for the first market data
const onceTimeout = 30 * time.Second

func newFeeEstimator(cfg *config.Config, httpClient *http.Client) *ticker.FeeEstimator {
	if !cfg.Fees.Enabled {
		return nil
	}
	source, err := exchange.NewReferenceSource(cfg.Reference.Source, cfg, httpClient)
	if err != nil {
		logrus.Fatalf("Failed to set up fee estimate: %v", err)
	}
	logrus.Debugf("Using %s for the reference price", source.GetName())
	prices := ticker.NewPriceCache(source,
		ticker.WithTTL(cfg.ReferenceTTL()),
		ticker.WithFallbackPrice(cfg.Reference.Fallback))
	return &ticker.FeeEstimator{Prices: prices, Rate: cfg.Fees.Rate, Window: cfg.Fees.Window}
}

func notify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func main() {
	cfg := config.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := http.New(cfg)
	hub := server.NewHub()
	redraw := make(chan struct{}, 1)

	var opts []ticker.Option
	opts = append(opts, ticker.WithInterval(cfg.RefreshInterval()))
	if fees := newFeeEstimator(cfg, httpClient); fees != nil {
		opts = append(opts, ticker.WithFeeEstimator(fees))
	}
	opts = append(opts, ticker.WithListener(func(s ticker.State) {
		hub.Broadcast(server.MessageMarket, s)
		notify(redraw)
	}))
	poller := ticker.NewPoller(exchange.NewDexScreenerClient(cfg.Endpoints.DexScreener, httpClient), opts...)

	deps := server.Deps{Market: poller, Hub: hub}
	var recs *records
	if cfg.DatabaseDSN != "" {
		pool, err := store.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			logrus.Fatalf("Failed to connect to the database: %v", err)
		}
		defer pool.Close()
		if err := pool.Migrate(ctx); err != nil {
			logrus.Fatalf("Failed to migrate the database: %v", err)
		}

		settingsStore := store.NewSettingsStore(pool)
		walletStore := store.NewWalletStore(pool)
		winnerStore := store.NewWinnerStore(pool)
		connector := wallet.NewConnector(wallet.NewRPCClient(cfg.Endpoints.SolanaRPC, httpClient), walletStore)
		deps.Settings, deps.Wallets, deps.Winners, deps.Connector = settingsStore, walletStore, winnerStore, connector

		if cfg.SettingsFile != "" {
			settings, err := store.LoadSettingsFile(cfg.SettingsFile)
			if err != nil {
				logrus.Fatalf("Failed to load settings: %v", err)
			}
			if err := settingsStore.Update(ctx, settings.Milestones, settings.Stats); err != nil {
				logrus.Fatalf("Failed to publish settings: %v", err)
			}
			logrus.Infof("Published %d milestones from %s", len(settings.Milestones), cfg.SettingsFile)
		}
		if cfg.Connect != "" {
			if _, err := connector.Connect(ctx, cfg.Connect); err != nil {
				logrus.Fatalf("Failed to connect wallet: %v", err)
			}
		}

		recs = &records{settings: settingsStore, wallets: walletStore, winners: winnerStore, connector: connector}
		if err := recs.loadAll(ctx); err != nil {
			logrus.Fatalf("Failed to load records: %v", err)
		}
		changes, err := pool.Listen(ctx, store.TableSettings, store.TableWallets, store.TableWinners)
		if err != nil {
			logrus.Fatalf("Failed to subscribe to record changes: %v", err)
		}
		go func() {
			for change := range changes {
				msgType, data, err := recs.reload(ctx, change.Table)
				if err != nil {
					logrus.WithError(err).Warnf("Failed to reload %s", change.Table)
					continue
				}
				hub.Broadcast(msgType, data)
				notify(redraw)
			}
			if ctx.Err() == nil {
				logrus.Error("Record changes are no longer relayed, the dashboard shows stale records")
			}
		}()
	} else if cfg.Connect != "" || cfg.SettingsFile != "" {
		logrus.Fatal("--connect and --settings-file need --database-dsn")
	}

	var wg sync.WaitGroup
	if cfg.Listen != "" {
		gin.SetMode(gin.ReleaseMode)
		handler := server.NewHandler(deps)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Serve(ctx, cfg.Listen, handler); err != nil {
				logrus.Errorf("Viewer API stopped: %v", err)
				stop()
			}
		}()
	}

	poller.Start(cfg.Token)
	defer poller.Stop()

	dashboard := writer.NewDashboard(cfg.Columns)
	admin := false
	view := func() writer.View {
		v := writer.View{Market: poller.State(), Admin: admin}
		if recs != nil {
			v.Settings, v.Records = recs.snapshot()
		}
		return v
	}

	if cfg.Once {
		waitForMarket(ctx, poller, redraw)
		dashboard.Render(view())
		stop()
		wg.Wait()
		return
	}

	keys, restore, err := writer.ReadKeys(os.Stdin)
	if err != nil {
		logrus.Debugf("Keyboard shortcuts disabled: %v", err)
	} else {
		defer restore()
		dashboard.RawMode()
	}
	// Logs would scroll the dashboard away, show them between redraws
	logrus.SetOutput(dashboard)
	defer logrus.SetOutput(colorable.NewColorableStderr())
	logrus.Infof("Refreshing on every %v, press a for the admin view, x to disconnect the wallet, q to quit", cfg.RefreshInterval())

	dashboard.Render(view())
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case <-redraw:
		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			switch key {
			case writer.KeyAdmin:
				admin = !admin
			case writer.KeyDisconnect:
				if recs != nil && recs.disconnect() {
					logrus.Info("Wallet disconnected")
				}
			case writer.KeyQuit:
				stop()
				wg.Wait()
				return
			}
		}
		dashboard.Render(view())
	}
}

func waitForMarket(ctx context.Context, poller *ticker.Poller, redraw <-chan struct{}) {
	timeout := time.After(onceTimeout)
	for poller.State().Loading {
		select {
		case <-ctx.Done():
			return
		case <-timeout:
			logrus.Warn("Timed out waiting for market data")
			return
		case <-redraw:
		}
	}
}
