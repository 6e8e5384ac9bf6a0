package main

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/snowgift/snow-gift/server"
	"github.com/snowgift/snow-gift/store"
	"github.com/snowgift/snow-gift/wallet"
	"github.com/snowgift/snow-gift/writer"
)

// records mirrors the shared tables for the dashboard and relays their
// changes to web viewers.
type records struct {
	settings server.SettingsRepo
	wallets  server.WalletRepo
	winners  server.WinnerRepo
	// Wallet of this session, marked in the wallet list. Optional.
	connector *wallet.Connector

	mu        sync.Mutex
	published *store.Settings
	current   writer.Records
}

func (r *records) loadAll(ctx context.Context) error {
	for _, table := range []string{store.TableSettings, store.TableWallets, store.TableWinners} {
		if _, _, err := r.reload(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

// reload refreshes one table and returns the websocket message type and
// payload describing its new content.
func (r *records) reload(ctx context.Context, table string) (string, interface{}, error) {
	switch table {
	case store.TableSettings:
		settings, err := r.settings.Get(ctx)
		if err != nil {
			return "", nil, err
		}
		r.mu.Lock()
		r.published = settings
		r.mu.Unlock()
		return server.MessageSettings, settings, nil
	case store.TableWallets:
		wallets, err := r.wallets.List(ctx)
		if err != nil {
			return "", nil, err
		}
		r.mu.Lock()
		r.current.Wallets = wallets
		r.mu.Unlock()
		return server.MessageWallets, wallets, nil
	case store.TableWinners:
		winners, err := r.winners.List(ctx)
		if err != nil {
			return "", nil, err
		}
		r.mu.Lock()
		r.current.Winners = winners
		r.mu.Unlock()
		return server.MessageWinners, winners, nil
	default:
		return "", nil, errors.Errorf("unknown table %q", table)
	}
}

func (r *records) snapshot() (*store.Settings, *writer.Records) {
	var connected string
	if r.connector != nil {
		if w, ok := r.connector.Connected(); ok {
			connected = w.Address
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.current
	current.Connected = connected
	return r.published, &current
}

// disconnect forgets the session wallet. It reports whether one was connected.
func (r *records) disconnect() bool {
	if r.connector == nil {
		return false
	}
	_, ok := r.connector.Connected()
	r.connector.Disconnect()
	return ok
}
