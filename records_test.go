package main

import (
	"context"
	"crypto/ed25519"
	"errors"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowgift/snow-gift/server"
	"github.com/snowgift/snow-gift/store"
	"github.com/snowgift/snow-gift/wallet"
)

type stubSettings struct {
	settings *store.Settings
	err      error
}

func (s *stubSettings) Get(context.Context) (*store.Settings, error) {
	return s.settings, s.err
}

func (s *stubSettings) Update(context.Context, []store.Milestone, store.Stats) error {
	return nil
}

type stubWallets []store.Wallet

func (s stubWallets) List(context.Context) ([]store.Wallet, error) {
	return s, nil
}

type stubWinners []store.Winner

func (s stubWinners) List(context.Context) ([]store.Winner, error) {
	return s, nil
}

type stubBalances uint64

func (s stubBalances) GetBalance(context.Context, string) (uint64, error) {
	return uint64(s), nil
}

type stubSaver struct{}

func (stubSaver) Upsert(_ context.Context, address string, solBalance float64) (*store.Wallet, error) {
	return &store.Wallet{ID: "id", Address: address, SolBalance: solBalance, CreatedAt: time.Now()}, nil
}

func TestRecords_Reload(t *testing.T) {
	ctx := context.Background()
	settings := &stubSettings{settings: store.DefaultSettings()}
	recs := &records{
		settings: settings,
		wallets:  stubWallets{{Address: "WalletA"}, {Address: "WalletB"}},
		winners:  stubWinners{{WalletAddress: "WalletA", TransactionHash: "Tx"}},
	}
	require.NoError(t, recs.loadAll(ctx))

	published, current := recs.snapshot()
	assert.Equal(t, store.DefaultSettings(), published)
	assert.Len(t, current.Wallets, 2)
	assert.Len(t, current.Winners, 1)
	assert.Empty(t, current.Connected)

	msgType, data, err := recs.reload(ctx, store.TableWinners)
	require.NoError(t, err)
	assert.Equal(t, server.MessageWinners, msgType)
	assert.Len(t, data, 1)

	settings.err = errors.New("db down")
	_, _, err = recs.reload(ctx, store.TableSettings)
	assert.Error(t, err)
	published, _ = recs.snapshot()
	assert.NotNil(t, published, "a failed reload keeps the last settings")

	_, _, err = recs.reload(ctx, "unknown")
	assert.Error(t, err)
}

func TestRecords_DisconnectClearsMarker(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	address := base58.Encode(pub)

	connector := wallet.NewConnector(stubBalances(1_000_000_000), stubSaver{})
	recs := &records{connector: connector}
	assert.False(t, recs.disconnect(), "nothing connected yet")

	_, err = connector.Connect(context.Background(), address)
	require.NoError(t, err)
	_, current := recs.snapshot()
	assert.Equal(t, address, current.Connected)

	assert.True(t, recs.disconnect())
	_, current = recs.snapshot()
	assert.Empty(t, current.Connected)
	assert.False(t, recs.disconnect())
}

func TestRecords_WithoutConnector(t *testing.T) {
	recs := &records{}
	assert.False(t, recs.disconnect())
	_, current := recs.snapshot()
	assert.Empty(t, current.Connected)
}
