package wallet

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/snowgift/snow-gift/store"
)

type BalanceFetcher interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
}

type WalletSaver interface {
	Upsert(ctx context.Context, address string, solBalance float64) (*store.Wallet, error)
}

// Connector tracks the wallet connected in this session and records every
// connection in the shared wallet list.
type Connector struct {
	balances BalanceFetcher
	wallets  WalletSaver

	mu        sync.Mutex
	connected *store.Wallet
}

func NewConnector(balances BalanceFetcher, wallets WalletSaver) *Connector {
	return &Connector{balances: balances, wallets: wallets}
}

// Connect validates address, reads its balance and upserts it. A failed
// balance lookup is recorded as zero rather than blocking the connection.
func (c *Connector) Connect(ctx context.Context, address string) (*store.Wallet, error) {
	address, err := ValidateAddress(address)
	if err != nil {
		return nil, err
	}

	var balance float64
	lamports, err := c.balances.GetBalance(ctx, address)
	if err != nil {
		logrus.WithError(err).WithField("wallet", address).Warn("Failed to fetch wallet balance, recording 0")
	} else {
		balance = LamportsToSOL(lamports)
	}

	saved, err := c.wallets.Upsert(ctx, address, balance)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Connected wallet %s with %.4f SOL", address, balance)

	c.mu.Lock()
	c.connected = saved
	c.mu.Unlock()
	return saved, nil
}

// Disconnect forgets the session wallet. The shared record stays.
func (c *Connector) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = nil
}

func (c *Connector) Connected() (store.Wallet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected == nil {
		return store.Wallet{}, false
	}
	return *c.connected, true
}
