package store

import (
	"context"

	"github.com/pkg/errors"
)

type WalletStore struct {
	pool *Pool
}

func NewWalletStore(pool *Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Upsert records a connected wallet. Reconnecting the same address refreshes
// its balance and keeps the original id and created_at.
func (s *WalletStore) Upsert(ctx context.Context, address string, solBalance float64) (*Wallet, error) {
	query := `
		INSERT INTO wallets (wallet_address, sol_balance)
		VALUES ($1, $2)
		ON CONFLICT (wallet_address) DO UPDATE
		SET sol_balance = EXCLUDED.sol_balance
		RETURNING id::text, wallet_address, sol_balance, created_at
	`

	var w Wallet
	err := s.pool.QueryRow(ctx, query, address, solBalance).Scan(&w.ID, &w.Address, &w.SolBalance, &w.CreatedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "upsert wallet %s", address)
	}
	return &w, nil
}

// List returns every wallet, newest first.
func (s *WalletStore) List(ctx context.Context) ([]Wallet, error) {
	query := `
		SELECT id::text, wallet_address, sol_balance, created_at
		FROM wallets
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list wallets")
	}
	defer rows.Close()

	wallets := make([]Wallet, 0)
	for rows.Next() {
		var w Wallet
		if err := rows.Scan(&w.ID, &w.Address, &w.SolBalance, &w.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan wallet")
		}
		wallets = append(wallets, w)
	}
	return wallets, errors.Wrap(rows.Err(), "list wallets")
}
