package store

import (
	"context"

	"github.com/pkg/errors"
)

type WinnerStore struct {
	pool *Pool
}

func NewWinnerStore(pool *Pool) *WinnerStore {
	return &WinnerStore{pool: pool}
}

// Insert records a paid reward. A transaction hash can only be recorded once.
func (s *WinnerStore) Insert(ctx context.Context, walletAddress, txHash, rewardAmount string) (*Winner, error) {
	query := `
		INSERT INTO winners (wallet_address, transaction_hash, reward_amount)
		VALUES ($1, $2, $3)
		RETURNING id::text, wallet_address, transaction_hash, reward_amount, created_at
	`

	var w Winner
	err := s.pool.QueryRow(ctx, query, walletAddress, txHash, rewardAmount).
		Scan(&w.ID, &w.WalletAddress, &w.TransactionHash, &w.RewardAmount, &w.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, errors.Wrapf(ErrDuplicateKey, "winner with transaction %s", txHash)
		}
		return nil, errors.Wrap(err, "insert winner")
	}
	return &w, nil
}

// List returns every winner, newest first.
func (s *WinnerStore) List(ctx context.Context) ([]Winner, error) {
	query := `
		SELECT id::text, wallet_address, transaction_hash, reward_amount, created_at
		FROM winners
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list winners")
	}
	defer rows.Close()

	winners := make([]Winner, 0)
	for rows.Next() {
		var w Winner
		if err := rows.Scan(&w.ID, &w.WalletAddress, &w.TransactionHash, &w.RewardAmount, &w.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan winner")
		}
		winners = append(winners, w)
	}
	return winners, errors.Wrap(rows.Err(), "list winners")
}
