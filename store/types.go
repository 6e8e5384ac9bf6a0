package store

import (
	"strings"
	"time"
)

type Milestone struct {
	ID        string `json:"id" mapstructure:"id"`
	Cap       string `json:"cap" mapstructure:"cap"`
	Reward    string `json:"reward" mapstructure:"reward"`
	Completed bool   `json:"completed" mapstructure:"completed"`
}

type Stats struct {
	TotalSolDistributed string `json:"totalSolDistributed" mapstructure:"totalSolDistributed"`
	TotalRewardsSent    string `json:"totalRewardsSent" mapstructure:"totalRewardsSent"`
	CurrentRewardPool   string `json:"currentRewardPool" mapstructure:"currentRewardPool"`
	TotalUniqueWinners  string `json:"totalUniqueWinners" mapstructure:"totalUniqueWinners"`
	CurrentMarketCap    string `json:"currentMarketCap" mapstructure:"currentMarketCap"`
}

type Settings struct {
	Milestones []Milestone `json:"milestones"`
	Stats      Stats       `json:"stats"`
}

type Wallet struct {
	ID         string    `json:"id"`
	Address    string    `json:"wallet_address"`
	SolBalance float64   `json:"sol_balance"`
	CreatedAt  time.Time `json:"created_at"`
}

type Winner struct {
	ID              string    `json:"id"`
	WalletAddress   string    `json:"wallet_address"`
	TransactionHash string    `json:"transaction_hash"`
	RewardAmount    string    `json:"reward_amount"`
	CreatedAt       time.Time `json:"created_at"`
}

func DefaultMilestones() []Milestone {
	return []Milestone{
		{ID: "1", Cap: "$50k", Reward: "0.5 SOL"},
		{ID: "2", Cap: "$150k", Reward: "1 SOL"},
		{ID: "3", Cap: "$300k", Reward: "2 SOL"},
		{ID: "4", Cap: "$500k", Reward: "3 SOL"},
		{ID: "5", Cap: "$1M", Reward: "5 SOL"},
		{ID: "6", Cap: "$5M", Reward: "10 SOL"},
	}
}

func DefaultStats() Stats {
	return Stats{
		TotalSolDistributed: "0",
		TotalRewardsSent:    "0",
		CurrentRewardPool:   "0 SOL",
		TotalUniqueWinners:  "0",
		CurrentMarketCap:    "$0",
	}
}

func DefaultSettings() *Settings {
	return &Settings{Milestones: DefaultMilestones(), Stats: DefaultStats()}
}

// FilterWallets keeps wallets whose address contains query, ignoring case.
func FilterWallets(wallets []Wallet, query string) []Wallet {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return wallets
	}
	filtered := make([]Wallet, 0, len(wallets))
	for _, w := range wallets {
		if strings.Contains(strings.ToLower(w.Address), query) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// FilterWinners keeps winners whose wallet address or transaction hash
// contains query, ignoring case.
func FilterWinners(winners []Winner, query string) []Winner {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return winners
	}
	filtered := make([]Winner, 0, len(winners))
	for _, w := range winners {
		if strings.Contains(strings.ToLower(w.WalletAddress), query) ||
			strings.Contains(strings.ToLower(w.TransactionHash), query) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}
