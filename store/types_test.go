package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterWallets(t *testing.T) {
	wallets := []Wallet{{Address: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"}, {Address: "DRpbCBMxVnDK7maPM5tGv6MvB3v1sRMC86PZ8okm21hy"}}

	assert.Equal(t, wallets, FilterWallets(wallets, ""))
	assert.Equal(t, wallets, FilterWallets(wallets, "  "))
	assert.Equal(t, wallets[:1], FilterWallets(wallets, "7XKX"))
	assert.Equal(t, wallets[1:], FilterWallets(wallets, "okm21"))
	assert.Empty(t, FilterWallets(wallets, "nothing"))
}

func TestFilterWinners(t *testing.T) {
	winners := []Winner{
		{WalletAddress: "WalletOne", TransactionHash: "5abcHash"},
		{WalletAddress: "WalletTwo", TransactionHash: "9xyzHash"},
	}

	assert.Equal(t, winners, FilterWinners(winners, ""))
	assert.Equal(t, winners[:1], FilterWinners(winners, "walletone"))
	assert.Equal(t, winners[1:], FilterWinners(winners, "XYZ"))
	assert.Equal(t, winners, FilterWinners(winners, "hash"))
}

func TestLoadSettingsFile(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		content := `
milestones:
  - id: "1"
    cap: "$10k"
    reward: "0.1 SOL"
    completed: true
stats:
  totalSolDistributed: "0.1"
  totalRewardsSent: "1"
  currentRewardPool: "2 SOL"
  totalUniqueWinners: "1"
  currentMarketCap: "$12.00K"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		settings, err := LoadSettingsFile(path)
		require.NoError(t, err)
		assert.Equal(t, []Milestone{{ID: "1", Cap: "$10k", Reward: "0.1 SOL", Completed: true}}, settings.Milestones)
		assert.Equal(t, "2 SOL", settings.Stats.CurrentRewardPool)
		assert.Equal(t, "$12.00K", settings.Stats.CurrentMarketCap)
	})

	t.Run("missing sections keep defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"stats": {"totalRewardsSent": "3"}}`), 0o600))

		settings, err := LoadSettingsFile(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultMilestones(), settings.Milestones)
		assert.Equal(t, "3", settings.Stats.TotalRewardsSent)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSettingsFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
