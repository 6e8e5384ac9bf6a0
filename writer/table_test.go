package writer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/snowgift/snow-gift/config"
	"github.com/snowgift/snow-gift/store"
	"github.com/snowgift/snow-gift/ticker"
)

var allColumns = []string{config.ColumnToken, config.ColumnMarketCap, config.ColumnFees, config.ColumnStatus, config.ColumnUpdated}

func render(view View, columns ...string) string {
	color.NoColor = true
	if len(columns) == 0 {
		columns = allColumns
	}
	var buf bytes.Buffer
	renderView(&buf, columns, view)
	return buf.String()
}

func TestRenderView_Market(t *testing.T) {
	view := View{Market: ticker.State{
		TokenID:   "So11111111111111111111111111111111111111112",
		MarketCap: "$2.34M",
		Fees:      "156.0000 SOL",
		UpdatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local),
	}}
	out := render(view)
	for _, want := range []string{"So1111...1112", "$2.34M", "156.0000 SOL", "live", "03:04:05", "Reward milestones", "$5M", "10 SOL"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered dashboard lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Holder pool") {
		t.Fatalf("records are not shown without a database:\n%s", out)
	}
}

func TestRenderView_Status(t *testing.T) {
	tests := []struct {
		name  string
		state ticker.State
		want  string
	}{
		{"blank", ticker.State{MarketCap: "$0"}, "no token"},
		{"loading", ticker.State{TokenID: "Mint", MarketCap: "$0", Loading: true}, "loading"},
		{"error", ticker.State{TokenID: "Mint", MarketCap: "$1.00K", Err: "HTTP 502 Bad Gateway"}, "HTTP 502 Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(View{Market: tt.state}, config.ColumnStatus)
			if !strings.Contains(out, tt.want) {
				t.Fatalf("expected status %q in:\n%s", tt.want, out)
			}
		})
	}
}

func TestRenderView_ColumnsFollowConfig(t *testing.T) {
	out := render(View{Market: ticker.State{TokenID: "Mint", MarketCap: "$9.00K", Fees: "1.0000 SOL"}}, "market cap")
	if !strings.Contains(out, "$9.00K") {
		t.Fatalf("market cap column missing:\n%s", out)
	}
	if strings.Contains(out, "1.0000 SOL") {
		t.Fatalf("fees column should be hidden:\n%s", out)
	}
}

func TestRenderView_RecordsAndAdmin(t *testing.T) {
	settings := store.DefaultSettings()
	settings.Milestones[0].Completed = true
	settings.Stats.CurrentMarketCap = "$40.00K"
	view := View{
		Market:   ticker.State{MarketCap: "$0"},
		Settings: settings,
		Records: &Records{
			Wallets: []store.Wallet{
				{Address: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", SolBalance: 1.23456},
				{Address: "DRpbCBMxVnDK7maPM5tGv6MvB3v1sRMC86PZ8okm21hy", SolBalance: 0},
			},
			Winners: []store.Winner{{
				WalletAddress:   "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
				TransactionHash: "5VfYmGC5bKx",
				RewardAmount:    "0.5 SOL",
				CreatedAt:       time.Date(2024, 5, 6, 12, 0, 0, 0, time.Local),
			}},
			Connected: "DRpbCBMxVnDK7maPM5tGv6MvB3v1sRMC86PZ8okm21hy",
		},
	}

	out := render(view)
	for _, want := range []string{"7xKX...gAsU", "1.2346 SOL", "DRpb...21hy (you)", "0.0000 SOL",
		"7xKXtg...gAsU", "https://solscan.io/tx/5VfYmGC5bKx", "2024-05-06", "$40.00K"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered dashboard lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Completed") {
		t.Fatalf("completion flags are admin only:\n%s", out)
	}

	view.Admin = true
	out = render(view)
	for _, want := range []string{"Completed", "true", "Market Cap (published)", "admin view",
		"https://solscan.io/account/DRpbCBMxVnDK7maPM5tGv6MvB3v1sRMC86PZ8okm21hy"} {
		if !strings.Contains(out, want) {
			t.Fatalf("admin view lacks %q:\n%s", want, out)
		}
	}
}

func TestRenderView_EmptyRecords(t *testing.T) {
	out := render(View{Records: &Records{}})
	if !strings.Contains(out, "no wallets connected yet") || !strings.Contains(out, "no winners yet") {
		t.Fatalf("empty records should say so:\n%s", out)
	}
}
