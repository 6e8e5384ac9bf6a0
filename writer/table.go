package writer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	"github.com/mattn/go-colorable"
	"github.com/olekukonko/tablewriter"

	"github.com/snowgift/snow-gift/config"
	"github.com/snowgift/snow-gift/store"
	"github.com/snowgift/snow-gift/ticker"
)

var faint = color.New(color.Faint).SprintFunc()

// View is everything one frame of the dashboard shows.
type View struct {
	Market   ticker.State
	Settings *store.Settings
	// Records is nil when no database is configured.
	Records *Records
	Admin   bool
}

type Records struct {
	Wallets   []store.Wallet
	Winners   []store.Winner
	Connected string
}

type Dashboard struct {
	*uilive.Writer
	columns []string
}

// NewDashboard renders to stdout, redrawing in place on every Render.
func NewDashboard(columns []string) *Dashboard {
	d := &Dashboard{Writer: uilive.New(), columns: columns}
	d.Writer.Out = colorable.NewColorableStdout() // For Windows
	return d
}

// RawMode translates line feeds for a terminal whose output processing was
// turned off by the keyboard reader.
func (d *Dashboard) RawMode() {
	d.Writer.Out = &crlfWriter{out: d.Writer.Out}
}

func (d *Dashboard) Render(view View) {
	var buf bytes.Buffer
	renderView(&buf, d.columns, view)
	d.Write(buf.Bytes())
	d.Flush()
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	formattedHeaders := make([]string, len(headers))
	for i, hdr := range headers {
		formattedHeaders[i] = color.YellowString(hdr)
	}
	table.SetHeader(formattedHeaders)
	table.SetRowLine(true)
	table.SetCenterSeparator(faint("-"))
	table.SetColumnSeparator(faint("|"))
	table.SetRowSeparator(faint("-"))
	return table
}

func renderView(w io.Writer, columns []string, view View) {
	renderMarket(w, columns, view.Market)

	settings := view.Settings
	if settings == nil {
		settings = store.DefaultSettings()
	}
	fmt.Fprintln(w, color.CyanString("Reward milestones"))
	renderMilestones(w, settings.Milestones, view.Admin)
	fmt.Fprintln(w, color.CyanString("Stats"))
	renderStats(w, settings.Stats, view.Market, view.Admin)

	if view.Records == nil {
		return
	}
	fmt.Fprintln(w, color.CyanString("Holder pool"))
	renderWallets(w, view.Records.Wallets, view.Records.Connected, view.Admin)
	fmt.Fprintln(w, color.CyanString("Winners"))
	renderWinners(w, view.Records.Winners)
	if view.Admin {
		fmt.Fprintln(w, faint("admin view, press a to hide"))
	}
}

func renderMarket(w io.Writer, columns []string, state ticker.State) {
	table := newTable(w, columns...)
	var row []string
	for _, hdr := range columns {
		switch strings.ToLower(hdr) {
		case strings.ToLower(config.ColumnToken):
			row = append(row, ShortAddress(state.TokenID, 6, 4))
		case strings.ToLower(config.ColumnMarketCap):
			row = append(row, state.MarketCap)
		case strings.ToLower(config.ColumnFees):
			row = append(row, state.Fees)
		case strings.ToLower(config.ColumnStatus):
			row = append(row, highlightStatus(state))
		case strings.ToLower(config.ColumnUpdated):
			if state.UpdatedAt.IsZero() {
				row = append(row, "")
			} else {
				row = append(row, state.UpdatedAt.Local().Format("15:04:05"))
			}
		default:
			row = append(row, "")
		}
	}
	table.Append(row)
	table.Render()
}

func highlightStatus(state ticker.State) string {
	switch {
	case state.TokenID == "":
		return faint("no token")
	case state.Err != "":
		return color.RedString(state.Err)
	case state.Loading:
		return faint("loading")
	default:
		return color.GreenString("live")
	}
}

func renderMilestones(w io.Writer, milestones []store.Milestone, admin bool) {
	headers := []string{"Market Cap", "Reward"}
	if admin {
		headers = append([]string{"ID"}, append(headers, "Completed")...)
	}
	table := newTable(w, headers...)
	for _, m := range milestones {
		capText, rewardText := m.Cap, m.Reward
		if m.Completed {
			capText, rewardText = color.GreenString(capText), color.GreenString(rewardText)
		}
		row := []string{capText, rewardText}
		if admin {
			row = append([]string{m.ID}, append(row, fmt.Sprint(m.Completed))...)
		}
		table.Append(row)
	}
	table.Render()
}

func renderStats(w io.Writer, stats store.Stats, market ticker.State, admin bool) {
	table := newTable(w, "Stat", "Value")
	table.Append([]string{"Total SOL Distributed", stats.TotalSolDistributed})
	table.Append([]string{"Total Rewards Sent", stats.TotalRewardsSent})
	table.Append([]string{"Current Reward Pool", stats.CurrentRewardPool})
	table.Append([]string{"Unique Winners", stats.TotalUniqueWinners})
	if market.TokenID != "" {
		table.Append([]string{"Market Cap", market.MarketCap})
	} else {
		table.Append([]string{"Market Cap", stats.CurrentMarketCap})
	}
	if admin {
		table.Append([]string{faint("Market Cap (published)"), stats.CurrentMarketCap})
	}
	table.Render()
}

func renderWallets(w io.Writer, wallets []store.Wallet, connected string, admin bool) {
	headers := []string{"Wallet", "SOL Balance"}
	if admin {
		headers = append(headers, "Account")
	}
	table := newTable(w, headers...)
	if len(wallets) == 0 {
		row := make([]string, len(headers))
		row[0] = faint("no wallets connected yet")
		table.Append(row)
	}
	for _, wallet := range wallets {
		address := ShortAddress(wallet.Address, 4, 4)
		if wallet.Address == connected {
			address = color.GreenString(address + " (you)")
		}
		row := []string{address, formatBalance(wallet.SolBalance)}
		if admin {
			row = append(row, AccountURL(wallet.Address))
		}
		table.Append(row)
	}
	table.Render()
}

func renderWinners(w io.Writer, winners []store.Winner) {
	table := newTable(w, "Wallet", "Reward", "Date", "Transaction")
	if len(winners) == 0 {
		table.Append([]string{faint("no winners yet"), "", "", ""})
	}
	for _, winner := range winners {
		table.Append([]string{
			ShortAddress(winner.WalletAddress, 6, 4),
			winner.RewardAmount,
			winner.CreatedAt.Local().Format("2006-01-02"),
			TxURL(winner.TransactionHash),
		})
	}
	table.Render()
}
