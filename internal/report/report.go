// Package report renders the textual reports sent over Telegram. Reports
// always produce text: collaborator failures degrade to explicit "no data"
// messages, never to an error trace.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/EvgeniQwerty/trading-bot/internal/bill"
	"github.com/EvgeniQwerty/trading-bot/internal/logger"
	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

const dateFormat = "02.01.2006 15:04"

// AssetSource is the slice of the venue API the assets report needs.
type AssetSource interface {
	Assets() ([]model.AssetBalance, error)
	LastPrice(coin string) (decimal.Decimal, error)
}

type Builder struct {
	reconciler *bill.Reconciler
	assets     AssetSource
}

func NewBuilder(reconciler *bill.Reconciler, assets AssetSource) *Builder {
	return &Builder{reconciler: reconciler, assets: assets}
}

// TradeStats renders every round-trip in the window plus a section for
// positions still open.
func (b *Builder) TradeStats(lookbackDays int) string {
	closed, open := b.reconciler.Window(lookbackDays)
	if len(closed) == 0 && len(open) == 0 {
		return fmt.Sprintf("No trade data for the last %d days", lookbackDays)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Trade statistics for the last %d days:\n\n", lookbackDays))

	for _, t := range closed {
		sb.WriteString(formatClosedTrade(t))
	}

	if len(open) > 0 {
		sb.WriteString("\n📈 Active trades:\n")
		for _, sym := range sortedKeys(open) {
			sb.WriteString(formatOpenPosition(open[sym]))
		}
	}

	return sb.String()
}

// MonthlyStats renders one aggregate block per calendar month in the window.
func (b *Builder) MonthlyStats(lookbackDays int) string {
	closed, _ := b.reconciler.Window(lookbackDays)
	sortByClosedAt(closed)

	summaries, err := bill.Summarize(closed)
	if err != nil {
		return fmt.Sprintf("No trade data for the last %d days", lookbackDays)
	}

	var sb strings.Builder
	sb.WriteString("Monthly statistics:\n")
	for _, s := range summaries {
		sb.WriteString(formatMonth(s))
	}
	return sb.String()
}

// AssetsReport lists all non-zero holdings with an approximate USDT value,
// USDT itself last.
func (b *Builder) AssetsReport() string {
	assets, err := b.assets.Assets()
	if err != nil {
		logger.Error("Failed to fetch account assets", "error", err)
		return "No account data available"
	}

	var sb, usdt strings.Builder
	sb.WriteString("Coins on the account:\n")

	for _, a := range assets {
		if a.Available.IsZero() {
			continue
		}

		if a.Coin == "USDT" {
			usdt.WriteString(fmt.Sprintf("💲%s USDT💲\n", a.Available.Round(2)))
			continue
		}

		price, err := b.assets.LastPrice(a.Coin)
		if err != nil {
			logger.Warn("Failed to price asset", "coin", a.Coin, "error", err)
			sb.WriteString(fmt.Sprintf("💵%s %s💵\n", a.Available, a.Coin))
			continue
		}
		value := price.Mul(a.Available).Round(2)
		sb.WriteString(fmt.Sprintf("💵%s %s ~= %s USDT💵\n", a.Available, a.Coin, value))
	}

	return sb.String() + usdt.String()
}

// Help lists the available bot commands.
func Help() string {
	return "ℹ️ Available commands:\n" +
		"/assets - account holdings\n" +
		"/ostat - full trade statistics for the last 10 days\n" +
		"/mstat - monthly statistics\n"
}

func formatClosedTrade(t model.ClosedTrade) string {
	status := "➡️"
	if t.Profit.IsPositive() {
		status = "✅"
	} else if t.Profit.IsNegative() {
		status = "❌"
	}

	return fmt.Sprintf(
		"%s %s (%s)\n"+
			"📅 %s - %s\n"+
			"💰 In: %s USDT\n"+
			"💵 Out: %s USDT\n"+
			"📊 Profit: %s USDT (%s%%)\n"+
			"⏱ Duration: %d days\n"+
			"%s\n",
		status, t.Instrument, t.BaseQuantity,
		t.OpenedAt.Format(dateFormat), t.ClosedAt.Format(dateFormat),
		t.CostBasis, t.Proceeds,
		t.Profit, t.ProfitPercent,
		t.DurationDays,
		strings.Repeat("=", 30),
	)
}

func formatOpenPosition(p model.OpenPosition) string {
	return fmt.Sprintf(
		"➡️ %s (%s)\n"+
			"📅 %s -\n"+
			"💰 In: %s USDT\n"+
			"⏱ Duration: in progress\n"+
			"%s\n",
		p.Instrument, p.BaseQuantity,
		p.OpenedAt.Format(dateFormat),
		p.CostBasis,
		strings.Repeat("=", 30),
	)
}

func formatMonth(s model.MonthlySummary) string {
	return fmt.Sprintf(
		"ℹ️ Data for %s %d:\n"+
			"💶 Net profit: %s USDT\n"+
			"💵 Net profit %%: %s%%\n"+
			"🤝 Closed trades: %d\n"+
			"📈 Win rate: %s%%\n"+
			"📉 Max drawdown: %s%%\n"+
			"💰 Avg return per trade: %s%%\n\n",
		time.Month(s.Month), s.Year,
		s.NetProfit,
		s.NetProfitPercent,
		s.ClosedCount(),
		s.WinRatePercent,
		s.WorstLossPercent,
		s.AvgReturnPercent,
	)
}

func sortByClosedAt(trades []model.ClosedTrade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].ClosedAt.Before(trades[j].ClosedAt)
	})
}

func sortedKeys(open map[string]model.OpenPosition) []string {
	keys := make([]string, 0, len(open))
	for k := range open {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
