package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClosedTrade is a matched buy+sell round-trip with realized profit.
// All monetary fields are rounded to 2 decimals when the trade is built,
// not at display time.
type ClosedTrade struct {
	Instrument    string          `json:"instrument"`
	BaseQuantity  decimal.Decimal `json:"baseQuantity"`
	OpenedAt      time.Time       `json:"openedAt"`
	ClosedAt      time.Time       `json:"closedAt"`
	CostBasis     decimal.Decimal `json:"costBasis"` // buy quote + buy fee
	Proceeds      decimal.Decimal `json:"proceeds"`  // sell quote
	Profit        decimal.Decimal `json:"profit"`
	ProfitPercent decimal.Decimal `json:"profitPercent"`
	DurationDays  int             `json:"durationDays"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
}

// OpenPosition is a buy with no matching sell observed yet. It carries only
// the cost side; proceeds and profit do not exist until the position closes,
// so they are not fields here.
type OpenPosition struct {
	Instrument   string          `json:"instrument"`
	BaseQuantity decimal.Decimal `json:"baseQuantity"`
	OpenedAt     time.Time       `json:"openedAt"`
	CostBasis    decimal.Decimal `json:"costBasis"`
}

// MonthlySummary aggregates all closed trades sharing (Month, Year).
//
// NetProfitPercent is the plain sum of the per-trade profit percents, not a
// weighted average.
type MonthlySummary struct {
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	NetProfitPercent decimal.Decimal `json:"netProfitPercent"`
	WinCount         int             `json:"winCount"`
	LossCount        int             `json:"lossCount"`
	WorstLossPercent decimal.Decimal `json:"worstLossPercent"`
	WinRatePercent   decimal.Decimal `json:"winRatePercent"`
	AvgReturnPercent decimal.Decimal `json:"avgReturnPercent"`
}

// ClosedCount is the number of trades aggregated into the summary.
func (m MonthlySummary) ClosedCount() int {
	return m.WinCount + m.LossCount
}
