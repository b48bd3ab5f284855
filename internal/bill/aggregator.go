package bill

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

// ErrNoData is returned when a window contains no closed trades. Callers
// render it as an explicit "no data" message instead of an empty report.
var ErrNoData = errors.New("no closed trades in window")

var hundred = decimal.NewFromInt(100)

// Summarize groups closed trades into monthly summaries. Input must already
// be ordered by ClosedAt ascending: grouping closes a block whenever the
// (month, year) key changes, it never sorts.
func Summarize(trades []model.ClosedTrade) ([]model.MonthlySummary, error) {
	if len(trades) == 0 {
		return nil, ErrNoData
	}

	var summaries []model.MonthlySummary
	current := newSummary(trades[0].Month, trades[0].Year)

	for _, t := range trades {
		if t.Month != current.Month || t.Year != current.Year {
			summaries = append(summaries, finalize(current))
			current = newSummary(t.Month, t.Year)
		}
		accumulate(&current, t)
	}
	summaries = append(summaries, finalize(current))

	return summaries, nil
}

func newSummary(month, year int) model.MonthlySummary {
	return model.MonthlySummary{Month: month, Year: year}
}

func accumulate(s *model.MonthlySummary, t model.ClosedTrade) {
	s.NetProfit = s.NetProfit.Add(t.Profit)
	// Plain sum of per-trade percents, not a weighted average.
	s.NetProfitPercent = s.NetProfitPercent.Add(t.ProfitPercent)

	switch {
	case t.ProfitPercent.IsPositive():
		s.WinCount++
	case t.ProfitPercent.IsNegative():
		s.LossCount++
		if t.ProfitPercent.LessThan(s.WorstLossPercent) {
			s.WorstLossPercent = t.ProfitPercent
		}
	}
}

func finalize(s model.MonthlySummary) model.MonthlySummary {
	s.NetProfit = s.NetProfit.Round(2)
	s.NetProfitPercent = s.NetProfitPercent.Round(2)

	total := s.ClosedCount()
	if total > 0 {
		s.WinRatePercent = decimal.NewFromInt(int64(s.WinCount)).Mul(hundred).
			Div(decimal.NewFromInt(int64(total))).Round(2)
		s.AvgReturnPercent = s.NetProfitPercent.
			Div(decimal.NewFromInt(int64(total))).Round(2)
	}
	return s
}
