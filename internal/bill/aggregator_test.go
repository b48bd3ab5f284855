package bill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

func trade(month, year int, profit, percent string) model.ClosedTrade {
	return model.ClosedTrade{
		Instrument:    "BTC",
		ClosedAt:      time.Date(year, time.Month(month), 15, 0, 0, 0, 0, time.UTC),
		Profit:        dec(profit),
		ProfitPercent: dec(percent),
		Month:         month,
		Year:          year,
	}
}

func TestSummarizeEmptyWindow(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSummarizeSingleMonth(t *testing.T) {
	trades := []model.ClosedTrade{
		trade(3, 2026, "9", "8.91"),
		trade(3, 2026, "-2", "-1.80"),
		trade(3, 2026, "5", "4.20"),
	}

	summaries, err := Summarize(trades)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, 3, s.Month)
	assert.Equal(t, 2026, s.Year)
	assert.True(t, s.NetProfit.Equal(dec("12")))
	// Summed per-trade percents: 8.91 - 1.80 + 4.20
	assert.True(t, s.NetProfitPercent.Equal(dec("11.31")), "net percent %s", s.NetProfitPercent)
	assert.Equal(t, 2, s.WinCount)
	assert.Equal(t, 1, s.LossCount)
	assert.Equal(t, 3, s.ClosedCount())
	assert.True(t, s.WinRatePercent.Equal(dec("66.67")), "win rate %s", s.WinRatePercent)
	assert.True(t, s.WorstLossPercent.Equal(dec("-1.80")))
	assert.True(t, s.AvgReturnPercent.Equal(dec("3.77")), "avg return %s", s.AvgReturnPercent)
}

func TestSummarizePercentIsUnweightedSum(t *testing.T) {
	// A small trade at +10% and a large trade at +1% contribute equally
	// by percent, regardless of size.
	trades := []model.ClosedTrade{
		trade(1, 2026, "1", "10"),
		trade(1, 2026, "100", "1"),
	}

	summaries, err := Summarize(trades)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].NetProfitPercent.Equal(dec("11")))
}

func TestSummarizeGroupsByMonthAndYear(t *testing.T) {
	trades := []model.ClosedTrade{
		trade(12, 2025, "5", "2"),
		trade(12, 2025, "3", "1"),
		trade(1, 2026, "-4", "-2.50"),
	}

	summaries, err := Summarize(trades)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	dec25 := summaries[0]
	assert.Equal(t, 12, dec25.Month)
	assert.Equal(t, 2025, dec25.Year)
	assert.True(t, dec25.NetProfit.Equal(dec("8")))
	assert.Equal(t, 2, dec25.WinCount)

	jan26 := summaries[1]
	assert.Equal(t, 1, jan26.Month)
	assert.Equal(t, 2026, jan26.Year)
	assert.Equal(t, 1, jan26.LossCount)
	assert.True(t, jan26.WorstLossPercent.Equal(dec("-2.50")))
	assert.True(t, jan26.WinRatePercent.Equal(dec("0")))
}

func TestSummarizeSameMonthDifferentYears(t *testing.T) {
	trades := []model.ClosedTrade{
		trade(3, 2025, "5", "2"),
		trade(3, 2026, "7", "3"),
	}

	summaries, err := Summarize(trades)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2025, summaries[0].Year)
	assert.Equal(t, 2026, summaries[1].Year)
}

func TestSummarizeWorstLossTracksMostNegative(t *testing.T) {
	trades := []model.ClosedTrade{
		trade(4, 2026, "-1", "-0.50"),
		trade(4, 2026, "-9", "-7.25"),
		trade(4, 2026, "-2", "-1.10"),
	}

	summaries, err := Summarize(trades)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].WorstLossPercent.Equal(dec("-7.25")))
}
