package sizing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

type stubBalances struct {
	free decimal.Decimal
	err  error
}

func (s stubBalances) AvailableQuantity(coin string) (decimal.Decimal, error) {
	return s.free, s.err
}

type stubSettings struct {
	settings model.TradingSettings
	err      error
}

func (s stubSettings) Settings() (model.TradingSettings, error) {
	return s.settings, s.err
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSizeFixedDeposit(t *testing.T) {
	sizer := New(
		stubBalances{free: dec("1000")},
		stubSettings{settings: model.TradingSettings{UseFixDeposit: true, FixDeposit: dec("25")}},
		dec("10"),
	)

	assert.True(t, sizer.Size(4).Equal(dec("25")))
}

func TestSizeSplitsFreeBalance(t *testing.T) {
	sizer := New(
		stubBalances{free: dec("100")},
		stubSettings{},
		dec("10"),
	)

	// 100 * 0.95 / 4 = 23.75
	assert.True(t, sizer.Size(4).Equal(dec("23.75")))
}

func TestSizeTreatsZeroSlotsAsOne(t *testing.T) {
	sizer := New(
		stubBalances{free: dec("100")},
		stubSettings{},
		dec("10"),
	)

	assert.True(t, sizer.Size(0).Equal(dec("95")))
}

func TestSizeFloorsAtMinimumNotional(t *testing.T) {
	sizer := New(
		stubBalances{free: dec("4")},
		stubSettings{},
		dec("10"),
	)

	assert.True(t, sizer.Size(3).Equal(MinOrderNotional))
}

func TestSizeFloorsZeroBalance(t *testing.T) {
	sizer := New(
		stubBalances{free: decimal.Zero},
		stubSettings{},
		dec("10"),
	)

	assert.True(t, sizer.Size(2).Equal(MinOrderNotional))
}

func TestSizeFloorsSmallFixedDeposit(t *testing.T) {
	sizer := New(
		stubBalances{free: dec("1000")},
		stubSettings{settings: model.TradingSettings{UseFixDeposit: true, FixDeposit: dec("1")}},
		dec("10"),
	)

	assert.True(t, sizer.Size(1).Equal(MinOrderNotional))
}

func TestSizeFallbackOnSettingsError(t *testing.T) {
	sizer := New(
		stubBalances{free: dec("1000")},
		stubSettings{err: errors.New("missing file")},
		dec("10"),
	)

	assert.True(t, sizer.Size(2).Equal(dec("10")))
}

func TestSizeFallbackOnBalanceError(t *testing.T) {
	sizer := New(
		stubBalances{err: errors.New("venue down")},
		stubSettings{},
		dec("10"),
	)

	assert.True(t, sizer.Size(2).Equal(dec("10")))
}

func TestSizeFallbackIsFloored(t *testing.T) {
	sizer := New(
		stubBalances{err: errors.New("venue down")},
		stubSettings{},
		dec("2"),
	)

	assert.True(t, sizer.Size(2).Equal(MinOrderNotional))
}
