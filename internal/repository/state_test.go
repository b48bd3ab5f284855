package repository

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

func TestStateLoadMissingFileYieldsEmptyMap(t *testing.T) {
	repo := NewStateRepository(NewStorage(), filepath.Join(t.TempDir(), "coins.json"))

	states, err := repo.Load()
	require.NoError(t, err)
	assert.NotNil(t, states)
	assert.Empty(t, states)
}

func TestStateSaveLoadRoundTrip(t *testing.T) {
	repo := NewStateRepository(NewStorage(), filepath.Join(t.TempDir(), "coins.json"))

	in := map[string]model.InstrumentState{
		"BTC": {InTrade: true, Decimals: 4},
		"ETH": {InTrade: false, Decimals: 2},
	}
	require.NoError(t, repo.Save(in))

	out, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStateInstrumentsSorted(t *testing.T) {
	repo := NewStateRepository(NewStorage(), filepath.Join(t.TempDir(), "coins.json"))

	require.NoError(t, repo.Save(map[string]model.InstrumentState{
		"SOL": {}, "BTC": {}, "ETH": {},
	}))

	symbols, err := repo.Instruments()
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "ETH", "SOL"}, symbols)
}

func TestSettingsMissingFileIsAnError(t *testing.T) {
	repo := NewSettingsRepository(NewStorage(), filepath.Join(t.TempDir(), "settings.json"))

	_, err := repo.Settings()
	assert.Error(t, err)
}

func TestSettingsRoundTrip(t *testing.T) {
	storage := NewStorage()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, storage.Write(path, model.TradingSettings{
		UseFixDeposit: true,
		FixDeposit:    decimal.RequireFromString("25"),
	}))

	repo := NewSettingsRepository(storage, path)
	settings, err := repo.Settings()
	require.NoError(t, err)
	assert.True(t, settings.UseFixDeposit)
	assert.True(t, settings.FixDeposit.Equal(decimal.RequireFromString("25")))
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	storage := NewStorage()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	require.NoError(t, storage.Write(path, map[string]string{"a": "b"}))

	assert.True(t, storage.Exists(path))
	assert.False(t, storage.Exists(path+".tmp"))
}
