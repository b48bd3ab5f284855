package repository

import (
	"fmt"

	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

// SettingsRepository reads the sizing policy document.
type SettingsRepository struct {
	storage *Storage
	path    string
}

func NewSettingsRepository(storage *Storage, path string) *SettingsRepository {
	return &SettingsRepository{storage: storage, path: path}
}

// Settings returns the persisted sizing policy. A missing document is an
// error: the caller falls back to its configured default amount instead of
// silently trading on a zero-valued policy.
func (r *SettingsRepository) Settings() (model.TradingSettings, error) {
	if !r.storage.Exists(r.path) {
		return model.TradingSettings{}, fmt.Errorf("settings document %s not found", r.path)
	}

	var settings model.TradingSettings
	if err := r.storage.Read(r.path, &settings); err != nil {
		return model.TradingSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}
