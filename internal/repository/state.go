package repository

import (
	"fmt"
	"sort"

	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

// StateRepository owns the instrument → state document. The InTrade flag in
// this document is the sole durable record of whether capital is committed
// to an instrument, so every mutation must be written back before anything
// user-visible happens.
type StateRepository struct {
	storage *Storage
	path    string
}

func NewStateRepository(storage *Storage, path string) *StateRepository {
	return &StateRepository{storage: storage, path: path}
}

// Load reads the full instrument-state map. A missing file yields an empty
// map: no configured instruments, nothing to trade.
func (r *StateRepository) Load() (map[string]model.InstrumentState, error) {
	states := make(map[string]model.InstrumentState)
	if err := r.storage.Read(r.path, &states); err != nil {
		return nil, fmt.Errorf("failed to load instrument state: %w", err)
	}
	return states, nil
}

func (r *StateRepository) Save(states map[string]model.InstrumentState) error {
	if err := r.storage.Write(r.path, states); err != nil {
		return fmt.Errorf("failed to save instrument state: %w", err)
	}
	return nil
}

// Instruments returns the configured symbols in sorted order.
func (r *StateRepository) Instruments() ([]string, error) {
	states, err := r.Load()
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(states))
	for sym := range states {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols, nil
}
