// Package signal turns free-text trading signals into structured values at
// the boundary, so the state machine never touches raw message text.
package signal

import (
	"sort"
	"strings"
)

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Signal is one parsed inbound instruction. Label is an optional display
// name carried after a " @ " delimiter; it is used in notifications only,
// never for trade decisions.
type Signal struct {
	Instrument string
	Action     Action
	Label      string
}

// Parse scans text for an action keyword and one of the configured
// instrument symbols. It returns nil when either is missing: unmatched
// messages are ignorable by contract, not errors.
func Parse(text string, instruments []string) *Signal {
	lower := strings.ToLower(text)

	var action Action
	switch {
	case strings.Contains(lower, string(ActionBuy)):
		action = ActionBuy
	case strings.Contains(lower, string(ActionSell)):
		action = ActionSell
	default:
		return nil
	}

	// Sorted copy so the match is deterministic when several symbols occur.
	sorted := make([]string, len(instruments))
	copy(sorted, instruments)
	sort.Strings(sorted)

	upper := strings.ToUpper(text)
	instrument := ""
	for _, sym := range sorted {
		if sym != "" && strings.Contains(upper, strings.ToUpper(sym)) {
			instrument = sym
			break
		}
	}
	if instrument == "" {
		return nil
	}

	label := ""
	if parts := strings.Split(text, " @ "); len(parts) > 1 {
		label = strings.TrimSpace(parts[1])
	}

	return &Signal{Instrument: instrument, Action: action, Label: label}
}
