package domain

import (
	"fmt"
	"strings"
)

// EntryStatus is the one-way lifecycle of a ledger entry.
type EntryStatus string

const (
	EntryPending EntryStatus = "PENDING"
	EntryPosted  EntryStatus = "POSTED"
)

// ParseEntryStatus accepts the canonical values and the legacy N/S flags, case-insensitively.
func ParseEntryStatus(raw string) (EntryStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(EntryPending), "N":
		return EntryPending, nil
	case string(EntryPosted), "S":
		return EntryPosted, nil
	default:
		return "", fmt.Errorf("invalid status %q", raw)
	}
}

// IsValid reports whether s is one of the known statuses.
func (s EntryStatus) IsValid() bool {
	return s == EntryPending || s == EntryPosted
}

// CanTransitionTo reports whether moving from s to target is allowed.
// Posted never returns to Pending.
func (s EntryStatus) CanTransitionTo(target EntryStatus) bool {
	if !target.IsValid() {
		return false
	}
	return !(s == EntryPosted && target == EntryPending)
}

// Label is the human-readable label used in exports.
func (s EntryStatus) Label() string {
	switch s {
	case EntryPosted:
		return "Lançado"
	case EntryPending:
		return "Pendente"
	default:
		return string(s)
	}
}
