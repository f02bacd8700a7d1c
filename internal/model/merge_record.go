package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/anvilmerge/internal/game/enchant"
)

// MergeRecord is one audited anvil merge.
type MergeRecord struct {
	ID           uuid.UUID
	Player       string
	Session      string
	Fingerprint  string // hex blake2b of the merge request
	Merged       enchant.Profile
	TotalCost    int
	Penalty      int
	HasConflicts bool
	Allowed      bool
	CreatedAt    time.Time
}

// NewMergeRecord stamps a fresh ID and creation time.
func NewMergeRecord(player, session, fingerprint string) MergeRecord {
	return MergeRecord{
		ID:          uuid.New(),
		Player:      player,
		Session:     session,
		Fingerprint: fingerprint,
		CreatedAt:   time.Now().UTC(),
	}
}
