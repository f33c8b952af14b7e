package domain

import "time"

// Audit actions recorded by the core.
const (
	AuditActionPost = "POST_DRAFT"
)

// AuditLogEntry is one row of the append-only, hash-linked audit log.
// Hash = digest(PrevHash || canonical(Payload)); the chain is linear
// across the whole system, not per book.
type AuditLogEntry struct {
	EntryID    string         `json:"entryID"`
	ActorID    string         `json:"actorID"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityID"`
	At         time.Time      `json:"at"`
	Payload    map[string]any `json:"payload"`
	PrevHash   string         `json:"prevHash"` // empty for the genesis entry
	Hash       string         `json:"hash"`     // globally unique
}
