package dto

import (
	"time"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
)

// AuditEntryResponse defines the data returned for one audit log entry.
type AuditEntryResponse struct {
	EntryID    string         `json:"entryID"`
	ActorID    string         `json:"actorID"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityID"`
	At         time.Time      `json:"at"`
	Payload    map[string]any `json:"payload"`
	PrevHash   string         `json:"prevHash,omitempty"`
	Hash       string         `json:"hash"`
}

// VerifyChainResponse reports the outcome of an audit chain walk.
type VerifyChainResponse struct {
	Valid  bool   `json:"valid"`
	Detail string `json:"detail,omitempty"`
}

// ToAuditEntryResponses converts audit entries to DTOs.
func ToAuditEntryResponses(entries []domain.AuditLogEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryResponse{
			EntryID:    e.EntryID,
			ActorID:    e.ActorID,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			At:         e.At,
			Payload:    e.Payload,
			PrevHash:   e.PrevHash,
			Hash:       e.Hash,
		}
	}
	return out
}
