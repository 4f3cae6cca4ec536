package dto

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntryResponse is one change in an appointment's history.
// OldValue is null for the entry that created the record.
type AuditEntryResponse struct {
	ID        int64      `json:"id"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Action    string     `json:"action"`
	OldValue  any        `json:"old_value"`
	NewValue  any        `json:"new_value"`
	CreatedAt time.Time  `json:"created_at"`
}
