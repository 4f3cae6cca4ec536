package converter

import (
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
)

const (
	auditOldValueKey = "old_value"
	auditNewValueKey = "new_value"
)

// AuditLogToEntry flattens the old/new values kept in the audit metadata
func AuditLogToEntry(log *entity.AuditLog) dto.AuditEntryResponse {
	entry := dto.AuditEntryResponse{
		ID:        log.ID,
		ActorID:   log.ActorID,
		Action:    log.Action,
		CreatedAt: log.CreatedAt,
	}
	if log.Metadata != nil {
		entry.OldValue = log.Metadata[auditOldValueKey]
		entry.NewValue = log.Metadata[auditNewValueKey]
	}
	return entry
}

func AuditLogsToEntries(logs []entity.AuditLog) []dto.AuditEntryResponse {
	entries := make([]dto.AuditEntryResponse, len(logs))
	for i := range logs {
		entries[i] = AuditLogToEntry(&logs[i])
	}
	return entries
}
