package dto

import "github.com/google/uuid"

type OpenSlotsResponse struct {
	ProviderID          uuid.UUID `json:"provider_id"`
	Date                string    `json:"date"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	Slots               []string  `json:"slots"`
	Total               int       `json:"total"`
}
