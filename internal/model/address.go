package model

import (
	"strings"

	"github.com/google/uuid"
)

type Address struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Street    string
	Number    string
	City      string
	ZipCode   string
}

// Label derives the human-readable form shown in the portal. It is display
// only; every join in the pipeline uses the address id. An empty label means
// the address row could not be resolved.
func (a Address) Label() string {
	parts := make([]string, 0, 3)
	street := strings.TrimSpace(a.Street)
	number := strings.TrimSpace(a.Number)
	city := strings.TrimSpace(a.City)

	if street != "" {
		if number != "" {
			parts = append(parts, street+", "+number)
		} else {
			parts = append(parts, street)
		}
	}
	if city != "" {
		parts = append(parts, city)
	}
	return strings.Join(parts, " - ")
}
