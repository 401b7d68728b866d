package model

import (
	"time"

	"github.com/google/uuid"
)

type CollectionStatus string

const (
	CollectionStatusRequested CollectionStatus = "requested"
	CollectionStatusApproved  CollectionStatus = "approved"
)

// VehicleCollection is a priced collection event for one (address, date)
// group of a client's vehicles. Created when an admin sets a fee; moves to
// approved when the client accepts.
type VehicleCollection struct {
	ID                uuid.UUID
	ClientID          uuid.UUID
	PickupAddressID   uuid.UUID
	CollectionAddress string
	FeePerVehicle     *float64
	CollectionDate    *time.Time
	Status            CollectionStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CollectionHistoryRecord is the immutable record written when a collection
// cycle completes. Rows are append-only and never updated.
type CollectionHistoryRecord struct {
	ID                uuid.UUID
	ClientID          uuid.UUID
	PickupAddressID   *uuid.UUID
	CollectionAddress string
	FeePerVehicle     *float64
	CollectionDate    *time.Time
	VehicleCount      int64
	Status            string
	CreatedAt         time.Time
}
