package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/fleet-collections/internal/model"
	"github.com/nurpe/fleet-collections/internal/repository"
)

// Store interfaces abstract the repositories so the pipeline can be exercised
// against in-memory fakes.

type AddressStore interface {
	ListByIDs(ctx context.Context, clientID uuid.UUID, ids []uuid.UUID) ([]model.Address, error)
	GetOwned(ctx context.Context, profileID, id uuid.UUID) (*model.Address, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]model.Address, error)
	Create(ctx context.Context, address model.Address) (*model.Address, error)
}

type VehicleStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	ListWithPickupByStatus(ctx context.Context, clientID uuid.UUID, statuses []model.VehicleStatus) ([]model.Vehicle, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Vehicle, error)
	CountByStatus(ctx context.Context, clientID uuid.UUID) ([]repository.StatusCount, error)
	Create(ctx context.Context, vehicle model.Vehicle) (*model.Vehicle, error)
	UpdatePickup(ctx context.Context, vehicleID, addressID uuid.UUID, arrivalDate *time.Time, status model.VehicleStatus) error
	UpdateStatusForGroup(ctx context.Context, clientID, addressID uuid.UUID, date *time.Time, fromStatuses []model.VehicleStatus, next model.VehicleStatus) (int64, error)
	UpdateDateForGroup(ctx context.Context, clientID, addressID uuid.UUID, oldDate *time.Time, newDate time.Time, fromStatuses []model.VehicleStatus, next model.VehicleStatus) (int64, error)
}

type CollectionStore interface {
	ListFeeRows(ctx context.Context, clientID uuid.UUID) ([]model.VehicleCollection, error)
	ListApproved(ctx context.Context, clientID uuid.UUID) ([]model.VehicleCollection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.VehicleCollection, error)
	Create(ctx context.Context, collection model.VehicleCollection) (*model.VehicleCollection, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CollectionStatus) error
	UpdateDate(ctx context.Context, id uuid.UUID, date time.Time) error
	ListHistory(ctx context.Context, clientID uuid.UUID) ([]model.CollectionHistoryRecord, error)
	CompleteCollection(ctx context.Context, collection model.VehicleCollection, vehicleCount int64, collectedStatus model.VehicleStatus, fromStatuses []model.VehicleStatus) (*model.CollectionHistoryRecord, error)
}

type ClientStore interface {
	GetByProfileID(ctx context.Context, profileID uuid.UUID) (*model.Client, error)
	RevenueByClient(ctx context.Context, from, to time.Time) ([]model.FinanceOverviewRow, error)
}
