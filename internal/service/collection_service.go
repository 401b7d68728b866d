package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/fleet-collections/internal/config"
	"github.com/nurpe/fleet-collections/internal/model"
)

// CollectionService drives the collection workflow: vehicle registration,
// pickup selection, admin pricing, client approval, date negotiation, and
// completion into the immutable history.
type CollectionService struct {
	vehicles    VehicleStore
	collections CollectionStore
	addresses   AddressStore
	cfg         *config.Config
}

func NewCollectionService(
	vehicles VehicleStore,
	collections CollectionStore,
	addresses AddressStore,
	cfg *config.Config,
) *CollectionService {
	return &CollectionService{
		vehicles:    vehicles,
		collections: collections,
		addresses:   addresses,
		cfg:         cfg,
	}
}

type RegisterVehicleInput struct {
	ClientID uuid.UUID
	Plate    string
	Model    string
}

func (s *CollectionService) RegisterVehicle(
	ctx context.Context,
	principal model.Principal,
	input RegisterVehicleInput,
) (*model.Vehicle, error) {
	clientID := input.ClientID
	if principal.IsClient() {
		clientID = principal.ProfileID
	}
	if clientID == uuid.Nil {
		return nil, fmt.Errorf("%w: client_id is required", ErrInvalidInput)
	}

	plate := strings.ToUpper(strings.TrimSpace(input.Plate))
	if plate == "" {
		return nil, fmt.Errorf("%w: plate is required", ErrInvalidInput)
	}

	return s.vehicles.Create(ctx, model.Vehicle{
		ClientID: clientID,
		Plate:    plate,
		Model:    strings.TrimSpace(input.Model),
		Status:   model.VehicleStatusRegistered,
	})
}

func (s *CollectionService) CreateAddress(
	ctx context.Context,
	principal model.Principal,
	address model.Address,
) (*model.Address, error) {
	if principal.IsClient() {
		address.ProfileID = principal.ProfileID
	}
	if address.ProfileID == uuid.Nil {
		return nil, fmt.Errorf("%w: profile_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(address.Street) == "" || strings.TrimSpace(address.City) == "" {
		return nil, fmt.Errorf("%w: street and city are required", ErrInvalidInput)
	}
	return s.addresses.Create(ctx, address)
}

func (s *CollectionService) ListAddresses(ctx context.Context, principal model.Principal, profileID uuid.UUID) ([]model.Address, error) {
	if principal.IsClient() {
		profileID = principal.ProfileID
	}
	if !principal.CanReadClient(profileID) {
		return nil, ErrPermissionDenied
	}
	return s.addresses.ListByProfile(ctx, profileID)
}

type SelectPickupInput struct {
	VehicleID   uuid.UUID
	AddressID   uuid.UUID
	ArrivalDate *time.Time
}

// SelectPickup assigns a collection point and estimated arrival date to one
// vehicle. The address must belong to the vehicle's client.
func (s *CollectionService) SelectPickup(
	ctx context.Context,
	principal model.Principal,
	input SelectPickupInput,
) (*model.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, input.VehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsClient() && vehicle.ClientID != principal.ProfileID {
		return nil, ErrPermissionDenied
	}

	if _, err := s.addresses.GetOwned(ctx, vehicle.ClientID, input.AddressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: address does not belong to client", ErrInvalidInput)
		}
		return nil, err
	}

	if !vehicle.Status.CanTransitionTo(model.VehicleStatusPickupSelected) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, vehicle.Status, model.VehicleStatusPickupSelected)
	}

	if err := s.vehicles.UpdatePickup(ctx, vehicle.ID, input.AddressID, input.ArrivalDate, model.VehicleStatusPickupSelected); err != nil {
		return nil, err
	}
	return s.vehicles.GetByID(ctx, vehicle.ID)
}

type PriceCollectionInput struct {
	ClientID       uuid.UUID
	AddressID      uuid.UUID
	CollectionDate *time.Time
	FeePerVehicle  float64
}

// PriceCollection creates a requested collection for one (address, date)
// group and moves its vehicles to awaiting approval. Admin only.
func (s *CollectionService) PriceCollection(
	ctx context.Context,
	principal model.Principal,
	input PriceCollectionInput,
) (*model.VehicleCollection, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if input.ClientID == uuid.Nil || input.AddressID == uuid.Nil {
		return nil, fmt.Errorf("%w: client_id and address_id are required", ErrInvalidInput)
	}
	if input.FeePerVehicle < 0 {
		return nil, fmt.Errorf("%w: fee must not be negative", ErrInvalidInput)
	}

	address, err := s.addresses.GetOwned(ctx, input.ClientID, input.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	moved, err := s.vehicles.UpdateStatusForGroup(
		ctx,
		input.ClientID,
		input.AddressID,
		input.CollectionDate,
		[]model.VehicleStatus{model.VehicleStatusPickupSelected},
		model.VehicleStatusAwaitingApproval,
	)
	if err != nil {
		return nil, err
	}
	if moved == 0 {
		return nil, ErrNoVehicles
	}

	fee := input.FeePerVehicle
	return s.collections.Create(ctx, model.VehicleCollection{
		ClientID:          input.ClientID,
		PickupAddressID:   input.AddressID,
		CollectionAddress: address.Label(),
		FeePerVehicle:     &fee,
		CollectionDate:    input.CollectionDate,
		Status:            model.CollectionStatusRequested,
	})
}

// ApproveCollection is the client's acceptance. A requested collection moves
// to approved with its whole group. An already-approved collection only
// confirms an admin-accepted new date: its vehicles move from the new-date
// decision back to awaiting collection, closing the reschedule cycle.
func (s *CollectionService) ApproveCollection(
	ctx context.Context,
	principal model.Principal,
	collectionID uuid.UUID,
) (*model.VehicleCollection, error) {
	collection, err := s.getOwnedCollection(ctx, principal, collectionID)
	if err != nil {
		return nil, err
	}

	switch collection.Status {
	case model.CollectionStatusRequested:
		if _, err := s.vehicles.UpdateStatusForGroup(
			ctx,
			collection.ClientID,
			collection.PickupAddressID,
			collection.CollectionDate,
			[]model.VehicleStatus{model.VehicleStatusAwaitingApproval, model.VehicleStatusNewDateApproval},
			model.VehicleStatusAwaitingCollection,
		); err != nil {
			return nil, err
		}
		if err := s.collections.UpdateStatus(ctx, collection.ID, model.CollectionStatusApproved); err != nil {
			return nil, err
		}
	case model.CollectionStatusApproved:
		moved, err := s.vehicles.UpdateStatusForGroup(
			ctx,
			collection.ClientID,
			collection.PickupAddressID,
			collection.CollectionDate,
			[]model.VehicleStatus{model.VehicleStatusNewDateApproval},
			model.VehicleStatusAwaitingCollection,
		)
		if err != nil {
			return nil, err
		}
		if moved == 0 {
			return nil, fmt.Errorf("%w: collection is %s", ErrInvalidTransition, collection.Status)
		}
	default:
		return nil, fmt.Errorf("%w: collection is %s", ErrInvalidTransition, collection.Status)
	}

	return s.collections.GetByID(ctx, collection.ID)
}

type RescheduleInput struct {
	CollectionID uuid.UUID
	NewDate      time.Time
}

// RequestDateChange is the client side of date negotiation: the group's
// vehicles flag a date-change request for the admin to review.
func (s *CollectionService) RequestDateChange(
	ctx context.Context,
	principal model.Principal,
	input RescheduleInput,
) error {
	collection, err := s.getOwnedCollection(ctx, principal, input.CollectionID)
	if err != nil {
		return err
	}
	if err := s.validateRescheduleDate(input.NewDate); err != nil {
		return err
	}

	moved, err := s.vehicles.UpdateStatusForGroup(
		ctx,
		collection.ClientID,
		collection.PickupAddressID,
		collection.CollectionDate,
		[]model.VehicleStatus{
			model.VehicleStatusAwaitingApproval,
			model.VehicleStatusAwaitingCollection,
			model.VehicleStatusNewDateApproval,
		},
		model.VehicleStatusDateChangeRequest,
	)
	if err != nil {
		return err
	}
	if moved == 0 {
		return ErrNoVehicles
	}
	return nil
}

// ApproveNewDate is the admin side: the collection date moves to the proposed
// one and the vehicles await the client's confirmation.
func (s *CollectionService) ApproveNewDate(
	ctx context.Context,
	principal model.Principal,
	input RescheduleInput,
) (*model.VehicleCollection, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	collection, err := s.collections.GetByID(ctx, input.CollectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.validateRescheduleDate(input.NewDate); err != nil {
		return nil, err
	}

	moved, err := s.vehicles.UpdateDateForGroup(
		ctx,
		collection.ClientID,
		collection.PickupAddressID,
		collection.CollectionDate,
		input.NewDate,
		[]model.VehicleStatus{model.VehicleStatusDateChangeRequest},
		model.VehicleStatusNewDateApproval,
	)
	if err != nil {
		return nil, err
	}
	if moved == 0 {
		return nil, ErrNoVehicles
	}

	if err := s.collections.UpdateDate(ctx, collection.ID, input.NewDate); err != nil {
		return nil, err
	}
	return s.collections.GetByID(ctx, collection.ID)
}

// CompleteCollection finalizes an approved collection: the immutable history
// record is written and the vehicles are marked collected. Admin only.
func (s *CollectionService) CompleteCollection(
	ctx context.Context,
	principal model.Principal,
	collectionID uuid.UUID,
) (*model.CollectionHistoryRecord, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if collection.Status != model.CollectionStatusApproved {
		return nil, fmt.Errorf("%w: collection is %s", ErrInvalidTransition, collection.Status)
	}

	vehicles, err := s.vehicles.ListWithPickupByStatus(ctx, collection.ClientID, []model.VehicleStatus{model.VehicleStatusAwaitingCollection})
	if err != nil {
		return nil, err
	}
	count := int64(0)
	for _, vehicle := range vehicles {
		if vehicle.PickupAddressID == nil || *vehicle.PickupAddressID != collection.PickupAddressID {
			continue
		}
		if dateKey(vehicle.EstimatedArrivalDate) != dateKey(collection.CollectionDate) {
			continue
		}
		count++
	}
	if count == 0 {
		return nil, ErrNoVehicles
	}

	return s.collections.CompleteCollection(
		ctx,
		*collection,
		count,
		model.VehicleStatusCollected,
		[]model.VehicleStatus{model.VehicleStatusAwaitingCollection},
	)
}

func (s *CollectionService) getOwnedCollection(
	ctx context.Context,
	principal model.Principal,
	collectionID uuid.UUID,
) (*model.VehicleCollection, error) {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsClient() && collection.ClientID != principal.ProfileID {
		return nil, ErrPermissionDenied
	}
	return collection, nil
}

func (s *CollectionService) validateRescheduleDate(date time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: new_date is required", ErrInvalidInput)
	}
	limit := time.Now().AddDate(0, 0, s.cfg.Collections.MaxRescheduleDays)
	if date.After(limit) {
		return fmt.Errorf("%w: new_date exceeds the %d-day reschedule window", ErrInvalidInput, s.cfg.Collections.MaxRescheduleDays)
	}
	return nil
}
