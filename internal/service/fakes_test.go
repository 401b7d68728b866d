package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/fleet-collections/internal/model"
	"github.com/nurpe/fleet-collections/internal/repository"
)

// In-memory fakes for the store interfaces. Each fake returns its configured
// data or the configured error; write methods mutate slices in place so
// workflow tests can observe state changes.

type fakeAddressStore struct {
	addresses []model.Address
	err       error
}

func (f *fakeAddressStore) ListByIDs(_ context.Context, clientID uuid.UUID, ids []uuid.UUID) ([]model.Address, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var rows []model.Address
	for _, address := range f.addresses {
		if address.ProfileID != clientID {
			continue
		}
		if _, ok := wanted[address.ID]; ok {
			rows = append(rows, address)
		}
	}
	return rows, nil
}

func (f *fakeAddressStore) GetOwned(_ context.Context, profileID, id uuid.UUID) (*model.Address, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, address := range f.addresses {
		if address.ID == id && address.ProfileID == profileID {
			found := address
			return &found, nil
		}
	}
	return nil, errNotFoundRecord
}

func (f *fakeAddressStore) ListByProfile(_ context.Context, profileID uuid.UUID) ([]model.Address, error) {
	if f.err != nil {
		return nil, f.err
	}
	var rows []model.Address
	for _, address := range f.addresses {
		if address.ProfileID == profileID {
			rows = append(rows, address)
		}
	}
	return rows, nil
}

func (f *fakeAddressStore) Create(_ context.Context, address model.Address) (*model.Address, error) {
	if f.err != nil {
		return nil, f.err
	}
	address.ID = uuid.New()
	f.addresses = append(f.addresses, address)
	return &address, nil
}

type fakeVehicleStore struct {
	vehicles []model.Vehicle
	err      error
	countErr error
}

func (f *fakeVehicleStore) GetByID(_ context.Context, id uuid.UUID) (*model.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, vehicle := range f.vehicles {
		if vehicle.ID == id {
			found := vehicle
			return &found, nil
		}
	}
	return nil, errNotFoundRecord
}

func (f *fakeVehicleStore) ListWithPickupByStatus(_ context.Context, clientID uuid.UUID, statuses []model.VehicleStatus) ([]model.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	allowed := make(map[model.VehicleStatus]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[status] = struct{}{}
	}
	var rows []model.Vehicle
	for _, vehicle := range f.vehicles {
		if vehicle.ClientID != clientID || vehicle.PickupAddressID == nil {
			continue
		}
		if _, ok := allowed[vehicle.Status]; ok {
			rows = append(rows, vehicle)
		}
	}
	return rows, nil
}

func (f *fakeVehicleStore) ListByClient(_ context.Context, clientID uuid.UUID) ([]model.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	var rows []model.Vehicle
	for _, vehicle := range f.vehicles {
		if vehicle.ClientID == clientID {
			rows = append(rows, vehicle)
		}
	}
	return rows, nil
}

func (f *fakeVehicleStore) CountByStatus(_ context.Context, clientID uuid.UUID) ([]repository.StatusCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.countErr != nil {
		return nil, f.countErr
	}
	counts := make(map[string]int64)
	for _, vehicle := range f.vehicles {
		if vehicle.ClientID == clientID {
			counts[string(vehicle.Status)]++
		}
	}
	rows := make([]repository.StatusCount, 0, len(counts))
	for status, count := range counts {
		rows = append(rows, repository.StatusCount{Status: status, Count: count})
	}
	return rows, nil
}

func (f *fakeVehicleStore) Create(_ context.Context, vehicle model.Vehicle) (*model.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	vehicle.ID = uuid.New()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt
	f.vehicles = append(f.vehicles, vehicle)
	return &vehicle, nil
}

func (f *fakeVehicleStore) UpdatePickup(_ context.Context, vehicleID, addressID uuid.UUID, arrivalDate *time.Time, status model.VehicleStatus) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.vehicles {
		if f.vehicles[i].ID == vehicleID {
			f.vehicles[i].PickupAddressID = &addressID
			f.vehicles[i].EstimatedArrivalDate = arrivalDate
			f.vehicles[i].Status = status
			return nil
		}
	}
	return errNotFoundRecord
}

func (f *fakeVehicleStore) UpdateStatusForGroup(_ context.Context, clientID, addressID uuid.UUID, date *time.Time, fromStatuses []model.VehicleStatus, next model.VehicleStatus) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	allowed := make(map[model.VehicleStatus]struct{}, len(fromStatuses))
	for _, status := range fromStatuses {
		allowed[status] = struct{}{}
	}
	moved := int64(0)
	for i := range f.vehicles {
		vehicle := &f.vehicles[i]
		if vehicle.ClientID != clientID || vehicle.PickupAddressID == nil || *vehicle.PickupAddressID != addressID {
			continue
		}
		if dateKey(vehicle.EstimatedArrivalDate) != dateKey(date) {
			continue
		}
		if _, ok := allowed[vehicle.Status]; !ok {
			continue
		}
		vehicle.Status = next
		moved++
	}
	return moved, nil
}

func (f *fakeVehicleStore) UpdateDateForGroup(_ context.Context, clientID, addressID uuid.UUID, oldDate *time.Time, newDate time.Time, fromStatuses []model.VehicleStatus, next model.VehicleStatus) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	allowed := make(map[model.VehicleStatus]struct{}, len(fromStatuses))
	for _, status := range fromStatuses {
		allowed[status] = struct{}{}
	}
	moved := int64(0)
	for i := range f.vehicles {
		vehicle := &f.vehicles[i]
		if vehicle.ClientID != clientID || vehicle.PickupAddressID == nil || *vehicle.PickupAddressID != addressID {
			continue
		}
		if dateKey(vehicle.EstimatedArrivalDate) != dateKey(oldDate) {
			continue
		}
		if _, ok := allowed[vehicle.Status]; !ok {
			continue
		}
		date := newDate
		vehicle.EstimatedArrivalDate = &date
		vehicle.Status = next
		moved++
	}
	return moved, nil
}

type fakeCollectionStore struct {
	collections []model.VehicleCollection
	history     []model.CollectionHistoryRecord
	feeErr      error
	historyErr  error
}

func (f *fakeCollectionStore) ListFeeRows(_ context.Context, clientID uuid.UUID) ([]model.VehicleCollection, error) {
	if f.feeErr != nil {
		return nil, f.feeErr
	}
	var rows []model.VehicleCollection
	for _, row := range f.collections {
		if row.ClientID == clientID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeCollectionStore) ListApproved(_ context.Context, clientID uuid.UUID) ([]model.VehicleCollection, error) {
	if f.feeErr != nil {
		return nil, f.feeErr
	}
	var rows []model.VehicleCollection
	for _, row := range f.collections {
		if row.ClientID == clientID && row.Status == model.CollectionStatusApproved {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeCollectionStore) GetByID(_ context.Context, id uuid.UUID) (*model.VehicleCollection, error) {
	for _, row := range f.collections {
		if row.ID == id {
			found := row
			return &found, nil
		}
	}
	return nil, errNotFoundRecord
}

func (f *fakeCollectionStore) Create(_ context.Context, collection model.VehicleCollection) (*model.VehicleCollection, error) {
	collection.ID = uuid.New()
	collection.CreatedAt = time.Now()
	collection.UpdatedAt = collection.CreatedAt
	f.collections = append(f.collections, collection)
	return &collection, nil
}

func (f *fakeCollectionStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.CollectionStatus) error {
	for i := range f.collections {
		if f.collections[i].ID == id {
			f.collections[i].Status = status
			f.collections[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return errNotFoundRecord
}

func (f *fakeCollectionStore) UpdateDate(_ context.Context, id uuid.UUID, date time.Time) error {
	for i := range f.collections {
		if f.collections[i].ID == id {
			f.collections[i].CollectionDate = &date
			f.collections[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return errNotFoundRecord
}

func (f *fakeCollectionStore) ListHistory(_ context.Context, clientID uuid.UUID) ([]model.CollectionHistoryRecord, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	var rows []model.CollectionHistoryRecord
	for _, record := range f.history {
		if record.ClientID == clientID {
			rows = append(rows, record)
		}
	}
	return rows, nil
}

func (f *fakeCollectionStore) CompleteCollection(_ context.Context, collection model.VehicleCollection, vehicleCount int64, _ model.VehicleStatus, _ []model.VehicleStatus) (*model.CollectionHistoryRecord, error) {
	record := model.CollectionHistoryRecord{
		ID:                uuid.New(),
		ClientID:          collection.ClientID,
		PickupAddressID:   &collection.PickupAddressID,
		CollectionAddress: collection.CollectionAddress,
		FeePerVehicle:     collection.FeePerVehicle,
		CollectionDate:    collection.CollectionDate,
		VehicleCount:      vehicleCount,
		Status:            "approved",
		CreatedAt:         time.Now(),
	}
	f.history = append(f.history, record)
	return &record, nil
}

type fakeClientStore struct {
	clients []model.Client
	revenue []model.FinanceOverviewRow
	err     error
}

func (f *fakeClientStore) GetByProfileID(_ context.Context, profileID uuid.UUID) (*model.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, client := range f.clients {
		if client.ProfileID == profileID {
			found := client
			return &found, nil
		}
	}
	return nil, errNotFoundRecord
}

func (f *fakeClientStore) RevenueByClient(_ context.Context, _, _ time.Time) ([]model.FinanceOverviewRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.revenue, nil
}
