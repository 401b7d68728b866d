package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/fleet-collections/internal/model"
)

type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

const collectionColumns = `
	id,
	client_id,
	pickup_address_id,
	collection_address,
	collection_fee_per_vehicle AS fee_per_vehicle,
	collection_date,
	status,
	created_at,
	updated_at
`

// ListFeeRows returns every requested or approved collection of the client,
// most recently updated first. The fee-lookup builder relies on this order
// for its first-seen-wins fold.
func (r *CollectionRepository) ListFeeRows(ctx context.Context, clientID uuid.UUID) ([]model.VehicleCollection, error) {
	var rows []model.VehicleCollection
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+collectionColumns+`
		FROM vehicle_collections
		WHERE client_id = ?
			AND status IN ('requested', 'approved')
		ORDER BY updated_at DESC
	`, clientID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListApproved returns the client's approved collections, most recently
// updated first. Fallback source for history when no immutable record exists.
func (r *CollectionRepository) ListApproved(ctx context.Context, clientID uuid.UUID) ([]model.VehicleCollection, error) {
	var rows []model.VehicleCollection
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+collectionColumns+`
		FROM vehicle_collections
		WHERE client_id = ?
			AND status = 'approved'
		ORDER BY updated_at DESC
	`, clientID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CollectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.VehicleCollection, error) {
	var collection model.VehicleCollection
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+collectionColumns+`
		FROM vehicle_collections
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&collection).Error
	if err != nil {
		return nil, err
	}
	if collection.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &collection, nil
}

func (r *CollectionRepository) Create(ctx context.Context, collection model.VehicleCollection) (*model.VehicleCollection, error) {
	var saved model.VehicleCollection
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO vehicle_collections (
			client_id,
			pickup_address_id,
			collection_address,
			collection_fee_per_vehicle,
			collection_date,
			status
		) VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+collectionColumns+`
	`,
		collection.ClientID,
		collection.PickupAddressID,
		collection.CollectionAddress,
		collection.FeePerVehicle,
		collection.CollectionDate,
		collection.Status,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *CollectionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CollectionStatus) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE vehicle_collections
		SET status = ?, updated_at = NOW()
		WHERE id = ?
	`, status, id).Error
}

func (r *CollectionRepository) UpdateDate(ctx context.Context, id uuid.UUID, date time.Time) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE vehicle_collections
		SET collection_date = ?, updated_at = NOW()
		WHERE id = ?
	`, date, id).Error
}

// ListHistory returns the immutable history records of a client, newest
// first.
func (r *CollectionRepository) ListHistory(ctx context.Context, clientID uuid.UUID) ([]model.CollectionHistoryRecord, error) {
	var rows []model.CollectionHistoryRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			client_id,
			pickup_address_id,
			collection_address,
			collection_fee_per_vehicle AS fee_per_vehicle,
			collection_date,
			vehicle_count,
			status,
			created_at
		FROM collection_history
		WHERE client_id = ?
		ORDER BY created_at DESC
	`, clientID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CompleteCollection finalizes one collection in a single transaction: the
// immutable history record is written and the group's vehicles move to the
// collected status.
func (r *CollectionRepository) CompleteCollection(
	ctx context.Context,
	collection model.VehicleCollection,
	vehicleCount int64,
	collectedStatus model.VehicleStatus,
	fromStatuses []model.VehicleStatus,
) (*model.CollectionHistoryRecord, error) {
	var saved model.CollectionHistoryRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO collection_history (
				client_id,
				pickup_address_id,
				collection_address,
				collection_fee_per_vehicle,
				collection_date,
				vehicle_count,
				status
			) VALUES (?, ?, ?, ?, ?, ?, 'approved')
			RETURNING
				id,
				client_id,
				pickup_address_id,
				collection_address,
				collection_fee_per_vehicle AS fee_per_vehicle,
				collection_date,
				vehicle_count,
				status,
				created_at
		`,
			collection.ClientID,
			collection.PickupAddressID,
			collection.CollectionAddress,
			collection.FeePerVehicle,
			collection.CollectionDate,
			vehicleCount,
		).Scan(&saved).Error
		if err != nil {
			return err
		}

		baseQuery := `
			UPDATE vehicles
			SET status = ?, updated_at = NOW()
			WHERE client_id = ?
				AND pickup_address_id = ?
		`
		args := []interface{}{collectedStatus, collection.ClientID, collection.PickupAddressID}
		if collection.CollectionDate == nil {
			baseQuery += " AND estimated_arrival_date IS NULL"
		} else {
			baseQuery += " AND estimated_arrival_date = ?"
			args = append(args, *collection.CollectionDate)
		}
		baseQuery, args = appendVehicleStatusFilter(baseQuery, args, fromStatuses)

		return tx.Exec(baseQuery, args...).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
