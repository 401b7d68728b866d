package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/fleet-collections/internal/model"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `
	id,
	client_id,
	plate,
	COALESCE(model, '') AS model,
	status,
	pickup_address_id,
	estimated_arrival_date,
	created_at,
	updated_at
`

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&vehicle).Error
	if err != nil {
		return nil, err
	}
	if vehicle.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &vehicle, nil
}

// ListWithPickupByStatus returns the client's vehicles in any of the given
// statuses that already have a pickup address. This is the primary query of
// every group builder.
func (r *VehicleRepository) ListWithPickupByStatus(
	ctx context.Context,
	clientID uuid.UUID,
	statuses []model.VehicleStatus,
) ([]model.Vehicle, error) {
	if len(statuses) == 0 {
		return []model.Vehicle{}, nil
	}

	baseQuery := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE client_id = ?
			AND pickup_address_id IS NOT NULL
	`
	args := []interface{}{clientID}
	baseQuery, args = appendVehicleStatusFilter(baseQuery, args, statuses)
	baseQuery += " ORDER BY plate ASC"

	var rows []model.Vehicle
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *VehicleRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Vehicle, error) {
	var rows []model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE client_id = ?
		ORDER BY plate ASC
	`, clientID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type StatusCount struct {
	Status string
	Count  int64
}

// CountByStatus returns the flat per-status vehicle counts for one client.
func (r *VehicleRepository) CountByStatus(ctx context.Context, clientID uuid.UUID) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT UPPER(status) AS status, COUNT(*) AS count
		FROM vehicles
		WHERE client_id = ?
		GROUP BY UPPER(status)
		ORDER BY status ASC
	`, clientID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle model.Vehicle) (*model.Vehicle, error) {
	var saved model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO vehicles (client_id, plate, model, status)
		VALUES (?, ?, ?, ?)
		RETURNING `+vehicleColumns+`
	`, vehicle.ClientID, vehicle.Plate, vehicle.Model, vehicle.Status).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdatePickup sets the collection point and estimated date for one vehicle.
func (r *VehicleRepository) UpdatePickup(
	ctx context.Context,
	vehicleID uuid.UUID,
	addressID uuid.UUID,
	arrivalDate *time.Time,
	status model.VehicleStatus,
) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE vehicles
		SET
			pickup_address_id = ?,
			estimated_arrival_date = ?,
			status = ?,
			updated_at = NOW()
		WHERE id = ?
	`, addressID, arrivalDate, status, vehicleID).Error
}

// UpdateStatusForGroup moves every vehicle of one (client, address, date)
// group from any of the fromStatuses to the next status. A NULL date group
// matches vehicles with no estimated date.
func (r *VehicleRepository) UpdateStatusForGroup(
	ctx context.Context,
	clientID uuid.UUID,
	addressID uuid.UUID,
	date *time.Time,
	fromStatuses []model.VehicleStatus,
	next model.VehicleStatus,
) (int64, error) {
	baseQuery := `
		UPDATE vehicles
		SET status = ?, updated_at = NOW()
		WHERE client_id = ?
			AND pickup_address_id = ?
	`
	args := []interface{}{next, clientID, addressID}
	if date == nil {
		baseQuery += " AND estimated_arrival_date IS NULL"
	} else {
		baseQuery += " AND estimated_arrival_date = ?"
		args = append(args, *date)
	}
	baseQuery, args = appendVehicleStatusFilter(baseQuery, args, fromStatuses)

	result := r.db.WithContext(ctx).Exec(baseQuery, args...)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpdateDateForGroup moves the estimated arrival date of a whole group, used
// by the reschedule flow.
func (r *VehicleRepository) UpdateDateForGroup(
	ctx context.Context,
	clientID uuid.UUID,
	addressID uuid.UUID,
	oldDate *time.Time,
	newDate time.Time,
	fromStatuses []model.VehicleStatus,
	next model.VehicleStatus,
) (int64, error) {
	baseQuery := `
		UPDATE vehicles
		SET estimated_arrival_date = ?, status = ?, updated_at = NOW()
		WHERE client_id = ?
			AND pickup_address_id = ?
	`
	args := []interface{}{newDate, next, clientID, addressID}
	if oldDate == nil {
		baseQuery += " AND estimated_arrival_date IS NULL"
	} else {
		baseQuery += " AND estimated_arrival_date = ?"
		args = append(args, *oldDate)
	}
	baseQuery, args = appendVehicleStatusFilter(baseQuery, args, fromStatuses)

	result := r.db.WithContext(ctx).Exec(baseQuery, args...)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func appendVehicleStatusFilter(
	baseQuery string,
	args []interface{},
	statuses []model.VehicleStatus,
) (string, []interface{}) {
	if len(statuses) == 0 {
		return baseQuery, args
	}

	placeholders := make([]string, len(statuses))
	for i := range statuses {
		placeholders[i] = "?"
	}
	baseQuery += fmt.Sprintf(" AND status IN (%s)", strings.Join(placeholders, ","))
	for _, status := range statuses {
		args = append(args, status)
	}
	return baseQuery, args
}
