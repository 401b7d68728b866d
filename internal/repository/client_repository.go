package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/fleet-collections/internal/model"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetByProfileID(ctx context.Context, profileID uuid.UUID) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			profile_id,
			company_name,
			operation_fee,
			fipe_percent,
			parking_daily,
			mileage_rate
		FROM clients
		WHERE profile_id = ?
		LIMIT 1
	`, profileID).Scan(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ProfileID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &client, nil
}

// RevenueByClient aggregates finalized collection revenue per client over a
// period: fee times vehicle count from the immutable history, plus the
// per-collection operation fee from the contract.
func (r *ClientRepository) RevenueByClient(ctx context.Context, from, to time.Time) ([]model.FinanceOverviewRow, error) {
	var rows []model.FinanceOverviewRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.profile_id AS client_id,
			c.company_name,
			COUNT(h.id) AS collection_count,
			COALESCE(SUM(h.vehicle_count), 0) AS vehicle_count,
			COALESCE(SUM(COALESCE(h.collection_fee_per_vehicle, 0) * h.vehicle_count), 0) AS collection_revenue,
			COUNT(h.id) * c.operation_fee AS operation_revenue,
			COALESCE(SUM(COALESCE(h.collection_fee_per_vehicle, 0) * h.vehicle_count), 0)
				+ COUNT(h.id) * c.operation_fee AS total_revenue
		FROM clients c
		LEFT JOIN collection_history h
			ON h.client_id = c.profile_id
			AND h.created_at >= ?
			AND h.created_at < ?
		GROUP BY c.profile_id, c.company_name, c.operation_fee
		ORDER BY c.company_name ASC
	`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
