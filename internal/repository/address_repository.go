package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/fleet-collections/internal/model"
)

type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// ListByIDs returns the address rows matching ids for the given client.
// Missing ids simply produce no row; the caller decides how to degrade.
func (r *AddressRepository) ListByIDs(ctx context.Context, clientID uuid.UUID, ids []uuid.UUID) ([]model.Address, error) {
	if len(ids) == 0 {
		return []model.Address{}, nil
	}

	var rows []model.Address
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, profile_id, street, number, city, COALESCE(zip_code, '') AS zip_code
		FROM addresses
		WHERE profile_id = ? AND id = ANY(?)
	`, clientID, ids).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AddressRepository) GetOwned(ctx context.Context, profileID, id uuid.UUID) (*model.Address, error) {
	var address model.Address
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, profile_id, street, number, city, COALESCE(zip_code, '') AS zip_code
		FROM addresses
		WHERE id = ? AND profile_id = ?
		LIMIT 1
	`, id, profileID).Scan(&address).Error
	if err != nil {
		return nil, err
	}
	if address.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &address, nil
}

func (r *AddressRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]model.Address, error) {
	var rows []model.Address
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, profile_id, street, number, city, COALESCE(zip_code, '') AS zip_code
		FROM addresses
		WHERE profile_id = ?
		ORDER BY street ASC, number ASC
	`, profileID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AddressRepository) Create(ctx context.Context, address model.Address) (*model.Address, error) {
	var saved model.Address
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO addresses (profile_id, street, number, city, zip_code)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, profile_id, street, number, city, COALESCE(zip_code, '') AS zip_code
	`, address.ProfileID, address.Street, address.Number, address.City, address.ZipCode).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
