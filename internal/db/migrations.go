package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'collection_status') THEN
			CREATE TYPE collection_status AS ENUM ('requested', 'approved');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS clients (
		profile_id UUID PRIMARY KEY,
		company_name VARCHAR(255) NOT NULL,
		operation_fee NUMERIC(18,2) NOT NULL DEFAULT 0,
		fipe_percent NUMERIC(5,2) NOT NULL DEFAULT 0,
		parking_daily NUMERIC(18,2) NOT NULL DEFAULT 0,
		mileage_rate NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		profile_id UUID NOT NULL REFERENCES clients(profile_id),
		street VARCHAR(255) NOT NULL,
		number VARCHAR(32) NOT NULL,
		city VARCHAR(128) NOT NULL,
		zip_code VARCHAR(16),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_id UUID NOT NULL REFERENCES clients(profile_id),
		plate VARCHAR(16) NOT NULL,
		model VARCHAR(128),
		status VARCHAR(64) NOT NULL DEFAULT 'CADASTRADO',
		pickup_address_id UUID REFERENCES addresses(id),
		estimated_arrival_date DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS vehicle_collections (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_id UUID NOT NULL REFERENCES clients(profile_id),
		pickup_address_id UUID REFERENCES addresses(id),
		collection_address VARCHAR(512) NOT NULL DEFAULT '',
		collection_fee_per_vehicle NUMERIC(18,2),
		collection_date DATE,
		status collection_status NOT NULL DEFAULT 'requested',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS collection_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_id UUID NOT NULL REFERENCES clients(profile_id),
		pickup_address_id UUID REFERENCES addresses(id),
		collection_address VARCHAR(512) NOT NULL DEFAULT '',
		collection_fee_per_vehicle NUMERIC(18,2),
		collection_date DATE,
		vehicle_count BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL DEFAULT 'approved',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_vehicles_plate ON vehicles (client_id, plate);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_status ON vehicles (client_id, status);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_pickup ON vehicles (pickup_address_id) WHERE pickup_address_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_addresses_profile ON addresses (profile_id);`,
	`CREATE INDEX IF NOT EXISTS idx_collections_client ON vehicle_collections (client_id, status);`,
	`CREATE INDEX IF NOT EXISTS idx_collections_updated ON vehicle_collections (client_id, updated_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_history_client ON collection_history (client_id, created_at DESC);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
