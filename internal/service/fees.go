package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/fleet-collections/internal/model"
)

type feeKey struct {
	addressID uuid.UUID
	date      string
}

// feeLookup resolves the authoritative fee for an (address, date) group via
// the fallback precedence chain:
// approved > exact date > latest nonzero any date > undated.
type feeLookup struct {
	byAddressDate map[feeKey]float64
	approved      map[uuid.UUID]float64
	latestNonzero map[uuid.UUID]float64
}

func dateKey(date *time.Time) string {
	if date == nil {
		return ""
	}
	return date.Format("2006-01-02")
}

// buildFeeLookup folds collection rows into the three fallback maps. Rows must
// arrive ordered by updated_at descending; each map only records the first
// value seen per key, so the most recent row wins and older writes never
// overwrite it. A fee of exactly 0 counts as "no fee" for the nonzero map but
// is still recorded in the exact-date map.
func buildFeeLookup(rows []model.VehicleCollection) *feeLookup {
	lookup := &feeLookup{
		byAddressDate: make(map[feeKey]float64),
		approved:      make(map[uuid.UUID]float64),
		latestNonzero: make(map[uuid.UUID]float64),
	}

	for _, row := range rows {
		if row.FeePerVehicle == nil {
			continue
		}
		fee := *row.FeePerVehicle

		key := feeKey{addressID: row.PickupAddressID, date: dateKey(row.CollectionDate)}
		if _, seen := lookup.byAddressDate[key]; !seen {
			lookup.byAddressDate[key] = fee
		}

		if row.Status == model.CollectionStatusApproved {
			if _, seen := lookup.approved[row.PickupAddressID]; !seen {
				lookup.approved[row.PickupAddressID] = fee
			}
		}

		if fee != 0 {
			if _, seen := lookup.latestNonzero[row.PickupAddressID]; !seen {
				lookup.latestNonzero[row.PickupAddressID] = fee
			}
		}
	}

	return lookup
}

// Resolve walks the precedence chain for one group. Returns nil when no
// source has a fee for the address.
func (l *feeLookup) Resolve(addressID uuid.UUID, date *time.Time) *float64 {
	if fee, ok := l.approved[addressID]; ok {
		return &fee
	}
	if date != nil {
		if fee, ok := l.byAddressDate[feeKey{addressID: addressID, date: dateKey(date)}]; ok {
			return &fee
		}
	}
	if fee, ok := l.latestNonzero[addressID]; ok {
		return &fee
	}
	if fee, ok := l.byAddressDate[feeKey{addressID: addressID, date: ""}]; ok {
		return &fee
	}
	return nil
}
