package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/fleet-collections/internal/model"
)

// Status filters selecting the input rows of each group builder.
var (
	pricingStatuses    = []model.VehicleStatus{model.VehicleStatusPickupSelected}
	pendingStatuses    = []model.VehicleStatus{model.VehicleStatusAwaitingApproval, model.VehicleStatusDateChangeRequest}
	approvedStatuses   = []model.VehicleStatus{model.VehicleStatusAwaitingCollection}
	rescheduleStatuses = []model.VehicleStatus{model.VehicleStatusNewDateApproval}
)

type groupOptions struct {
	// withBreakdown attaches a per-status histogram to every group.
	withBreakdown bool
	// flattenAddressDates collapses the group date to nil for any address
	// whose vehicles disagree on estimated arrival date. Only the pricing
	// builder carries this address-level consistency check; the other
	// builders group strictly by (address, date).
	flattenAddressDates bool
}

// buildGroups folds vehicles into (address, date) collection groups, resolves
// labels and fees, and returns the groups with the running fee total
// (nil fee counts as 0). Output order is deterministic: label, then date.
func buildGroups(
	vehicles []model.Vehicle,
	labels map[uuid.UUID]string,
	fees *feeLookup,
	opts groupOptions,
) ([]model.CollectionGroup, float64) {
	type bucket struct {
		addressID uuid.UUID
		date      *time.Time
		count     int64
		breakdown map[string]int64
		mixed     bool
	}

	buckets := make(map[feeKey]*bucket)
	addressDates := make(map[uuid.UUID]string)
	addressMixed := make(map[uuid.UUID]bool)

	for _, vehicle := range vehicles {
		if vehicle.PickupAddressID == nil {
			continue
		}
		addressID := *vehicle.PickupAddressID

		key := feeKey{addressID: addressID, date: dateKey(vehicle.EstimatedArrivalDate)}
		if opts.flattenAddressDates {
			key = feeKey{addressID: addressID}
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{addressID: addressID, date: vehicle.EstimatedArrivalDate}
			if opts.withBreakdown {
				b.breakdown = make(map[string]int64)
			}
			buckets[key] = b
		}
		b.count++
		if opts.withBreakdown {
			b.breakdown[string(vehicle.Status)]++
		}

		if seen, ok := addressDates[addressID]; ok {
			if seen != dateKey(vehicle.EstimatedArrivalDate) {
				addressMixed[addressID] = true
			}
		} else {
			addressDates[addressID] = dateKey(vehicle.EstimatedArrivalDate)
		}
	}

	groups := make([]model.CollectionGroup, 0, len(buckets))
	total := 0.0
	for _, b := range buckets {
		date := b.date
		if opts.flattenAddressDates && addressMixed[b.addressID] {
			date = nil
		}

		fee := fees.Resolve(b.addressID, date)
		group := model.CollectionGroup{
			AddressID:       b.addressID,
			AddressLabel:    labels[b.addressID],
			CollectionDate:  date,
			VehicleCount:    b.count,
			FeePerVehicle:   fee,
			StatusBreakdown: b.breakdown,
		}
		groups = append(groups, group)

		if fee != nil {
			total += *fee * float64(b.count)
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].AddressLabel != groups[j].AddressLabel {
			return groups[i].AddressLabel < groups[j].AddressLabel
		}
		return dateKey(groups[i].CollectionDate) < dateKey(groups[j].CollectionDate)
	})

	return groups, total
}

// pickupAddressIDs collects the deduplicated pickup address ids of a vehicle
// set, input to the label resolver.
func pickupAddressIDs(vehicles []model.Vehicle) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(vehicles))
	for _, vehicle := range vehicles {
		if vehicle.PickupAddressID == nil {
			continue
		}
		if _, ok := seen[*vehicle.PickupAddressID]; ok {
			continue
		}
		seen[*vehicle.PickupAddressID] = struct{}{}
		ids = append(ids, *vehicle.PickupAddressID)
	}
	return ids
}
