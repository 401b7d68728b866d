package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/fleet-collections/internal/model"
)

// historyFromRecords maps immutable history rows into display entries. The
// records are final; status is always the approved label and the enricher
// preserves it verbatim.
func historyFromRecords(records []model.CollectionHistoryRecord, labels map[uuid.UUID]string) []model.HistoryEntry {
	entries := make([]model.HistoryEntry, 0, len(records))
	for _, record := range records {
		label := record.CollectionAddress
		if record.PickupAddressID != nil {
			if resolved, ok := labels[*record.PickupAddressID]; ok && resolved != "" {
				label = resolved
			}
		}
		status := record.Status
		if status == "" {
			status = string(model.CollectionStatusApproved)
		}
		entries = append(entries, model.HistoryEntry{
			AddressID:      record.PickupAddressID,
			AddressLabel:   label,
			CollectionDate: record.CollectionDate,
			FeePerVehicle:  record.FeePerVehicle,
			VehicleCount:   record.VehicleCount,
			Status:         status,
		})
	}
	return entries
}

// historyFromCollections is the fallback path over live approved rows when no
// immutable record exists yet: one entry per address, most recent collection
// date wins, but a nil fee never clobbers a fee an older row knew. The merge
// runs over mutable rows, so its guarantees are weaker than the immutable
// path's; entries carry an empty status so the enricher votes one in.
func historyFromCollections(rows []model.VehicleCollection, labels map[uuid.UUID]string) []model.HistoryEntry {
	byAddress := make(map[uuid.UUID]*model.HistoryEntry)
	order := make([]uuid.UUID, 0, len(rows))

	for _, row := range rows {
		addressID := row.PickupAddressID

		current, ok := byAddress[addressID]
		if !ok {
			label := labels[addressID]
			if label == "" {
				label = row.CollectionAddress
			}
			id := addressID
			byAddress[addressID] = &model.HistoryEntry{
				AddressID:      &id,
				AddressLabel:   label,
				CollectionDate: row.CollectionDate,
				FeePerVehicle:  row.FeePerVehicle,
			}
			order = append(order, addressID)
			continue
		}

		if dateAfter(row.CollectionDate, current.CollectionDate) {
			current.CollectionDate = row.CollectionDate
			if row.FeePerVehicle != nil {
				current.FeePerVehicle = row.FeePerVehicle
			}
		} else if current.FeePerVehicle == nil && row.FeePerVehicle != nil {
			current.FeePerVehicle = row.FeePerVehicle
		}
	}

	entries := make([]model.HistoryEntry, 0, len(order))
	for _, addressID := range order {
		entries = append(entries, *byAddress[addressID])
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AddressLabel < entries[j].AddressLabel
	})
	return entries
}

// dateAfter treats a nil date as earlier than any known date.
func dateAfter(candidate, current *time.Time) bool {
	if candidate == nil {
		return false
	}
	if current == nil {
		return true
	}
	return candidate.After(*current)
}

// enrichHistory cross-references the client's current vehicles by (address,
// estimated arrival date). Each entry gets the sorted plates of its matching
// vehicles and a per-status breakdown. Entries without an explicit status get
// the plurality status among matches; ties break lexicographically on the
// status label so the result is reproducible.
func enrichHistory(entries []model.HistoryEntry, vehicles []model.Vehicle) []model.HistoryEntry {
	type matchKey struct {
		addressID uuid.UUID
		date      string
	}

	matches := make(map[matchKey][]model.Vehicle)
	for _, vehicle := range vehicles {
		if vehicle.PickupAddressID == nil {
			continue
		}
		key := matchKey{addressID: *vehicle.PickupAddressID, date: dateKey(vehicle.EstimatedArrivalDate)}
		matches[key] = append(matches[key], vehicle)
	}

	for i := range entries {
		entry := &entries[i]
		if entry.AddressID == nil {
			continue
		}

		matched := matches[matchKey{addressID: *entry.AddressID, date: dateKey(entry.CollectionDate)}]
		if len(matched) == 0 {
			continue
		}

		breakdown := make(map[string]int64, len(matched))
		plates := make([]string, 0, len(matched))
		for _, vehicle := range matched {
			breakdown[string(vehicle.Status)]++
			plates = append(plates, vehicle.Plate)
		}
		sort.Strings(plates)

		entry.Plates = plates
		entry.StatusBreakdown = breakdown
		if entry.VehicleCount == 0 {
			entry.VehicleCount = int64(len(matched))
		}
		if entry.Status == "" {
			entry.Status = pluralityStatus(breakdown)
		}
	}

	return entries
}

// pluralityStatus picks the most frequent status; on a tie the
// lexicographically smaller label wins.
func pluralityStatus(breakdown map[string]int64) string {
	best := ""
	bestCount := int64(-1)
	for status, count := range breakdown {
		if count > bestCount || (count == bestCount && status < best) {
			best = status
			bestCount = count
		}
	}
	return best
}
