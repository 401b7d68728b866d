package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/fleet-collections/internal/model"
)

func TestHistoryFromCollections(t *testing.T) {
	clientID := uuid.New()
	addressA := uuid.New()
	labels := map[uuid.UUID]string{addressA: "Rua A, 1 - São Paulo"}

	t.Run("most recent date wins, nil fee does not clobber", func(t *testing.T) {
		rows := []model.VehicleCollection{
			{ClientID: clientID, PickupAddressID: addressA, CollectionDate: datePtr("2025-01-05"), FeePerVehicle: nil, Status: model.CollectionStatusApproved},
			{ClientID: clientID, PickupAddressID: addressA, CollectionDate: datePtr("2025-01-01"), FeePerVehicle: feePtr(30), Status: model.CollectionStatusApproved},
		}

		entries := historyFromCollections(rows, labels)
		require.Len(t, entries, 1)

		require.NotNil(t, entries[0].CollectionDate)
		assert.Equal(t, *datePtr("2025-01-05"), *entries[0].CollectionDate)
		require.NotNil(t, entries[0].FeePerVehicle)
		assert.Equal(t, 30.0, *entries[0].FeePerVehicle)
	})

	t.Run("newer fee replaces older fee", func(t *testing.T) {
		rows := []model.VehicleCollection{
			{ClientID: clientID, PickupAddressID: addressA, CollectionDate: datePtr("2025-01-01"), FeePerVehicle: feePtr(30), Status: model.CollectionStatusApproved},
			{ClientID: clientID, PickupAddressID: addressA, CollectionDate: datePtr("2025-01-10"), FeePerVehicle: feePtr(55), Status: model.CollectionStatusApproved},
		}

		entries := historyFromCollections(rows, labels)
		require.Len(t, entries, 1)
		require.NotNil(t, entries[0].FeePerVehicle)
		assert.Equal(t, 55.0, *entries[0].FeePerVehicle)
		assert.Equal(t, *datePtr("2025-01-10"), *entries[0].CollectionDate)
	})

	t.Run("one entry per address", func(t *testing.T) {
		addressB := uuid.New()
		rows := []model.VehicleCollection{
			{ClientID: clientID, PickupAddressID: addressA, CollectionDate: datePtr("2025-01-01"), Status: model.CollectionStatusApproved},
			{ClientID: clientID, PickupAddressID: addressB, CollectionDate: datePtr("2025-01-02"), Status: model.CollectionStatusApproved},
			{ClientID: clientID, PickupAddressID: addressA, CollectionDate: datePtr("2025-01-03"), Status: model.CollectionStatusApproved},
		}

		entries := historyFromCollections(rows, map[uuid.UUID]string{addressA: "A", addressB: "B"})
		assert.Len(t, entries, 2)
	})
}

func TestHistoryFromRecords(t *testing.T) {
	addressA := uuid.New()
	records := []model.CollectionHistoryRecord{
		{
			PickupAddressID:   &addressA,
			CollectionAddress: "snapshot label",
			CollectionDate:    datePtr("2025-01-01"),
			FeePerVehicle:     feePtr(42),
			VehicleCount:      4,
			Status:            "approved",
		},
	}

	entries := historyFromRecords(records, map[uuid.UUID]string{addressA: "Rua A, 1 - São Paulo"})
	require.Len(t, entries, 1)
	assert.Equal(t, "Rua A, 1 - São Paulo", entries[0].AddressLabel)
	assert.Equal(t, "approved", entries[0].Status)
	assert.Equal(t, int64(4), entries[0].VehicleCount)
}

func TestEnrichHistory(t *testing.T) {
	clientID := uuid.New()
	addressA := uuid.New()

	entry := func(status string) model.HistoryEntry {
		return model.HistoryEntry{
			AddressID:      &addressA,
			AddressLabel:   "Rua A, 1 - São Paulo",
			CollectionDate: datePtr("2025-01-05"),
			Status:         status,
		}
	}

	t.Run("plurality vote fills empty status", func(t *testing.T) {
		vehicles := []model.Vehicle{
			vehicleAt(clientID, addressA, model.VehicleStatusAwaitingCollection, "CCC3C33", "2025-01-05"),
			vehicleAt(clientID, addressA, model.VehicleStatusAwaitingCollection, "AAA1A11", "2025-01-05"),
			vehicleAt(clientID, addressA, model.VehicleStatusDateChangeRequest, "BBB2B22", "2025-01-05"),
		}

		entries := enrichHistory([]model.HistoryEntry{entry("")}, vehicles)
		require.Len(t, entries, 1)
		assert.Equal(t, string(model.VehicleStatusAwaitingCollection), entries[0].Status)
		assert.Equal(t, []string{"AAA1A11", "BBB2B22", "CCC3C33"}, entries[0].Plates)
		assert.Equal(t, int64(3), entries[0].VehicleCount)
	})

	t.Run("tie breaks lexicographically", func(t *testing.T) {
		vehicles := []model.Vehicle{
			vehicleAt(clientID, addressA, model.VehicleStatusDateChangeRequest, "AAA1A11", "2025-01-05"),
			vehicleAt(clientID, addressA, model.VehicleStatusAwaitingCollection, "BBB2B22", "2025-01-05"),
		}

		entries := enrichHistory([]model.HistoryEntry{entry("")}, vehicles)
		require.Len(t, entries, 1)
		// AGUARDANDO COLETA < SOLICITAÇÃO DE MUDANÇA DE DATA
		assert.Equal(t, string(model.VehicleStatusAwaitingCollection), entries[0].Status)
	})

	t.Run("explicit status preserved verbatim", func(t *testing.T) {
		vehicles := []model.Vehicle{
			vehicleAt(clientID, addressA, model.VehicleStatusDateChangeRequest, "AAA1A11", "2025-01-05"),
		}

		entries := enrichHistory([]model.HistoryEntry{entry("approved")}, vehicles)
		require.Len(t, entries, 1)
		assert.Equal(t, "approved", entries[0].Status)
		assert.Equal(t, []string{"AAA1A11"}, entries[0].Plates)
	})

	t.Run("no matching vehicles leaves entry untouched", func(t *testing.T) {
		entries := enrichHistory([]model.HistoryEntry{entry("")}, nil)
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].Plates)
		assert.Equal(t, "", entries[0].Status)
	})
}
