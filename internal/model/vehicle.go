package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is the closed set of vehicle lifecycle states. The wire values
// keep the Portuguese labels the portal frontend and the legacy rows use.
type VehicleStatus string

const (
	VehicleStatusRegistered         VehicleStatus = "CADASTRADO"
	VehicleStatusPickupSelected     VehicleStatus = "PONTO DE COLETA SELECIONADO"
	VehicleStatusAwaitingApproval   VehicleStatus = "AGUARDANDO APROVAÇÃO DA COLETA"
	VehicleStatusDateChangeRequest  VehicleStatus = "SOLICITAÇÃO DE MUDANÇA DE DATA"
	VehicleStatusAwaitingCollection VehicleStatus = "AGUARDANDO COLETA"
	VehicleStatusNewDateApproval    VehicleStatus = "APROVAÇÃO NOVA DATA"
	VehicleStatusCollected          VehicleStatus = "COLETADO"
)

var vehicleStatuses = map[VehicleStatus]struct{}{
	VehicleStatusRegistered:         {},
	VehicleStatusPickupSelected:     {},
	VehicleStatusAwaitingApproval:   {},
	VehicleStatusDateChangeRequest:  {},
	VehicleStatusAwaitingCollection: {},
	VehicleStatusNewDateApproval:    {},
	VehicleStatusCollected:          {},
}

// vehicleTransitions enumerates every allowed lifecycle move. Anything not
// listed here is rejected, so a new status cannot silently fall through the
// workflow filters.
var vehicleTransitions = map[VehicleStatus][]VehicleStatus{
	VehicleStatusRegistered:         {VehicleStatusPickupSelected},
	VehicleStatusPickupSelected:     {VehicleStatusPickupSelected, VehicleStatusAwaitingApproval},
	VehicleStatusAwaitingApproval:   {VehicleStatusAwaitingCollection, VehicleStatusDateChangeRequest},
	VehicleStatusDateChangeRequest:  {VehicleStatusNewDateApproval, VehicleStatusAwaitingApproval},
	VehicleStatusNewDateApproval:    {VehicleStatusAwaitingCollection, VehicleStatusDateChangeRequest},
	VehicleStatusAwaitingCollection: {VehicleStatusCollected, VehicleStatusDateChangeRequest},
}

// ParseVehicleStatus validates a raw status label against the closed set.
func ParseVehicleStatus(raw string) (VehicleStatus, error) {
	status := VehicleStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := vehicleStatuses[status]; !ok {
		return "", fmt.Errorf("unknown vehicle status %q", raw)
	}
	return status, nil
}

func (s VehicleStatus) Valid() bool {
	_, ok := vehicleStatuses[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s VehicleStatus) CanTransitionTo(next VehicleStatus) bool {
	for _, allowed := range vehicleTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Vehicle struct {
	ID                   uuid.UUID
	ClientID             uuid.UUID
	Plate                string
	Model                string
	Status               VehicleStatus
	PickupAddressID      *uuid.UUID
	EstimatedArrivalDate *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
