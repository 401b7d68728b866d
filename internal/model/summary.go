package model

import (
	"time"

	"github.com/google/uuid"
)

// CollectionGroup is one (pickup address, estimated arrival date) group of a
// client's vehicles, the unit of a collection point request.
type CollectionGroup struct {
	AddressID       uuid.UUID        `json:"address_id"`
	AddressLabel    string           `json:"address_label"`
	CollectionDate  *time.Time       `json:"collection_date"`
	VehicleCount    int64            `json:"vehicle_count"`
	FeePerVehicle   *float64         `json:"fee_per_vehicle"`
	StatusBreakdown map[string]int64 `json:"status_breakdown,omitempty"`
}

// HistoryEntry is one finalized collection cycle, enriched with the vehicles
// currently matching its address and date.
type HistoryEntry struct {
	AddressID       *uuid.UUID       `json:"address_id"`
	AddressLabel    string           `json:"address_label"`
	CollectionDate  *time.Time       `json:"collection_date"`
	FeePerVehicle   *float64         `json:"fee_per_vehicle"`
	VehicleCount    int64            `json:"vehicle_count"`
	Status          string           `json:"status"`
	Plates          []string         `json:"plates,omitempty"`
	StatusBreakdown map[string]int64 `json:"status_breakdown,omitempty"`
}

// ClientContract is the contract-terms block of the summary, nil when the
// client lookup fails.
type ClientContract struct {
	CompanyName  string  `json:"company_name"`
	OperationFee float64 `json:"operation_fee"`
	FipePercent  float64 `json:"fipe_percent"`
	ParkingDaily float64 `json:"parking_daily"`
	MileageRate  float64 `json:"mileage_rate"`
}

// CollectionsSummary is the aggregate consumed by the admin overview page.
type CollectionsSummary struct {
	ClientID         uuid.UUID         `json:"client_id"`
	PricingGroups    []CollectionGroup `json:"pricing_groups"`
	PendingGroups    []CollectionGroup `json:"pending_groups"`
	PendingTotal     float64           `json:"pending_total"`
	ApprovedGroups   []CollectionGroup `json:"approved_groups"`
	ApprovedTotal    float64           `json:"approved_total"`
	RescheduleGroups []CollectionGroup `json:"reschedule_groups"`
	Contract         *ClientContract   `json:"contract"`
	StatusTotals     map[string]int64  `json:"status_totals"`
	History          []HistoryEntry    `json:"history"`
}

// FinanceOverviewRow aggregates revenue for one client.
type FinanceOverviewRow struct {
	ClientID          uuid.UUID `json:"client_id"`
	CompanyName       string    `json:"company_name"`
	CollectionCount   int64     `json:"collection_count"`
	VehicleCount      int64     `json:"vehicle_count"`
	CollectionRevenue float64   `json:"collection_revenue"`
	OperationRevenue  float64   `json:"operation_revenue"`
	TotalRevenue      float64   `json:"total_revenue"`
}

type FinanceOverview struct {
	PeriodStart time.Time            `json:"period_start"`
	PeriodEnd   time.Time            `json:"period_end"`
	Rows        []FinanceOverviewRow `json:"rows"`
	Total       float64              `json:"total"`
}
