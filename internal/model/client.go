package model

import "github.com/google/uuid"

// Client carries the contract terms shown on the admin overview. Read-only
// inputs to the summary pipeline.
type Client struct {
	ProfileID    uuid.UUID
	CompanyName  string
	OperationFee float64
	FipePercent  float64
	ParkingDaily float64
	MileageRate  float64
}
