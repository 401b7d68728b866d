package service

import (
	"time"

	"gorm.io/gorm"
)

var errNotFoundRecord = gorm.ErrRecordNotFound

func feePtr(value float64) *float64 { return &value }

func datePtr(value string) *time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &parsed
}
