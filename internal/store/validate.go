package store

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCropType is returned when a crop type is not in the allowed set.
	ErrInvalidCropType = errors.New("type must be one of: CEREAL, VEGETABLE, FRUIT, LEGUME, TUBER, CASH_CROP")

	// ErrInvalidCropStatus is returned when a crop status is not in the allowed set.
	ErrInvalidCropStatus = errors.New("status must be one of: PLANTED, HARVESTED, SOLD")

	// ErrInvalidQuantity is returned when a crop quantity is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrHarvestBeforePlanting is returned when a harvest date precedes the planting date.
	ErrHarvestBeforePlanting = errors.New("harvest date must be on or after planting date")

	// ErrInvalidRole is returned when a role is neither ADMIN nor FARMER.
	ErrInvalidRole = errors.New("role must be ADMIN or FARMER")
)

// Crop types.
const (
	CropTypeCereal    = "CEREAL"
	CropTypeVegetable = "VEGETABLE"
	CropTypeFruit     = "FRUIT"
	CropTypeLegume    = "LEGUME"
	CropTypeTuber     = "TUBER"
	CropTypeCashCrop  = "CASH_CROP"
)

// Crop statuses.
const (
	CropStatusPlanted   = "PLANTED"
	CropStatusHarvested = "HARVESTED"
	CropStatusSold      = "SOLD"
)

var cropTypes = map[string]bool{
	CropTypeCereal:    true,
	CropTypeVegetable: true,
	CropTypeFruit:     true,
	CropTypeLegume:    true,
	CropTypeTuber:     true,
	CropTypeCashCrop:  true,
}

var cropStatuses = map[string]bool{
	CropStatusPlanted:   true,
	CropStatusHarvested: true,
	CropStatusSold:      true,
}

// ValidateCropType checks that t is one of the allowed crop types.
func ValidateCropType(t string) error {
	if !cropTypes[t] {
		return ErrInvalidCropType
	}
	return nil
}

// ValidateCropStatus checks that s is one of the allowed crop statuses.
func ValidateCropStatus(s string) error {
	if !cropStatuses[s] {
		return ErrInvalidCropStatus
	}
	return nil
}

// ValidateQuantity checks that q is strictly positive.
func ValidateQuantity(q int) error {
	if q <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// ValidateCropDates checks that harvest, when set, is not before planting.
func ValidateCropDates(planting time.Time, harvest *time.Time) error {
	if harvest != nil && harvest.Before(planting) {
		return ErrHarvestBeforePlanting
	}
	return nil
}

// ValidateRole checks that r is a known principal role.
func ValidateRole(r string) error {
	switch r {
	case RoleAdmin, RoleFarmer:
		return nil
	default:
		return ErrInvalidRole
	}
}
