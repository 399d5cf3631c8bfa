package domain

import (
	"fmt"
	"strings"
)

// BloodType is one of the eight ABO/Rh categories.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// BloodTypes lists every accepted category in display order.
var BloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

// ParseBloodType accepts the category case-insensitively, e.g. "ab+" or " O- ".
func ParseBloodType(s string) (BloodType, error) {
	candidate := BloodType(strings.ToUpper(strings.TrimSpace(s)))
	for _, bt := range BloodTypes {
		if bt == candidate {
			return bt, nil
		}
	}
	return "", fmt.Errorf("%w: invalid blood type %q", ErrValidation, s)
}
