package enums

import "fmt"

// PhotoType classifies evidence photos attached to a mission.
type PhotoType string

const (
	PhotoTypeReceipt PhotoType = "receipt"
	PhotoTypeItem    PhotoType = "item"
	PhotoTypeProof   PhotoType = "proof"
)

var validPhotoTypes = []PhotoType{
	PhotoTypeReceipt,
	PhotoTypeItem,
	PhotoTypeProof,
}

// String implements fmt.Stringer.
func (p PhotoType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PhotoType.
func (p PhotoType) IsValid() bool {
	for _, candidate := range validPhotoTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePhotoType converts raw input into a PhotoType.
func ParsePhotoType(value string) (PhotoType, error) {
	for _, candidate := range validPhotoTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid photo type %q", value)
}
