package enums

import "fmt"

// BasketStatus is the lifecycle stage of a generated basket.
type BasketStatus string

const (
	BasketStatusCurrent BasketStatus = "CURRENT"
	BasketStatusSaved   BasketStatus = "SAVED"
	BasketStatusBought  BasketStatus = "BOUGHT"
)

var validBasketStatuses = []BasketStatus{
	BasketStatusCurrent,
	BasketStatusSaved,
	BasketStatusBought,
}

// String implements fmt.Stringer.
func (b BasketStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BasketStatus.
func (b BasketStatus) IsValid() bool {
	for _, candidate := range validBasketStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBasketStatus converts raw input into a BasketStatus.
func ParseBasketStatus(value string) (BasketStatus, error) {
	for _, candidate := range validBasketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid basket status %q", value)
}

// BasketStatuses returns every known BasketStatus in declaration order.
func BasketStatuses() []BasketStatus {
	return append([]BasketStatus(nil), validBasketStatuses...)
}
