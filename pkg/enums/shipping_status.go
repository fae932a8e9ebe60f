package enums

import "fmt"

// ShippingStatus tracks delivery progress of a bought basket.
type ShippingStatus string

const (
	ShippingStatusDelivered  ShippingStatus = "Delivered"
	ShippingStatusInProgress ShippingStatus = "In Progress"
)

var validShippingStatuses = []ShippingStatus{
	ShippingStatusDelivered,
	ShippingStatusInProgress,
}

// String implements fmt.Stringer.
func (s ShippingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShippingStatus.
func (s ShippingStatus) IsValid() bool {
	for _, candidate := range validShippingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShippingStatus converts raw input into a ShippingStatus.
func ParseShippingStatus(value string) (ShippingStatus, error) {
	for _, candidate := range validShippingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping status %q", value)
}

// ShippingStatuses returns every known ShippingStatus in declaration order.
func ShippingStatuses() []ShippingStatus {
	return append([]ShippingStatus(nil), validShippingStatuses...)
}
