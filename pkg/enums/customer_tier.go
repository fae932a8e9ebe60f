package enums

import "fmt"

// CustomerTier is the loyalty level assigned to a customer.
type CustomerTier string

const (
	CustomerTierBronze   CustomerTier = "Bronze"
	CustomerTierSilver   CustomerTier = "Silver"
	CustomerTierGold     CustomerTier = "Gold"
	CustomerTierPlatinum CustomerTier = "Platinum"
)

var validCustomerTiers = []CustomerTier{
	CustomerTierBronze,
	CustomerTierSilver,
	CustomerTierGold,
	CustomerTierPlatinum,
}

// String implements fmt.Stringer.
func (c CustomerTier) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerTier.
func (c CustomerTier) IsValid() bool {
	for _, candidate := range validCustomerTiers {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerTier converts raw input into a CustomerTier.
func ParseCustomerTier(value string) (CustomerTier, error) {
	for _, candidate := range validCustomerTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer tier %q", value)
}

// CustomerTiers returns every known CustomerTier in declaration order.
func CustomerTiers() []CustomerTier {
	return append([]CustomerTier(nil), validCustomerTiers...)
}
