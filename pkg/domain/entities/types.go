package entities

import "errors"

// Quantity represents a discrete count of relief units (packets, liters, beds, kits, vehicles)
type Quantity int64

// ErrInvalidQuantity is returned when a snapshot carries a negative quantity
var ErrInvalidQuantity = errors.New("quantity cannot be negative")

// MinQuantity returns the smaller of two quantities
func MinQuantity(a, b Quantity) Quantity {
	if a < b {
		return a
	}
	return b
}
