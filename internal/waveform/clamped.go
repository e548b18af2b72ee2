package waveform

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a bounded value is built with max <= min.
var ErrInvalidRange = errors.New("invalid range")

// Clamped is an integer held within [min, max].
type Clamped struct {
	value, min, max int
}

// NewClamped clamps value into [min, max]. min must be strictly less than max.
func NewClamped(value, min, max int) (Clamped, error) {
	if max <= min {
		return Clamped{}, fmt.Errorf("%w: min %d must be less than max %d", ErrInvalidRange, min, max)
	}
	return Clamped{value: clamp(value, min, max), min: min, max: max}, nil
}

func (c Clamped) Value() int { return c.value }
func (c Clamped) Min() int   { return c.min }
func (c Clamped) Max() int   { return c.max }

// Inc adds one, saturating at max, and returns the new value.
func (c *Clamped) Inc() int {
	c.value = min(c.max, c.value+1)
	return c.value
}

// Dec subtracts one, saturating at min, and returns the new value.
func (c *Clamped) Dec() int {
	c.value = max(c.min, c.value-1)
	return c.value
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
