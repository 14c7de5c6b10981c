package munsell

import (
	"fmt"
)

var _ = fmt.Print

// DomainError reports an input outside the range its quantity is defined on.
// The operation that returns it has not produced a result.
type DomainError struct {
	Quantity string
	Value    float64
	Min, Max float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s %.6g is outside the valid range [%g, %g]", e.Quantity, e.Value, e.Min, e.Max)
}

func domainError(quantity string, value, min, max float64) error {
	return &DomainError{Quantity: quantity, Value: value, Min: min, Max: max}
}

// GamutError reports a renotation lookup at a hue and value with no measured
// samples at all. Lookups that merely pass the outermost tabulated chroma are
// extrapolated and do not produce this error.
type GamutError struct {
	Hue    float64
	Code   HueFamily
	Value  float64
	Chroma float64
}

func (e *GamutError) Error() string {
	return fmt.Sprintf("no renotation data near %g%s %g/%g", e.Hue, e.Code, e.Value, e.Chroma)
}
