package wire

// Fixed is Wayland's 24.8 signed fixed-point number: the wire carries it
// as a raw 32-bit two's-complement word, and the codec never rounds or
// saturates it — converting to/from float64 is purely a convenience for
// callers.
type Fixed int32

// FixedFromFloat64 converts a float64 to Fixed by truncating to the
// nearest 1/256th.
func FixedFromFloat64(v float64) Fixed {
	return Fixed(v * 256)
}

// Float64 returns the value the fixed-point word represents.
func (f Fixed) Float64() float64 {
	return float64(f) / 256
}

// FixedFromInt produces a Fixed with zero fractional part.
func FixedFromInt(v int32) Fixed {
	return Fixed(v * 256)
}

// Int truncates the fractional part.
func (f Fixed) Int() int32 {
	return int32(f) / 256
}
