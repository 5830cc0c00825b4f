package core

// Color is an additive RGB accumulator. Channels are nominally in [0,1]
// but sums of several lights or specular peaks may exceed it; nothing is
// clamped until ToRGB8.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Black is the empty accumulator
var Black = Color{}

// Add returns the channel-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Multiply scales every channel by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// MultiplyColor returns the channel-wise product of two colors
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// ToRGB8 converts the accumulator to 8-bit channels. Each channel is scaled
// by 255, clamped to [0,255] and truncated toward zero.
func (c Color) ToRGB8() (r, g, b uint8) {
	return channelToByte(c.R), channelToByte(c.G), channelToByte(c.B)
}

func channelToByte(v float64) uint8 {
	v *= 255
	// NaN fails both comparisons; map it to 0 explicitly
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
