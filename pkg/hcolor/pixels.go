package hcolor

// Pixels is the read side of the pixel-accessor abstraction. Both
// storage kinds - planar float channels and the interleaved 8-bit
// preview - implement it, so anything written against Pixels exists
// once rather than once per representation.
type Pixels interface {
	Dx() int
	Dy() int
	RGBAt(x, y int) (r, g, b float64)
}

// MutablePixels adds the write side, for the stages that rescale or
// blend samples in place.
type MutablePixels interface {
	Pixels
	SetRGB(x, y int, r, g, b float64)
}
