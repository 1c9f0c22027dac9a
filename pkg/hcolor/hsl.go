package hcolor

// RGB <-> HSL conversion, max/min-based sextant formulation.
//
// The formulas are scale-agnostic: they are routinely fed samples in
// the [0, 65535] range, and the round trip still holds because the
// saturation denominator cancels out on the way back. Keep both
// directions exactly in sync - ghost correction converts a pixel, nudges
// lightness, and converts straight back, so any asymmetry shows up as
// color drift in the output.

const(
	// Channel value and lightness ceilings for decoded samples.
	MaxRGB       = 65535.0
	MaxLightness = 65535.0
)

// RGBToHSL returns hue in [0,1), saturation, and lightness in the same
// domain as the inputs. Degenerate inputs (lightness <= 0, or all
// channels equal) come back with hue and saturation exactly 0.
func RGBToHSL(r, g, b float64) (h, s, l float64) {
	v := r
	if g > v { v = g }
	if b > v { v = b }
	m := r
	if g < m { m = g }
	if b < m { m = b }

	l = (m + v) / 2.0
	if l <= 0.0 {
		return 0, 0, l
	}

	vm := v - m
	s = vm
	if s > 0.0 {
		if l <= 0.5 {
			s /= v + m
		} else {
			s /= 2.0 - v - m
		}
	} else {
		return 0, 0, l
	}

	r2 := (v - r) / vm
	g2 := (v - g) / vm
	b2 := (v - b) / vm

	switch {
	case r == v:
		if g == m { h = 5.0 + b2 } else { h = 1.0 - g2 }
	case g == v:
		if b == m { h = 1.0 + r2 } else { h = 3.0 - b2 }
	default:
		if r == m { h = 3.0 + g2 } else { h = 5.0 - r2 }
	}
	h /= 6.0

	return h, s, l
}

// HSLToRGB is the exact inverse of RGBToHSL for non-degenerate inputs.
// A degenerate (h=0, s=0) input reproduces r=g=b=l.
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	r, g, b = l, l, l

	var v float64
	if l <= 0.5 {
		v = l * (1.0 + s)
	} else {
		v = l + s - l*s
	}
	if v <= 0.0 {
		return r, g, b
	}

	m := l + l - v
	sv := (v - m) / v
	h *= 6.0
	sextant := int(h)
	fract := h - float64(sextant)
	vsf := v * sv * fract
	mid1 := m + vsf
	mid2 := v - vsf

	switch sextant {
	case 0: r, g, b = v, mid1, m
	case 1: r, g, b = mid2, v, m
	case 2: r, g, b = m, v, mid1
	case 3: r, g, b = m, mid2, v
	case 4: r, g, b = mid1, m, v
	case 5: r, g, b = v, m, mid2
	}

	return r, g, b
}
