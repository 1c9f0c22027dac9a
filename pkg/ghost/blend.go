package ghost

import(
	"image"
	"math"

	"github.com/pkg/errors"

	"github.com/CoreyChen922/LuminanceHDR/pkg/hcolor"
	"github.com/CoreyChen922/LuminanceHDR/pkg/hmath"
	"github.com/CoreyChen922/LuminanceHDR/pkg/hstack"
)

// ApplyMasks composites the chosen good exposure into every other
// exposure, wherever either the target's own anti-ghosting mask or the
// good exposure's mask was painted. This runs over the full frame -
// the masks gate which pixels change, not the patch grid.
func ApplyMasks(set *hstack.ExposureSet, goodIndex int) error {
	if err := set.Err(); err != nil {
		return errors.Wrap(err, "applyMasks")
	}
	if goodIndex < 0 || goodIndex >= set.Len() {
		return errors.Errorf("applyMasks: good index %d outside set of %d", goodIndex, set.Len())
	}

	source := set.Items[goodIndex].Pixels()
	goodMask := set.GhostMasks[goodIndex]

	for idx, e := range set.Items {
		if idx == goodIndex { continue }
		Blend(e.Pixels(), source, set.GhostMasks[idx], goodMask)
		e.RebuildPreview()
	}

	return nil
}

// Blend alpha-composites source into target. The good-region mask's
// alpha wins where it is nonzero; otherwise the auto mask's alpha is
// used; pixels transparent in both are untouched. The source pixel's
// lightness is first rescaled by the global target/source average
// lightness ratio, clamped to the larger of the two frames' lightness
// ceilings.
func Blend(target, source hcolor.MutablePixels, autoMask, goodMask *image.Alpha) {
	width, height := target.Dx(), target.Dy()

	sf := hcolor.AverageLightness(target) / hcolor.AverageLightness(source)
	maxL := math.Max(hcolor.MaxLightnessOf(target), hcolor.MaxLightnessOf(source))

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			a1 := autoMask.AlphaAt(x, y).A
			a2 := goodMask.AlphaAt(x, y).A
			if a1 == 0 && a2 == 0 { continue }

			var alpha float64
			if a2 == 0 {
				alpha = float64(a1) / 255.0
			} else {
				alpha = float64(a2) / 255.0
			}

			h, s, l := hcolor.RGBToHSL(source.RGBAt(x, y))
			l *= sf
			if l > maxL { l = maxL }
			r2, g2, b2 := hcolor.HSLToRGB(h, s, l)

			r2 = hmath.Clamp(r2, 0, hcolor.MaxRGB)
			g2 = hmath.Clamp(g2, 0, hcolor.MaxRGB)
			b2 = hmath.Clamp(b2, 0, hcolor.MaxRGB)

			r1, g1, b1 := target.RGBAt(x, y)
			target.SetRGB(x, y,
				(1.0-alpha)*r1 + alpha*r2,
				(1.0-alpha)*g1 + alpha*g2,
				(1.0-alpha)*b1 + alpha*b2)
		}
	}
}
