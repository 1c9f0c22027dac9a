package ghost

import(
	"github.com/pkg/errors"

	"github.com/CoreyChen922/LuminanceHDR/pkg/hcolor"
	"github.com/CoreyChen922/LuminanceHDR/pkg/hmath"
	"github.com/CoreyChen922/LuminanceHDR/pkg/hstack"
)

// Correct overwrites every flagged cell of every non-reference
// exposure with the reference's pixels, lightness rescaled by that
// exposure's scale factor. Hue and saturation come through untouched.
// Mutates the set's planes in place; previews are rebuilt afterwards.
func Correct(set *hstack.ExposureSet, res *Result) error {
	if err := set.Err(); err != nil {
		return errors.Wrap(err, "correct")
	}
	if res.ReferenceIndex < 0 || res.ReferenceIndex >= set.Len() {
		return errors.Errorf("correct: reference index %d outside set of %d", res.ReferenceIndex, set.Len())
	}

	ref := set.Items[res.ReferenceIndex].Pixels()

	for h, e := range set.Items {
		if h == res.ReferenceIndex { continue }

		dst := e.Pixels()
		for j:=0; j<GridSize; j++ {
			for i:=0; i<GridSize; i++ {
				if res.Grid.Flagged(i, j) {
					copyPatch(ref, dst, res.Grid, i, j, res.ScaleFactors[h])
				}
			}
		}
		e.RebuildPreview()
	}

	return nil
}

// copyPatch rescales the reference cell into dst. If the reference
// cell is saturated or black there's no sane rescale target, so the
// cell is left alone.
func copyPatch(ref hcolor.Pixels, dst hcolor.MutablePixels, grid *PatchGrid, i, j int, sf float64) {
	b := grid.CellBounds(i, j)

	avgL := 0.0
	for y:=b.Min.Y; y<b.Max.Y; y++ {
		for x:=b.Min.X; x<b.Max.X; x++ {
			_, _, l := hcolor.RGBToHSL(ref.RGBAt(x, y))
			avgL += l
		}
	}
	avgL /= float64(b.Dx() * b.Dy())
	if avgL >= hcolor.MaxLightness || avgL <= 0.0 {
		return
	}

	for y:=b.Min.Y; y<b.Max.Y; y++ {
		for x:=b.Min.X; x<b.Max.X; x++ {
			h, s, l := hcolor.RGBToHSL(ref.RGBAt(x, y))
			l *= sf
			if l > hcolor.MaxLightness { l = hcolor.MaxLightness }
			r, g, bb := hcolor.HSLToRGB(h, s, l)

			dst.SetRGB(x, y,
				hmath.Clamp(r, 0, hcolor.MaxRGB),
				hmath.Clamp(g, 0, hcolor.MaxRGB),
				hmath.Clamp(bb, 0, hcolor.MaxRGB))
		}
	}
}
