package ghost

import(
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Mask painting for the manual anti-ghosting flow: brush strokes
// rasterized into the per-exposure alpha masks. Erasing paints alpha
// back to zero.

func PaintCircle(mask *image.Alpha, cx, cy, radius float64, alpha uint8, erase bool) {
	dc := gg.NewContext(mask.Rect.Dx(), mask.Rect.Dy())
	dc.SetRGB(1, 1, 1)
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()
	transferCoverage(mask, dc.Image(), alpha, erase)
}

func PaintStroke(mask *image.Alpha, from, to image.Point, radius float64, alpha uint8, erase bool) {
	dc := gg.NewContext(mask.Rect.Dx(), mask.Rect.Dy())
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(radius * 2)
	dc.SetLineCap(gg.LineCapRound)
	dc.DrawLine(float64(from.X), float64(from.Y), float64(to.X), float64(to.Y))
	dc.Stroke()
	transferCoverage(mask, dc.Image(), alpha, erase)
}

// transferCoverage writes `alpha` (or zero when erasing) into the mask
// wherever the rasterizer painted. The gg context starts out black and
// the brush is white, so any nonzero channel means coverage.
func transferCoverage(mask *image.Alpha, stroke image.Image, alpha uint8, erase bool) {
	if erase { alpha = 0 }

	bounds := mask.Rect
	for y:=bounds.Min.Y; y<bounds.Max.Y; y++ {
		for x:=bounds.Min.X; x<bounds.Max.X; x++ {
			if r, _, _, _ := stroke.At(x-bounds.Min.X, y-bounds.Min.Y).RGBA(); r > 0 {
				mask.SetAlpha(x, y, color.Alpha{A: alpha})
			}
		}
	}
}
