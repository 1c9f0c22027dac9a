package hcolor

import(
	"github.com/skypies/util/histogram"
)

// AverageLightness is the mean HSL lightness over the whole frame. It
// feeds the per-exposure scale factors, so it has to agree with what
// RGBToHSL produces pixel by pixel.
func AverageLightness(p Pixels) float64 {
	width, height := p.Dx(), p.Dy()

	avg := 0.0
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			_, _, l := RGBToHSL(p.RGBAt(x, y))
			avg += l
		}
	}
	return avg / float64(width*height)
}

func MaxLightnessOf(p Pixels) float64 {
	width, height := p.Dx(), p.Dy()

	max := 0.0
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			_, _, l := RGBToHSL(p.RGBAt(x, y))
			if l > max { max = l }
		}
	}
	return max
}

// LightnessHistogram buckets the frame's lightness values; only used
// for diagnostics output.
func LightnessHistogram(p Pixels) histogram.Histogram {
	hist := histogram.Histogram{NumBuckets: 256, ValMin: 0, ValMax: 65536}

	width, height := p.Dx(), p.Dy()
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			_, _, l := RGBToHSL(p.RGBAt(x, y))
			hist.Add(histogram.ScalarVal(int(l)))
		}
	}
	return hist
}
