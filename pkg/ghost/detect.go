package ghost

import(
	"log"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/CoreyChen922/LuminanceHDR/pkg/hcolor"
	"github.com/CoreyChen922/LuminanceHDR/pkg/hstack"
)

// A Result is what one detection run produces: which exposure anchors
// the correction, which cells look ghosted, and how much to rescale
// each exposure's lightness toward the anchor's.
type Result struct {
	ReferenceIndex int
	Grid           *PatchGrid
	ScaleFactors   []float64  // avgLightness[i] / avgLightness[reference]

	// Diagnostics
	HueDeviation   []float64  // per-exposure hue-variance score HE
	AvgLightness   []float64
}

// Detect partitions the frames into the patch grid, picks the
// reference exposure (the one whose hue deviates most from the
// cross-exposure consensus - a heuristic, kept as-is), and flags every
// cell whose exposure-ratio residuals look like scene motion.
// threshold is the outlier fraction above which a cell is flagged.
func Detect(set *hstack.ExposureSet, threshold float64) (*Result, error) {
	if err := set.Err(); err != nil {
		return nil, errors.Wrap(err, "detect")
	}
	n := set.Len()
	if n == 0 {
		return nil, errors.New("detect: empty exposure set")
	}

	width, height := set.Dimensions()
	grid, err := newPatchGrid(width, height)
	if err != nil {
		return nil, err
	}

	pixels := make([]hcolor.Pixels, n)
	for i, e := range set.Items {
		pixels[i] = e.Pixels()
	}

	res := &Result{
		Grid:         grid,
		ScaleFactors: make([]float64, n),
		HueDeviation: make([]float64, n),
		AvgLightness: make([]float64, n),
	}

	for i := range pixels {
		res.AvgLightness[i] = hcolor.AverageLightness(pixels[i])
	}

	// The expensive pass: every pixel of every exposure against the
	// per-pixel hue mean of all exposures. The mean needs the full
	// cross-exposure pass before any deviation can be finalized.
	for k := range pixels {
		res.HueDeviation[k] = hueSquaredMean(pixels, k)
	}

	// First index of the max, like the original's argmax scan.
	res.ReferenceIndex = floats.MaxIdx(res.HueDeviation)

	for i := range pixels {
		res.ScaleFactors[i] = res.AvgLightness[i] / res.AvgLightness[res.ReferenceIndex]
	}

	accumulateFlags(grid, pixels, set.ExposureTimes(), res.ReferenceIndex, threshold)

	log.Printf("ghost detect: reference %d, %.1f%% of patches flagged\n",
		res.ReferenceIndex, grid.FlagFraction()*100.0)

	return res, nil
}

// hueSquaredMean scores exposure k's hue against the per-pixel mean
// hue across all exposures, averaged over the frame.
func hueSquaredMean(pixels []hcolor.Pixels, k int) float64 {
	width, height := pixels[0].Dx(), pixels[0].Dy()
	hues := make([]float64, len(pixels))

	HS := 0.0
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			for w := range pixels {
				h, _, _ := hcolor.RGBToHSL(pixels[w].RGBAt(x, y))
				hues[w] = h
			}
			hk, _, _ := hcolor.RGBToHSL(pixels[k].RGBAt(x, y))
			H := stat.Mean(hues, nil) - hk
			HS += H * H
		}
	}
	return HS / float64(width*height)
}

// accumulateFlags is the one place flags from different exposure pairs
// meet: a cell flagged against ANY non-reference exposure stays
// flagged, with no record of which pair tripped it. Observed behavior,
// kept exactly.
func accumulateFlags(grid *PatchGrid, pixels []hcolor.Pixels, expotimes []float64, h0 int, threshold float64) {
	for h := range pixels {
		if h == h0 { continue }
		deltaEV := math.Log(expotimes[h0]) - math.Log(expotimes[h])

		for j:=0; j<GridSize; j++ {
			for i:=0; i<GridSize; i++ {
				if comparePatch(pixels[h0], pixels[h], grid, i, j, threshold, deltaEV) {
					grid.flag(i, j)
				}
			}
		}
	}
}

// comparePatch decides whether cell (i,j) of exposure h disagrees with
// the reference beyond what their exposure difference explains. The
// per-channel residual is the log ratio of the two samples minus
// deltaEV; the sign flip keeps it meaningful whichever exposure is the
// brighter one. A pixel is an outlier when any channel's |residual|
// exceeds 0.7*|deltaEV|.
func comparePatch(ref, other hcolor.Pixels, grid *PatchGrid, i, j int, threshold, deltaEV float64) bool {
	b := grid.CellBounds(i, j)
	bound := 0.7 * math.Abs(deltaEV)

	count := 0
	for y:=b.Min.Y; y<b.Max.Y; y++ {
		for x:=b.Min.X; x<b.Max.X; x++ {
			r1, g1, b1 := ref.RGBAt(x, y)
			r2, g2, b2 := other.RGBAt(x, y)

			var lr, lg, lb float64
			if deltaEV < 0 {
				lr = math.Log(r1) - math.Log(r2) - deltaEV
				lg = math.Log(g1) - math.Log(g2) - deltaEV
				lb = math.Log(b1) - math.Log(b2) - deltaEV
			} else {
				lr = math.Log(r2) - math.Log(r1) + deltaEV
				lg = math.Log(g2) - math.Log(g1) + deltaEV
				lb = math.Log(b2) - math.Log(b1) + deltaEV
			}

			if math.Abs(lr) > bound || math.Abs(lg) > bound || math.Abs(lb) > bound {
				count++
			}
		}
	}

	return float64(count)/float64(b.Dx()*b.Dy()) > threshold
}
