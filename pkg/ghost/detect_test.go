package ghost_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CoreyChen922/LuminanceHDR/pkg/ghost"
	"github.com/CoreyChen922/LuminanceHDR/pkg/hstack"
)

func colorExposure(path string, w, h int, r, g, b, expotime float64) *hstack.Exposure {
	e := hstack.NewExposure(path, w, h, hstack.MDRInput)
	e.R.Fill(r)
	e.G.Fill(g)
	e.B.Fill(b)
	e.ExposureTime = expotime
	e.RebuildPreview()
	return e
}

func grayExposure(path string, w, h int, val, expotime float64) *hstack.Exposure {
	return colorExposure(path, w, h, val, val, val, expotime)
}

func buildSet(t *testing.T, exposures ...*hstack.Exposure) *hstack.ExposureSet {
	set := hstack.NewExposureSet()
	for _, e := range exposures {
		assert.NoError(t, set.Append(e))
	}
	return set
}

func TestDetectIdenticalFramesFlagsNothing(t *testing.T) {
	set := buildSet(t,
		grayExposure("a", 64, 64, 20000, 0.5),
		grayExposure("b", 64, 64, 20000, 0.5))

	res, err := ghost.Detect(set, 0.5)
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Grid.FlagCount())
	assert.InDelta(t, 1.0, res.ScaleFactors[0], 1e-9)
	assert.InDelta(t, 1.0, res.ScaleFactors[1], 1e-9)
}

func TestDetectEmptySet(t *testing.T) {
	_, err := ghost.Detect(hstack.NewExposureSet(), 0.5)
	assert.Error(t, err)
}

func TestDetectTooSmallForGrid(t *testing.T) {
	set := buildSet(t,
		grayExposure("a", 10, 10, 20000, 0.5),
		grayExposure("b", 10, 10, 20000, 0.5))

	_, err := ghost.Detect(set, 0.5)
	assert.ErrorIs(t, err, ghost.ErrDegenerateGrid)
}

func TestDetectPicksHueOutlierAsReference(t *testing.T) {
	// Two agreeing exposures and one with its channels rotated: the
	// rotated one deviates most from the per-pixel hue consensus, so it
	// anchors the correction.
	set := buildSet(t,
		colorExposure("a", 40, 40, 40000, 20000, 10000, 0.5),
		colorExposure("b", 40, 40, 40000, 20000, 10000, 0.5),
		colorExposure("c", 40, 40, 10000, 40000, 20000, 0.5))

	res, err := ghost.Detect(set, 0.5)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.ReferenceIndex)
	assert.Greater(t, res.HueDeviation[2], res.HueDeviation[0])

	// All three share one lightness, so the scale factors are unity.
	for _, sf := range res.ScaleFactors {
		assert.InDelta(t, 1.0, sf, 1e-9)
	}
}

func TestDetectThresholdGatesFlagging(t *testing.T) {
	// 80x80 frame, 2x2 cells. The second exposure disagrees on exactly
	// half the pixels of the 20 top-left-row cells, so those cells sit
	// at an outlier fraction of 0.5.
	a := grayExposure("a", 80, 80, 20000, 0.5)
	b := grayExposure("b", 80, 80, 20000, 0.5)
	for y := 0; y < 2; y++ {
		for x := 0; x < 40; x += 2 {
			b.R.Set(x, y, 30000)
			b.G.Set(x, y, 30000)
			b.B.Set(x, y, 30000)
		}
	}
	b.RebuildPreview()

	set := buildSet(t, a, b)

	res, err := ghost.Detect(set, 0.4)
	assert.NoError(t, err)
	assert.Equal(t, 20, res.Grid.FlagCount())
	assert.True(t, res.Grid.Flagged(0, 0))
	assert.False(t, res.Grid.Flagged(0, 1))

	// Above the cells' outlier fraction, nothing trips.
	res, err = ghost.Detect(set, 0.6)
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Grid.FlagCount())
}

func TestDetectScaleFactorsTrackLightness(t *testing.T) {
	set := buildSet(t,
		grayExposure("bright", 40, 40, 40000, 0.5),
		grayExposure("dim", 40, 40, 10000, 0.5))

	res, err := ghost.Detect(set, 0.99)
	assert.NoError(t, err)

	ref := res.ReferenceIndex
	for i := range res.ScaleFactors {
		assert.InDelta(t, res.AvgLightness[i]/res.AvgLightness[ref], res.ScaleFactors[i], 1e-9)
	}
	assert.InDelta(t, 1.0, res.ScaleFactors[ref], 1e-9)
}

func TestDetectRefusesErroredSet(t *testing.T) {
	set := buildSet(t, grayExposure("a", 40, 40, 20000, 0.5))
	assert.Error(t, set.Append(grayExposure("b", 10, 10, 20000, 0.5)))

	_, err := ghost.Detect(set, 0.5)
	assert.Error(t, err)
}
