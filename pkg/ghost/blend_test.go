package ghost_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CoreyChen922/LuminanceHDR/pkg/ghost"
	"github.com/CoreyChen922/LuminanceHDR/pkg/hstack"
)

// Target frame: left half at 5000, right half at 15000, so the frame
// average is 10000 but the probed pixels sit below it.
func halfToneExposure(path string, expotime float64) *hstack.Exposure {
	e := hstack.NewExposure(path, 8, 8, hstack.MDRInput)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := 5000.0
			if x >= 4 {
				v = 15000.0
			}
			e.R.Set(x, y, v)
			e.G.Set(x, y, v)
			e.B.Set(x, y, v)
		}
	}
	e.ExposureTime = expotime
	e.RebuildPreview()
	return e
}

func TestBlendMaskPriority(t *testing.T) {
	target := halfToneExposure("target", 0.5)
	source := grayExposure("source", 8, 8, 20000, 0.25)

	// Global lightness ratio is 10000/20000, so a fully replaced pixel
	// lands at 10000.
	set := buildSet(t, target, source)

	autoMask := set.GhostMasks[0]
	goodMask := set.GhostMasks[1]

	autoMask.SetAlpha(1, 1, color.Alpha{A: 255}) // full replacement
	autoMask.SetAlpha(2, 2, color.Alpha{A: 51})  // 20% blend
	autoMask.SetAlpha(3, 3, color.Alpha{A: 255}) // ...but the good mask wins here
	goodMask.SetAlpha(3, 3, color.Alpha{A: 51})

	ghost.Blend(target.Pixels(), source.Pixels(), autoMask, goodMask)

	r, _, _ := target.Pixels().RGBAt(1, 1)
	assert.InDelta(t, 10000.0, r, 1e-6)

	r, _, _ = target.Pixels().RGBAt(2, 2)
	assert.InDelta(t, 0.8*5000.0+0.2*10000.0, r, 1e-6)

	r, _, _ = target.Pixels().RGBAt(3, 3)
	assert.InDelta(t, 0.8*5000.0+0.2*10000.0, r, 1e-6)

	// Pixels transparent in both masks are untouched.
	r, _, _ = target.Pixels().RGBAt(0, 0)
	assert.Equal(t, 5000.0, r)
	r, _, _ = target.Pixels().RGBAt(7, 7)
	assert.Equal(t, 15000.0, r)
}

func TestApplyMasksCompositesIntoEveryOtherExposure(t *testing.T) {
	e0 := halfToneExposure("e0", 0.5)
	e1 := halfToneExposure("e1", 0.25)
	good := grayExposure("good", 8, 8, 10000, 0.125)

	set := buildSet(t, e0, e1, good)

	// Only e0's own mask is painted; e1 stays untouched everywhere.
	set.GhostMasks[0].SetAlpha(1, 1, color.Alpha{A: 255})

	assert.NoError(t, ghost.ApplyMasks(set, 2))

	r, _, _ := e0.Pixels().RGBAt(1, 1)
	assert.InDelta(t, 10000.0, r, 1e-6) // frame averages match, sf is 1

	r, _, _ = e1.Pixels().RGBAt(1, 1)
	assert.Equal(t, 5000.0, r)

	r, _, _ = good.Pixels().RGBAt(1, 1)
	assert.Equal(t, 10000.0, r)
}

func TestApplyMasksRejectsBadIndex(t *testing.T) {
	set := buildSet(t, grayExposure("a", 8, 8, 20000, 0.5))
	assert.Error(t, ghost.ApplyMasks(set, 3))
	assert.Error(t, ghost.ApplyMasks(set, -1))
}
