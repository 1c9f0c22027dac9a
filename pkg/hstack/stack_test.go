package hstack_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CoreyChen922/LuminanceHDR/pkg/hstack"
)

func TestAppendFixesKindAndGeometry(t *testing.T) {
	set := hstack.NewExposureSet()
	assert.Equal(t, hstack.UnknownInput, set.Kind)

	e1 := hstack.NewExposure("a", 8, 8, hstack.LDRInput)
	assert.NoError(t, set.Append(e1))
	assert.Equal(t, hstack.LDRInput, set.Kind)

	e2 := hstack.NewExposure("b", 8, 8, hstack.MDRInput)
	assert.ErrorIs(t, set.Append(e2), hstack.ErrTypeMismatch)
	assert.Equal(t, 1, set.Len())

	set.ClearError()
	e3 := hstack.NewExposure("c", 16, 8, hstack.LDRInput)
	assert.ErrorIs(t, set.Append(e3), hstack.ErrSizeMismatch)
	assert.Equal(t, 1, set.Len())
}

func TestAppendCreatesTransparentMask(t *testing.T) {
	set := hstack.NewExposureSet()
	assert.NoError(t, set.Append(hstack.NewExposure("a", 4, 4, hstack.LDRInput)))

	assert.Len(t, set.GhostMasks, 1)
	mask := set.GhostMasks[0]
	assert.Equal(t, image.Rect(0, 0, 4, 4), mask.Rect)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, uint8(0), mask.AlphaAt(x, y).A)
		}
	}
}

func TestRemoveAndReset(t *testing.T) {
	set := hstack.NewExposureSet()
	assert.NoError(t, set.Append(hstack.NewExposure("a", 4, 4, hstack.LDRInput)))
	assert.NoError(t, set.Append(hstack.NewExposure("b", 4, 4, hstack.LDRInput)))
	assert.NoError(t, set.Append(hstack.NewExposure("c", 4, 4, hstack.LDRInput)))

	set.Remove(1)
	assert.Equal(t, 2, set.Len())
	assert.Len(t, set.GhostMasks, 2)
	assert.Equal(t, "a", set.Items[0].Path)
	assert.Equal(t, "c", set.Items[1].Path)

	set.Reset()
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, hstack.UnknownInput, set.Kind)
	assert.False(t, set.Contains("a"))
}

func TestApplyShifts(t *testing.T) {
	set := hstack.NewExposureSet()
	e := hstack.NewExposure("a", 4, 4, hstack.MDRInput)
	e.R.Set(0, 0, 100)
	e.G.Set(0, 0, 100)
	e.B.Set(0, 0, 100)
	assert.NoError(t, set.Append(e))

	assert.Error(t, set.ApplyShifts([]image.Point{})) // count mismatch

	assert.NoError(t, set.ApplyShifts([]image.Point{{X: 1, Y: 2}}))
	assert.Equal(t, 100.0, set.Items[0].R.Get(1, 2))
	assert.Equal(t, 0.0, set.Items[0].R.Get(0, 0))
}

func TestCropAll(t *testing.T) {
	set := hstack.NewExposureSet()
	e := hstack.NewExposure("a", 8, 8, hstack.MDRInput)
	e.R.Fill(500)
	e.G.Fill(500)
	e.B.Fill(500)
	assert.NoError(t, set.Append(e))
	set.GhostMasks[0].SetAlpha(3, 3, color.Alpha{A: 200})

	set.CropAll(image.Rect(2, 2, 6, 6))

	w, h := set.Dimensions()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, 500.0, set.Items[0].R.Get(0, 0))

	// The painted mask pixel moves with the crop.
	assert.Equal(t, uint8(200), set.GhostMasks[0].AlphaAt(1, 1).A)
	assert.Equal(t, uint8(0), set.GhostMasks[0].AlphaAt(3, 3).A)
}
