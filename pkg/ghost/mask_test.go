package ghost_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CoreyChen922/LuminanceHDR/pkg/ghost"
)

func TestPaintCircle(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 32, 32))

	ghost.PaintCircle(mask, 16, 16, 6, 200, false)
	assert.Equal(t, uint8(200), mask.AlphaAt(16, 16).A)
	assert.Equal(t, uint8(200), mask.AlphaAt(13, 16).A)
	assert.Equal(t, uint8(0), mask.AlphaAt(0, 0).A)
	assert.Equal(t, uint8(0), mask.AlphaAt(16, 30).A)

	// Erasing paints the coverage back to transparent.
	ghost.PaintCircle(mask, 16, 16, 6, 200, true)
	assert.Equal(t, uint8(0), mask.AlphaAt(16, 16).A)
}

func TestPaintStroke(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 32, 32))

	ghost.PaintStroke(mask, image.Pt(4, 16), image.Pt(28, 16), 2, 255, false)
	assert.Equal(t, uint8(255), mask.AlphaAt(16, 16).A)
	assert.Equal(t, uint8(255), mask.AlphaAt(4, 16).A)
	assert.Equal(t, uint8(0), mask.AlphaAt(16, 2).A)
}
