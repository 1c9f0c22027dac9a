package hmath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CoreyChen922/LuminanceHDR/pkg/hmath"
)

func TestPlaneSetGet(t *testing.T) {
	p := hmath.NewPixelPlane(4, 3)
	assert.Equal(t, 4, p.Dx())
	assert.Equal(t, 3, p.Dy())

	p.Set(2, 1, 123.5)
	assert.Equal(t, 123.5, p.Get(2, 1))
	assert.Equal(t, 0.0, p.Get(0, 0))
}

func TestPlaneFillMinMax(t *testing.T) {
	p := hmath.NewPixelPlane(3, 3)
	p.Fill(7.0)
	p.Set(1, 1, 42.0)
	p.Set(2, 2, -1.0)

	min, max := p.MinMax()
	assert.Equal(t, -1.0, min)
	assert.Equal(t, 42.0, max)
}

func TestPlaneCopyIsIndependent(t *testing.T) {
	p := hmath.NewPixelPlane(2, 2)
	p.Fill(5.0)

	p2 := p.Copy()
	p2.Set(0, 0, 99.0)

	assert.Equal(t, 5.0, p.Get(0, 0))
	assert.Equal(t, 99.0, p2.Get(0, 0))
}

func TestPlaneShift(t *testing.T) {
	p := hmath.NewPixelPlane(3, 3)
	p.Set(0, 0, 1.0)
	p.Set(1, 1, 2.0)

	p2 := p.Shift(1, 1)
	assert.Equal(t, 1.0, p2.Get(1, 1))
	assert.Equal(t, 2.0, p2.Get(2, 2))
	assert.Equal(t, 0.0, p2.Get(0, 0)) // uncovered border zero-fills
}

func TestPlaneCrop(t *testing.T) {
	p := hmath.NewPixelPlane(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			p.Set(x, y, float64(10*y+x))
		}
	}

	p2 := p.Crop(1, 1, 3, 3)
	assert.Equal(t, 2, p2.Dx())
	assert.Equal(t, 2, p2.Dy())
	assert.Equal(t, 11.0, p2.Get(0, 0))
	assert.Equal(t, 22.0, p2.Get(1, 1))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, hmath.Clamp(-3.0, 0, 65535))
	assert.Equal(t, 65535.0, hmath.Clamp(70000.0, 0, 65535))
	assert.Equal(t, 100.0, hmath.Clamp(100.0, 0, 65535))
}
