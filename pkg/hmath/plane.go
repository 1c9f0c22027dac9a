package hmath

import(
	"fmt"
	"math"
)

// A PixelPlane is a single channel of image samples, stored as a flat
// grid of floats. Both 8-bit and 16-bit inputs end up in here once
// decoded; samples are kept in the [0, 65535] range either way.
type PixelPlane struct {
	stride int
	values []float64
}

func NewPixelPlane(w, h int) *PixelPlane {
	return &PixelPlane{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (p *PixelPlane)NewFromThis() *PixelPlane    { return NewPixelPlane(p.Dx(), p.Dy()) }
func (p *PixelPlane)Set(x, y int, v float64)     { p.values[p.stride*y + x] = v }
func (p *PixelPlane)Get(x, y int) float64        { return p.values[p.stride*y + x] }
func (p *PixelPlane)Dx() int                     { return p.stride }
func (p *PixelPlane)Dy() int                     { return len(p.values) / p.stride }

func (p *PixelPlane)Copy() *PixelPlane {
	p2 := PixelPlane{stride: p.stride, values: make([]float64, len(p.values))}
	copy(p2.values, p.values)
	return &p2
}

func (p *PixelPlane)Fill(v float64) {
	for i := range p.values {
		p.values[i] = v
	}
}

// Shift moves every sample by (dx,dy), filling the uncovered border
// with zeroes. Used to apply per-exposure alignment offsets.
func (p *PixelPlane)Shift(dx, dy int) *PixelPlane {
	p2 := p.NewFromThis()
	width, height := p.Dx(), p.Dy()

	for y:=0; y<height; y++ {
		sy := y - dy
		if sy < 0 || sy >= height { continue }
		for x:=0; x<width; x++ {
			sx := x - dx
			if sx < 0 || sx >= width { continue }
			p2.Set(x, y, p.Get(sx, sy))
		}
	}

	return p2
}

// Crop returns the samples inside [x0,x1) x [y0,y1) as a new plane.
func (p *PixelPlane)Crop(x0, y0, x1, y1 int) *PixelPlane {
	p2 := NewPixelPlane(x1-x0, y1-y0)
	for y:=y0; y<y1; y++ {
		for x:=x0; x<x1; x++ {
			p2.Set(x-x0, y-y0, p.Get(x, y))
		}
	}
	return p2
}

func (p *PixelPlane)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0 ; i<len(p.values) ; i++ {
		if p.values[i] > max { max = p.values[i] }
		if p.values[i] < min { min = p.values[i] }
	}
	return min, max
}

func (p *PixelPlane)Stats() string {
	min, max := p.MinMax()
	return fmt.Sprintf("plane[%dx%d, vals{%f,%f}]", p.Dx(), p.Dy(), min, max)
}
