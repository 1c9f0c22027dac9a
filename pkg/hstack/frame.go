package hstack

import(
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/CoreyChen922/LuminanceHDR/pkg/hcolor"
	"github.com/CoreyChen922/LuminanceHDR/pkg/hmath"
)

// InputKind says what the exposure was decoded from. A set may only
// hold one kind; it is fixed by the first exposure that arrives.
type InputKind int

const(
	UnknownInput InputKind = iota
	LDRInput  // 8-bit origin
	MDRInput  // wider-range origin (16-bit TIFF etc)
)

func (k InputKind)String() string {
	switch k {
	case LDRInput: return "LDR"
	case MDRInput: return "MDR"
	}
	return "unknown"
}

// An Exposure is one input photo: three planar float channels in
// [0, 65535], an interleaved 8-bit preview kept pixel-aligned with
// them, and the exposure metadata the fusion stage needs.
type Exposure struct {
	Path          string
	R, G, B      *hmath.PixelPlane
	Preview      *image.RGBA

	ExposureTime  float64  // seconds; -1 means the metadata was unreadable
	AvgLuminance  float64  // scalar summary, diagnostics + EV source only
	Kind          InputKind
	Valid         bool
}

func NewExposure(path string, w, h int, kind InputKind) *Exposure {
	return &Exposure{
		Path:         path,
		R:            hmath.NewPixelPlane(w, h),
		G:            hmath.NewPixelPlane(w, h),
		B:            hmath.NewPixelPlane(w, h),
		Preview:      image.NewRGBA(image.Rect(0, 0, w, h)),
		ExposureTime: -1,
		AvgLuminance: -1,
		Kind:         kind,
		Valid:        true,
	}
}

func (e *Exposure)Dx() int { return e.R.Dx() }
func (e *Exposure)Dy() int { return e.R.Dy() }

func (e *Exposure)Filename() string { return filepath.Base(e.Path) }

// EV is log2 of the exposure time; NaN while the time is unknown.
func (e *Exposure)EV() float64 {
	if e.ExposureTime <= 0 { return math.NaN() }
	return math.Log2(e.ExposureTime)
}

func (e *Exposure)String() string {
	return fmt.Sprintf("%s: %s %dx%d, t=%.5fs, avgLum=%.1f",
		e.Filename(), e.Kind, e.Dx(), e.Dy(), e.ExposureTime, e.AvgLuminance)
}

// Pixels exposes the planar channels through the accessor abstraction.
func (e *Exposure)Pixels() hcolor.MutablePixels { return planarPixels{e} }

// PreviewPixels exposes the 8-bit preview through the same abstraction,
// with samples scaled into the planar [0, 65535] domain.
func (e *Exposure)PreviewPixels() hcolor.MutablePixels { return previewPixels{e} }

// RebuildPreview re-derives the 8-bit preview from the planes. Call it
// after anything mutates the planes, so both views stay pixel-aligned.
func (e *Exposure)RebuildPreview() {
	width, height := e.Dx(), e.Dy()
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			i := e.Preview.PixOffset(x, y)
			e.Preview.Pix[i+0] = uint8(hmath.Clamp(e.R.Get(x, y)/257.0, 0, 255))
			e.Preview.Pix[i+1] = uint8(hmath.Clamp(e.G.Get(x, y)/257.0, 0, 255))
			e.Preview.Pix[i+2] = uint8(hmath.Clamp(e.B.Get(x, y)/257.0, 0, 255))
			e.Preview.Pix[i+3] = 0xFF
		}
	}
}

type planarPixels struct {
	e *Exposure
}

func (p planarPixels)Dx() int { return p.e.Dx() }
func (p planarPixels)Dy() int { return p.e.Dy() }

func (p planarPixels)RGBAt(x, y int) (float64, float64, float64) {
	return p.e.R.Get(x, y), p.e.G.Get(x, y), p.e.B.Get(x, y)
}

func (p planarPixels)SetRGB(x, y int, r, g, b float64) {
	p.e.R.Set(x, y, r)
	p.e.G.Set(x, y, g)
	p.e.B.Set(x, y, b)
}

type previewPixels struct {
	e *Exposure
}

func (p previewPixels)Dx() int { return p.e.Dx() }
func (p previewPixels)Dy() int { return p.e.Dy() }

func (p previewPixels)RGBAt(x, y int) (float64, float64, float64) {
	i := p.e.Preview.PixOffset(x, y)
	return float64(p.e.Preview.Pix[i+0]) * 257.0,
		float64(p.e.Preview.Pix[i+1]) * 257.0,
		float64(p.e.Preview.Pix[i+2]) * 257.0
}

func (p previewPixels)SetRGB(x, y int, r, g, b float64) {
	i := p.e.Preview.PixOffset(x, y)
	p.e.Preview.Pix[i+0] = uint8(hmath.Clamp(r/257.0, 0, 255))
	p.e.Preview.Pix[i+1] = uint8(hmath.Clamp(g/257.0, 0, 255))
	p.e.Preview.Pix[i+2] = uint8(hmath.Clamp(b/257.0, 0, 255))
	p.e.Preview.Pix[i+3] = 0xFF
}
