package hstack

import(
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/pkg/errors"

	"github.com/CoreyChen922/LuminanceHDR/pkg/hmath"
)

// The fusion profile triple. The radiance estimator consumes it
// opaquely; we only validate the names.
type(
	WeightFunction string
	ResponseCurve  string
	HDRModel       string
)

const(
	WeightTriangular WeightFunction = "triangular"
	WeightGaussian   WeightFunction = "gaussian"
	WeightPlateau    WeightFunction = "plateau"

	ResponseGamma  ResponseCurve = "gamma"
	ResponseLinear ResponseCurve = "linear"
	ResponseLog10  ResponseCurve = "log10"

	ModelDebevec   HDRModel = "debevec"
	ModelRobertson HDRModel = "robertson"
)

type FuseConfig struct {
	Weights  WeightFunction
	Response ResponseCurve
	Model    HDRModel
}

// The stock profiles, first one is the default.
var PredefinedProfiles = []FuseConfig{
	{WeightTriangular, ResponseGamma,  ModelDebevec},
	{WeightTriangular, ResponseLinear, ModelDebevec},
	{WeightTriangular, ResponseLog10,  ModelDebevec},
	{WeightTriangular, ResponseLinear, ModelRobertson},
	{WeightTriangular, ResponseLog10,  ModelRobertson},
	{WeightPlateau,    ResponseLinear, ModelDebevec},
}

func (c FuseConfig)Validate() error {
	switch c.Weights {
	case WeightTriangular, WeightGaussian, WeightPlateau:
	default:
		return fmt.Errorf("no weight function named '%s'", c.Weights)
	}
	switch c.Response {
	case ResponseGamma, ResponseLinear, ResponseLog10:
	default:
		return fmt.Errorf("no response curve named '%s'", c.Response)
	}
	switch c.Model {
	case ModelDebevec, ModelRobertson:
	default:
		return fmt.Errorf("no HDR model named '%s'", c.Model)
	}
	return nil
}

// A Fuser merges the validated, ghost-corrected exposures into one HDR
// radiance frame. The real estimator is an external collaborator; this
// package only defines the seam.
type Fuser interface {
	Fuse(expotimes []float64, cfg FuseConfig, exposures []*Exposure) (hdr.Image, error)
}

// CreateHDR hands the whole set to the fuser. The set must be healthy
// and non-empty.
func (s *ExposureSet)CreateHDR(f Fuser, cfg FuseConfig) (hdr.Image, error) {
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(ErrSetErrored, "createHDR")
	}
	if s.Len() == 0 {
		return nil, errors.New("createHDR: empty exposure set")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return f.Fuse(s.ExposureTimes(), cfg, s.Items)
}

// A FusedFrame is a planar radiance frame that fusers can return; it
// implements hdr.Image so the mdouchement codecs can write it out.
type FusedFrame struct {
	R, G, B *hmath.PixelPlane
}

func NewFusedFrame(w, h int) *FusedFrame {
	return &FusedFrame{
		R: hmath.NewPixelPlane(w, h),
		G: hmath.NewPixelPlane(w, h),
		B: hmath.NewPixelPlane(w, h),
	}
}

// Implement golang's image.Image interface
func (f *FusedFrame)ColorModel() color.Model { return hdrcolor.RGBModel }
func (f *FusedFrame)Bounds() image.Rectangle { return image.Rect(0, 0, f.R.Dx(), f.R.Dy()) }
func (f *FusedFrame)At(x, y int) color.Color { return f.HDRAt(x, y) }

// Implement hdr.Image
func (f *FusedFrame)HDRAt(x, y int) hdrcolor.Color {
	return hdrcolor.RGB{R: f.R.Get(x, y), G: f.G.Get(x, y), B: f.B.Get(x, y)}
}
func (f *FusedFrame)Size() int { return f.R.Dx() * f.R.Dy() }

func WriteHDR(img hdr.Image, filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()
	return rgbe.Encode(writer, img)
}
