package hstack

import(
	"image"
	"os"

	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"
)

// A Decoder turns a file path into a decoded Exposure. File format
// handling lives behind this interface; the pipeline itself never
// touches codecs.
type Decoder interface {
	Decode(path string) (*Exposure, error)
	AverageLuminance(path string) (float64, error)
}

// TIFFDecoder is the bundled Decoder: TIFF image data via x/image,
// exposure metadata via EXIF. 16-bit inputs become MDR exposures,
// 8-bit ones LDR.
type TIFFDecoder struct{}

func (d TIFFDecoder)Decode(path string) (*Exposure, error) {
	// First pass over the file: the EXIF exposure time. A missing or
	// unreadable tag is not fatal - the exposure joins the "needs a
	// manual EV" list instead.
	expotime := -1.0
	if reader, err := os.Open(path); err != nil {
		return nil, errors.Wrapf(err, "open+r exif '%s'", path)
	} else {
		if ex, err := exif.Decode(reader); err == nil {
			if tag, err := ex.Get(exif.ExposureTime); err == nil {
				if num, denom, err := tag.Rat2(0); err == nil && denom != 0 {
					expotime = float64(num) / float64(denom)
				}
			}
		}
		reader.Close()
	}

	// Second pass: the image data.
	reader, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open+r img '%s'", path)
	}
	defer reader.Close()

	img, err := tiff.Decode(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "tiff loading '%s'", path)
	}

	kind := LDRInput
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		kind = MDRInput
	}

	bounds := img.Bounds()
	e := NewExposure(path, bounds.Dx(), bounds.Dy(), kind)
	e.ExposureTime = expotime

	for y:=bounds.Min.Y; y<bounds.Max.Y; y++ {
		for x:=bounds.Min.X; x<bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			e.R.Set(x-bounds.Min.X, y-bounds.Min.Y, float64(r))
			e.G.Set(x-bounds.Min.X, y-bounds.Min.Y, float64(g))
			e.B.Set(x-bounds.Min.X, y-bounds.Min.Y, float64(b))
		}
	}
	e.RebuildPreview()

	if lum, err := d.AverageLuminance(path); err == nil {
		e.AvgLuminance = lum
	}

	return e, nil
}

// AverageLuminance estimates the scene luminance (cd/m^2) from the
// EXIF exposure triple: L = K * N^2 / (t * S), with the usual
// reflected-light meter constant K=12.5.
func (d TIFFDecoder)AverageLuminance(path string) (float64, error) {
	reader, err := os.Open(path)
	if err != nil {
		return -1, errors.Wrapf(err, "open+r exif '%s'", path)
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return -1, errors.Wrapf(err, "exif parsing '%s'", path)
	}

	fnumber, err := exifRat(ex, exif.FNumber)
	if err != nil {
		return -1, err
	}
	expotime, err := exifRat(ex, exif.ExposureTime)
	if err != nil {
		return -1, err
	}

	iso := 100.0
	if tag, err := ex.Get(exif.ISOSpeedRatings); err == nil {
		if val, err := tag.Int64(0); err == nil {
			iso = float64(val)
		}
	}

	if expotime <= 0 || iso <= 0 {
		return -1, errors.Errorf("exif of '%s' has unusable exposure triple", path)
	}
	return 12.5 * fnumber * fnumber / (expotime * iso), nil
}

func exifRat(ex *exif.Exif, name exif.FieldName) (float64, error) {
	tag, err := ex.Get(name)
	if err != nil {
		return 0, errors.Wrapf(err, "exif %s", name)
	}
	num, denom, err := tag.Rat2(0)
	if err != nil || denom == 0 {
		return 0, errors.Wrapf(err, "exif %s value", name)
	}
	return float64(num) / float64(denom), nil
}
