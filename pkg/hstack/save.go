package hstack

import(
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/tiff"

	"github.com/CoreyChen922/LuminanceHDR/pkg/hmath"
)

// An ExifCopier propagates capture metadata from an original file onto
// a derived one. Side-effecting post-step, external collaborator.
type ExifCopier interface {
	CopyExifData(src, dst string) error
}

type NopExifCopier struct{}

func (NopExifCopier)CopyExifData(src, dst string) error { return nil }

// SaveExposures writes every exposure as a 16-bit TIFF named
// <prefix>_<idx>.tiff, copying each original's EXIF onto its output.
func (s *ExposureSet)SaveExposures(prefix string, ec ExifCopier, nt Notifier) error {
	if nt == nil { nt = NopNotifier{} }

	for idx, e := range s.Items {
		fname := fmt.Sprintf("%s_%d.tiff", prefix, idx)

		if err := writeTIFF16(e, fname); err != nil {
			return fmt.Errorf("save %s: %v", fname, err)
		}
		if err := ec.CopyExifData(e.Path, fname); err != nil {
			return fmt.Errorf("exif copy %s -> %s: %v", e.Path, fname, err)
		}
	}

	nt.ImagesSaved()
	return nil
}

func writeTIFF16(e *Exposure, filename string) error {
	width, height := e.Dx(), e.Dy()
	img := image.NewRGBA64(image.Rect(0, 0, width, height))

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			img.SetRGBA64(x, y, color.RGBA64{
				R: uint16(hmath.Clamp(e.R.Get(x, y), 0, 65535)),
				G: uint16(hmath.Clamp(e.G.Get(x, y), 0, 65535)),
				B: uint16(hmath.Clamp(e.B.Get(x, y), 0, 65535)),
				A: 0xFFFF,
			})
		}
	}

	writer, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer writer.Close()

	return tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
}
