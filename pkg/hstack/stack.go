package hstack

import(
	"fmt"
	"image"

	"github.com/pkg/errors"
)

// An ExposureSet owns the exposures being prepared for fusion, plus one
// anti-ghosting alpha mask per exposure. Item order is request order;
// the index into Items is the "exposure index" everything else refers
// to. The set is the single owner of its items - detection and
// correction borrow them, never take them.
type ExposureSet struct {
	Kind        InputKind
	Items       []*Exposure
	GhostMasks  []*image.Alpha

	err error  // consistency failure; while set, mutation is refused
}

func NewExposureSet() *ExposureSet {
	return &ExposureSet{
		Items:      []*Exposure{},
		GhostMasks: []*image.Alpha{},
	}
}

func (s *ExposureSet)Len() int { return len(s.Items) }

// Err reports the consistency failure the set is stuck on, if any.
func (s *ExposureSet)Err() error { return s.err }

func (s *ExposureSet)fail(err error) { s.err = err }

// ClearError lets the caller resume after a consistency failure.
// Items merged before the failure stay intact and inspectable.
func (s *ExposureSet)ClearError() { s.err = nil }

// Reset empties the set entirely.
func (s *ExposureSet)Reset() {
	s.Kind = UnknownInput
	s.Items = s.Items[:0]
	s.GhostMasks = s.GhostMasks[:0]
	s.err = nil
}

func (s *ExposureSet)Contains(path string) bool {
	for _, e := range s.Items {
		if e.Path == path { return true }
	}
	return false
}

// Dimensions of the exposures; only meaningful once the set is non-empty.
func (s *ExposureSet)Dimensions() (int, int) {
	if len(s.Items) == 0 { return 0, 0 }
	return s.Items[0].Dx(), s.Items[0].Dy()
}

func (s *ExposureSet)ExposureTimes() []float64 {
	times := make([]float64, len(s.Items))
	for i, e := range s.Items {
		times[i] = e.ExposureTime
	}
	return times
}

// Append merges one decoded exposure, enforcing the set invariants:
// the kind is fixed by the first arrival, and all exposures share one
// geometry. On a violation the set enters its error state and the
// exposure is not added.
func (s *ExposureSet)Append(e *Exposure) error {
	if s.err != nil {
		return errors.Wrap(ErrSetErrored, e.Path)
	}

	if s.Kind != UnknownInput && e.Kind != s.Kind {
		s.fail(ErrTypeMismatch)
		return errors.Wrapf(ErrTypeMismatch, "%s is %s, set is %s", e.Path, e.Kind, s.Kind)
	}

	if len(s.Items) > 0 {
		w, h := s.Dimensions()
		if e.Dx() != w || e.Dy() != h {
			s.fail(ErrSizeMismatch)
			return errors.Wrapf(ErrSizeMismatch, "%s is %dx%d, set is %dx%d",
				e.Path, e.Dx(), e.Dy(), w, h)
		}
	}

	s.Kind = e.Kind
	s.Items = append(s.Items, e)

	// The fresh mask is fully transparent (alpha zero everywhere).
	s.GhostMasks = append(s.GhostMasks, image.NewAlpha(image.Rect(0, 0, e.Dx(), e.Dy())))

	return nil
}

// Remove drops the exposure at idx and its mask.
func (s *ExposureSet)Remove(idx int) {
	s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
	s.GhostMasks = append(s.GhostMasks[:idx], s.GhostMasks[idx+1:]...)
}

// ApplyShifts applies per-exposure pixel offsets produced by an
// alignment step that yields shifts rather than rewritten files.
func (s *ExposureSet)ApplyShifts(offsets []image.Point) error {
	if len(offsets) != len(s.Items) {
		return fmt.Errorf("got %d offsets for %d exposures", len(offsets), len(s.Items))
	}

	for i, off := range offsets {
		if off.X == 0 && off.Y == 0 { continue }
		e := s.Items[i]
		e.R = e.R.Shift(off.X, off.Y)
		e.G = e.G.Shift(off.X, off.Y)
		e.B = e.B.Shift(off.X, off.Y)
		e.RebuildPreview()
	}
	return nil
}

// CropAll crops every exposure, preview and mask to r.
func (s *ExposureSet)CropAll(r image.Rectangle) {
	for i, e := range s.Items {
		e.R = e.R.Crop(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
		e.G = e.G.Crop(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
		e.B = e.B.Crop(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
		e.Preview = image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		e.RebuildPreview()

		s.GhostMasks[i] = cropAlpha(s.GhostMasks[i], r)
	}
}

func cropAlpha(m *image.Alpha, r image.Rectangle) *image.Alpha {
	out := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			out.SetAlpha(x-r.Min.X, y-r.Min.Y, m.AlphaAt(x, y))
		}
	}
	return out
}

func (s *ExposureSet)String() string {
	str := fmt.Sprintf("ExposureSet[%s,\n", s.Kind)
	for _, e := range s.Items {
		str += fmt.Sprintf("  %s\n", e)
	}
	return str + "]\n"
}
