package hstack

import(
	"math"
)

// A Normalizer merges freshly-decoded exposures into the set one at a
// time (loading is parallel, this never is), and keeps the EV range of
// the whole set numerically sane for the fusion stage.
type Normalizer struct {
	set      *ExposureSet
	notifier Notifier

	// Exposure indices whose EXIF lacked a usable exposure time,
	// in arrival order.
	missingEV []int
}

func newNormalizer(set *ExposureSet, nt Notifier) *Normalizer {
	return &Normalizer{set: set, notifier: nt, missingEV: []int{}}
}

// Accept runs the consistency checks and appends the exposure. An
// exposure without a readable time is queued on the missing-EV list
// rather than rejected.
func (n *Normalizer)Accept(e *Exposure) error {
	if err := n.set.Append(e); err != nil {
		return err
	}

	idx := n.set.Len() - 1
	if e.ExposureTime == -1 {
		n.missingEV = append(n.missingEV, idx)
	}
	n.notifier.FileLoaded(idx, e.Path, e.ExposureTime)
	return nil
}

// MissingEV returns the indices still waiting for a manual SetEV.
func (n *Normalizer)MissingEV() []int {
	out := make([]int, len(n.missingEV))
	copy(out, n.missingEV)
	return out
}

// CheckEVValues clamps the set's EV range into [-10, 10] by a uniform
// log2 shift, so fusion never sees extreme exposure ratios. A pure
// shift: pairwise EV differences are preserved. Only one branch fires,
// and the max check wins. Exposures with an unknown time are skipped.
func (n *Normalizer)CheckEVValues() {
	max, min := -20.0, 20.0
	for _, e := range n.set.Items {
		if e.ExposureTime <= 0 { continue }
		ev := math.Log2(e.ExposureTime)
		if ev > max { max = ev }
		if ev < min { min = ev }
	}

	var shift float64
	switch {
	case max > 10:  shift = max - 10
	case min < -10: shift = min + 10
	default:        return
	}

	for i, e := range n.set.Items {
		if e.ExposureTime <= 0 { continue }
		newEV := math.Log2(e.ExposureTime) - shift
		e.ExposureTime = math.Exp2(newEV)
		n.notifier.ExposureTimeChanged(e.ExposureTime, i)
	}
}

// SetEV manually overrides one exposure's EV. If that exposure was
// waiting on the missing-EV list, the OLDEST pending entry is removed,
// regardless of which index was set - the list is only ever reported
// as a batch, so callers work through it front to back. Kept this way
// on purpose for behavioral compatibility.
func (n *Normalizer)SetEV(newEV float64, index int) {
	if n.set.Items[index].ExposureTime == -1 && len(n.missingEV) > 0 {
		n.missingEV = n.missingEV[1:]
	}
	n.set.Items[index].ExposureTime = math.Exp2(newEV)
	n.notifier.ExposureTimeChanged(n.set.Items[index].ExposureTime, index)
}
