package hstack

import(
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// An Aligner runs an external alignment tool (align_image_stack by
// default) over the set's source files. The run is asynchronous and
// cancellable; completion is a single event. Only one run per Aligner
// at a time.
type Aligner struct {
	Executable string
	Options    []string
	Crop       bool     // pass -C, crop to the common covered area
	TempDir    string
	ExtraPaths []string // appended to the child's PATH, for bundled tool installs
	Notifier   Notifier

	mu      sync.Mutex
	running bool
}

func NewAligner(nt Notifier) *Aligner {
	if nt == nil { nt = NopNotifier{} }
	return &Aligner{
		Executable: "align_image_stack",
		TempDir:    os.TempDir(),
		Notifier:   nt,
	}
}

// An AlignResult is the single completion event of a run. On success
// AlignedPaths names the tool's TIFF output, one file per input, in
// input order.
type AlignResult struct {
	ExitCode     int
	AlignedPaths []string
	Err          error
}

// Start launches the tool over the set's files. The returned channel
// delivers exactly one result. On a non-zero or abnormal exit the
// result carries an AlignmentFailure; the loaded set is not touched.
func (a *Aligner)Start(ctx context.Context, set *ExposureSet) (<-chan AlignResult, error) {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return nil, errors.New("alignment already in progress")
	}
	a.running = true
	a.mu.Unlock()

	prefix := filepath.Join(a.TempDir, "aligned_")

	args := append([]string{}, a.Options...)
	if a.Crop {
		args = append(args, "-C")
	}
	args = append(args, "-a", prefix)
	for _, e := range set.Items {
		args = append(args, e.Path)
	}

	cmd := exec.CommandContext(ctx, a.Executable, args...)
	cmd.Dir = a.TempDir
	cmd.Env = a.environ()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		a.finish()
		return nil, errors.Wrap(err, "aligner stdout")
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		a.finish()
		return nil, errors.Wrapf(err, "start %s", a.Executable)
	}

	ch := make(chan AlignResult, 1)

	go func() {
		defer a.finish()

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			a.Notifier.AlignerOutput(scanner.Text())
		}

		err := cmd.Wait()
		code := cmd.ProcessState.ExitCode()
		a.Notifier.FinishedAligning(code)

		// The tool leaves a debug dump behind; nobody wants it.
		os.Remove(filepath.Join(a.TempDir, "hugin_debug_optim_results.txt"))

		if err != nil || code != 0 {
			ch<- AlignResult{ExitCode: code, Err: AlignmentFailure{ExitCode: code, Err: err}}
			return
		}

		aligned := make([]string, set.Len())
		for i := range aligned {
			aligned[i] = fmt.Sprintf("%s%04d.tif", prefix, i)
		}
		ch<- AlignResult{ExitCode: 0, AlignedPaths: aligned}
	}()

	return ch, nil
}

// environ is the parent environment with ExtraPaths appended to PATH,
// so the tool can live in a bundled install dir without the user
// editing their shell profile.
func (a *Aligner)environ() []string {
	env := os.Environ()
	if len(a.ExtraPaths) == 0 {
		return env
	}

	extra := strings.Join(a.ExtraPaths, string(os.PathListSeparator))
	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = kv + string(os.PathListSeparator) + extra
			return env
		}
	}
	return append(env, "PATH="+extra)
}

func (a *Aligner)finish() {
	a.mu.Lock()
	a.running = false
	a.mu.Unlock()
}

// ConsumeAligned replaces each exposure's pixel data with the aligned
// temporary file's, then removes the temporaries. Exposure metadata
// (times, luminance, paths) is untouched.
func ConsumeAligned(set *ExposureSet, dec Decoder, alignedPaths []string) error {
	if len(alignedPaths) != set.Len() {
		return errors.Errorf("got %d aligned files for %d exposures", len(alignedPaths), set.Len())
	}

	for i, path := range alignedPaths {
		e, err := dec.Decode(path)
		if err != nil {
			return errors.Wrapf(err, "aligned file %s", path)
		}
		if e.Dx() != set.Items[i].Dx() || e.Dy() != set.Items[i].Dy() {
			return errors.Wrapf(ErrSizeMismatch, "aligned file %s", path)
		}
		set.Items[i].R = e.R
		set.Items[i].G = e.G
		set.Items[i].B = e.B
		set.Items[i].Preview = e.Preview
	}

	// Temporary aligned files are single-use.
	for _, path := range alignedPaths {
		os.Remove(path)
	}
	return nil
}
