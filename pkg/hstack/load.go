package hstack

import(
	"context"
	"log"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// A Loader schedules parallel decoding of new paths into an
// ExposureSet. Decoding fans out over a bounded worker pool; every
// completion funnels back through the one goroutine running Load, which
// is the only writer of the set, the counters and the missing-EV list.
type Loader struct {
	Set      *ExposureSet
	Decoder  Decoder
	Notifier Notifier
	Workers  int

	norm *Normalizer
}

// A BatchReport summarizes one Load call.
type BatchReport struct {
	Requested int
	Loaded    int
	MissingEV []int          // exposure indices still lacking a usable time
	Failures  []LoadFailure  // per-item failures; their paths were dropped
}

func NewLoader(set *ExposureSet, dec Decoder, nt Notifier) *Loader {
	if nt == nil { nt = NopNotifier{} }
	return &Loader{
		Set:      set,
		Decoder:  dec,
		Notifier: nt,
		Workers:  runtime.NumCPU(),
		norm:     newNormalizer(set, nt),
	}
}

// Normalizer gives access to the EV bookkeeping that persists across
// batches (missing-EV list, manual SetEV).
func (ld *Loader)Normalizer() *Normalizer { return ld.norm }

type loadResult struct {
	order int
	path  string
	exp   *Exposure
	err   error
}

// Load decodes every path not already in the set (exact string match)
// and merges the valid results in request order. Cancelling ctx stops
// the batch; nothing partially loaded is merged. Per-item failures
// don't abort siblings; a kind or size inconsistency halts the batch
// and puts the set in its error state.
func (ld *Loader)Load(ctx context.Context, paths ...string) (*BatchReport, error) {
	if err := ld.Set.Err(); err != nil {
		return nil, errors.Wrap(ErrSetErrored, "load")
	}

	// Has the file been inserted already?
	pending := []string{}
	seen := map[string]bool{}
	for _, p := range paths {
		if seen[p] || ld.Set.Contains(p) { continue }
		seen[p] = true
		pending = append(pending, p)
	}

	report := &BatchReport{Requested: len(paths)}

	ld.Notifier.ProgressStarted()
	ld.Notifier.ProgressRange(0, len(pending))
	defer ld.Notifier.ProgressFinished()

	results := ld.decodeAll(ctx, pending)

	if ctx.Err() != nil {
		// Cancelled: discard everything, merge nothing.
		return nil, ctx.Err()
	}

	// Single-writer merge, in request order.
	var batchErr error
	for _, res := range results {
		if res.err != nil {
			failure := LoadFailure{Path: res.path, Err: res.err}
			report.Failures = append(report.Failures, failure)
			ld.Notifier.LoadFailed(res.path, res.err)
			continue
		}

		if err := ld.norm.Accept(res.exp); err != nil {
			// Kind/size inconsistency: the whole batch halts here. What
			// was merged before the error stays in the set.
			ld.Notifier.LoadFailed(res.path, err)
			batchErr = err
			break
		}
		report.Loaded++
	}

	report.MissingEV = ld.norm.MissingEV()

	// A consistency failure leaves the set errored, and an errored set
	// gets no further normalization: the items merged before the halt
	// keep their exposure times as decoded.
	if batchErr == nil {
		ld.norm.CheckEVValues()
		report.MissingEV = ld.norm.MissingEV()
		ld.Notifier.LoadingFinished(report.MissingEV)
	}

	log.Printf("Read %d out of %d\n", report.Loaded, report.Requested)
	return report, batchErr
}

// decodeAll runs the worker pool and collects every task's result,
// indexed by request order.
func (ld *Loader)decodeAll(ctx context.Context, pending []string) []loadResult {
	var wg sync.WaitGroup
	jobsChan    := make(chan loadResult, len(pending))
	resultsChan := make(chan loadResult, len(pending))

	nWorkers := ld.Workers
	if nWorkers < 1 { nWorkers = 1 }
	if nWorkers > len(pending) { nWorkers = len(pending) }

	for i:=0; i<nWorkers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			for job := range jobsChan {
				if ctx.Err() != nil {
					job.err = ctx.Err()
					resultsChan<- job
					continue
				}
				job.exp, job.err = ld.Decoder.Decode(job.path)
				if job.err != nil && job.exp != nil {
					job.exp.Valid = false
				}
				resultsChan<- job
			}
		}()
	}

	for i, path := range pending {
		jobsChan<- loadResult{order: i, path: path}
	}
	close(jobsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Drain as the workers finish, so progress tracks completion rather
	// than arriving in one burst. Still the only receiving goroutine.
	results := make([]loadResult, len(pending))
	done := 0
	for res := range resultsChan {
		results[res.order] = res
		done++
		ld.Notifier.ProgressValue(done)
	}
	return results
}
