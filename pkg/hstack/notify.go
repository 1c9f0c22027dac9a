package hstack

import(
	"log"
)

// A Notifier receives the structured events the pipeline used to feed
// straight into a GUI. The computational core only ever talks to this
// interface; whatever presentation layer exists supplies its own.
type Notifier interface {
	ProgressStarted()
	ProgressRange(min, max int)
	ProgressValue(v int)
	ProgressFinished()

	FileLoaded(index int, path string, expotime float64)
	LoadFailed(path string, err error)
	LoadingFinished(missingEV []int)

	ExposureTimeChanged(expotime float64, index int)

	AlignerOutput(line string)
	FinishedAligning(exitCode int)

	ImagesSaved()
}

// NopNotifier discards everything.
type NopNotifier struct{}

func (NopNotifier)ProgressStarted()                           {}
func (NopNotifier)ProgressRange(min, max int)                 {}
func (NopNotifier)ProgressValue(v int)                        {}
func (NopNotifier)ProgressFinished()                          {}
func (NopNotifier)FileLoaded(index int, path string, t float64) {}
func (NopNotifier)LoadFailed(path string, err error)          {}
func (NopNotifier)LoadingFinished(missingEV []int)            {}
func (NopNotifier)ExposureTimeChanged(t float64, index int)   {}
func (NopNotifier)AlignerOutput(line string)                  {}
func (NopNotifier)FinishedAligning(exitCode int)              {}
func (NopNotifier)ImagesSaved()                               {}

// LogNotifier writes the interesting events to the standard logger.
type LogNotifier struct{}

func (LogNotifier)ProgressStarted()           { log.Printf("loading started\n") }
func (LogNotifier)ProgressRange(min, max int) {}
func (LogNotifier)ProgressValue(v int)        {}
func (LogNotifier)ProgressFinished()          { log.Printf("loading finished\n") }

func (LogNotifier)FileLoaded(index int, path string, t float64) {
	log.Printf("loaded [%d] %s (t=%.5fs)\n", index, path, t)
}

func (LogNotifier)LoadFailed(path string, err error) {
	log.Printf("failed to load %s: %v\n", path, err)
}

func (LogNotifier)LoadingFinished(missingEV []int) {
	if len(missingEV) > 0 {
		log.Printf("%d exposure(s) lack EXIF exposure data: %v\n", len(missingEV), missingEV)
	}
}

func (LogNotifier)ExposureTimeChanged(t float64, index int) {
	log.Printf("exposure %d time changed to %.5fs\n", index, t)
}

func (LogNotifier)AlignerOutput(line string)     { log.Printf("aligner: %s\n", line) }
func (LogNotifier)FinishedAligning(exitCode int) { log.Printf("aligner done, exit %d\n", exitCode) }
func (LogNotifier)ImagesSaved()                  { log.Printf("exposures saved\n") }
