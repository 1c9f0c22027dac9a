package main

import(
	"context"
	"flag"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/mdouchement/hdr"

	"github.com/CoreyChen922/LuminanceHDR/pkg/ghost"
	"github.com/CoreyChen922/LuminanceHDR/pkg/hcolor"
	"github.com/CoreyChen922/LuminanceHDR/pkg/hstack"
)

var(
	Log *log.Logger

	fOutputFilename string
	fConfigFilename string
	fSavePrefix string
	fAutoGhost bool
	fGhostThreshold float64
	fAlign bool
	fAlignCrop bool
	fNumWorkers int
	fVerbosity int
)

func init() {
	flag.StringVar(&fOutputFilename, "o", "out.hdr", "name of output radiance file")
	flag.StringVar(&fConfigFilename, "config", "", "yaml config file")
	flag.StringVar(&fSavePrefix, "saveprefix", "", "if set, save the processed exposures as <prefix>_N.tiff")
	flag.BoolVar(&fAutoGhost, "autoghost", true, "detect and correct ghosted patches automatically")
	flag.Float64Var(&fGhostThreshold, "threshold", 0.5, "outlier fraction above which a patch counts as ghosted")
	flag.BoolVar(&fAlign, "align", false, "run align_image_stack over the inputs first")
	flag.BoolVar(&fAlignCrop, "crop", false, "have the aligner crop to the common covered area")
	flag.IntVar(&fNumWorkers, "workers", 0, "decode worker pool size (0 = one per CPU)")
	flag.IntVar(&fVerbosity, "v", 0, "log extra diagnostics")
	flag.Parse()

	Log = log.New(os.Stdout,"", log.Ldate|log.Ltime)
	log.Printf("Starting\n")
}

func main() {
	cfg := hstack.NewConfig()
	if fConfigFilename != "" {
		var err error
		if cfg, err = hstack.LoadConfig(fConfigFilename); err != nil {
			Log.Fatal(err)
		}
	}

	// Override the config file with command line args, if relevant
	cfg.AntiGhosting.Auto = fAutoGhost
	if fGhostThreshold > 0.0 { cfg.AntiGhosting.Threshold = fGhostThreshold }
	if fNumWorkers > 0 { cfg.NumWorkers = fNumWorkers }
	if fVerbosity > 0 { cfg.Verbosity = fVerbosity }
	cfg.Aligner.Crop = fAlignCrop
	if err := cfg.Finalize(); err != nil {
		Log.Fatal(err)
	}

	ctx := context.Background()
	set := hstack.NewExposureSet()
	nt := hstack.LogNotifier{}

	loader := hstack.NewLoader(set, hstack.TIFFDecoder{}, nt)
	if cfg.NumWorkers > 0 { loader.Workers = cfg.NumWorkers }

	report, err := loader.Load(ctx, flag.Args()...)
	if err != nil {
		Log.Fatal(err)
	}
	if report.Loaded < 2 {
		Log.Fatalf("need at least 2 exposures, loaded %d\n", report.Loaded)
	}
	if len(report.MissingEV) > 0 {
		Log.Fatalf("exposures %v have no usable exposure time; set them and retry\n", report.MissingEV)
	}

	log.Printf("Images loaded: %s", set)

	if cfg.Verbosity > 0 {
		for i, e := range set.Items {
			log.Printf("exposure %d lightness histogram: %v\n", i, hcolor.LightnessHistogram(e.Pixels()))
		}
	}

	if fAlign {
		aligner := hstack.NewAligner(nt)
		aligner.Executable = cfg.Aligner.Executable
		aligner.Options = cfg.Aligner.Options
		aligner.Crop = cfg.Aligner.Crop
		aligner.TempDir = cfg.Aligner.TempDir
		aligner.ExtraPaths = cfg.Aligner.ExtraPaths

		ch, err := aligner.Start(ctx, set)
		if err != nil {
			Log.Fatal(err)
		}
		res := <-ch
		if res.Err != nil {
			Log.Fatalf("alignment failed: %v\n", res.Err)
		}
		if err := hstack.ConsumeAligned(set, hstack.TIFFDecoder{}, res.AlignedPaths); err != nil {
			Log.Fatal(err)
		}
	}

	if cfg.AntiGhosting.Auto {
		res, err := ghost.Detect(set, cfg.AntiGhosting.Threshold)
		if err != nil {
			Log.Fatal(err)
		}

		if cfg.Verbosity > 0 {
			overlay := res.Grid.Overlay(set.Items[res.ReferenceIndex].Pixels())
			if err := writePNG(overlay, "ghostmap.png"); err != nil {
				Log.Fatal(err)
			}
			log.Printf("flagged patch overlay written 'ghostmap.png'\n")
		}

		if err := ghost.Correct(set, res); err != nil {
			Log.Fatal(err)
		}
	}

	if fSavePrefix != "" {
		if err := set.SaveExposures(fSavePrefix, hstack.NopExifCopier{}, nt); err != nil {
			Log.Fatal(err)
		}
	}

	img, err := set.CreateHDR(weightedAverageFuser{}, cfg.Fusion)
	if err != nil {
		Log.Fatal(err)
	}
	if err := hstack.WriteHDR(img, fOutputFilename); err != nil {
		Log.Fatal(err)
	}
	log.Printf("HDR output file written '%s'\n", fOutputFilename)
}

func writePNG(img image.Image, filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer writer.Close()
	return png.Encode(writer, img)
}

// weightedAverageFuser is the built-in fallback radiance estimator: each
// exposure's samples are divided by its exposure time and averaged. No
// response-curve recovery, so the profile triple is ignored.
type weightedAverageFuser struct{}

func (weightedAverageFuser)Fuse(expotimes []float64, cfg hstack.FuseConfig, exposures []*hstack.Exposure) (hdr.Image, error) {
	width, height := exposures[0].Dx(), exposures[0].Dy()
	out := hstack.NewFusedFrame(width, height)

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			var r, g, b float64
			for i, e := range exposures {
				r += e.R.Get(x, y) / expotimes[i]
				g += e.G.Get(x, y) / expotimes[i]
				b += e.B.Get(x, y) / expotimes[i]
			}
			n := float64(len(exposures))
			out.R.Set(x, y, r/n)
			out.G.Set(x, y, g/n)
			out.B.Set(x, y, b/n)
		}
	}

	return out, nil
}
