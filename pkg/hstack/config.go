package hstack

import(
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

/* Example config file ...

verbosity: 1
numworkers: 4

antighosting:
  auto: true
  threshold: 0.5

fusion:
  weights: triangular
  response: gamma
  model: debevec

aligner:
  executable: align_image_stack
  options: ["-v"]
  crop: false
  extrapaths: ["/opt/hugin/bin"]

*/

type AntiGhostingOptions struct {
	Auto      bool
	Threshold float64
}

type AlignerOptions struct {
	Executable string
	Options    []string
	Crop       bool
	TempDir    string
	ExtraPaths []string
}

type Config struct {
	Verbosity    int
	NumWorkers   int
	AntiGhosting AntiGhostingOptions
	Fusion       FuseConfig
	Aligner      AlignerOptions
}

func NewConfig() Config {
	return Config{
		AntiGhosting: AntiGhostingOptions{Auto: true, Threshold: 0.5},
		Fusion:       PredefinedProfiles[0],
		Aligner:      AlignerOptions{Executable: "align_image_stack", TempDir: os.TempDir()},
	}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	contents, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("config read %s: %v", filename, err)
	}
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("config parse %s: %v", filename, err)
	}

	return c, c.Finalize()
}

// Finalize does sanity checks and other post-processing
func (c *Config)Finalize() error {
	if c.AntiGhosting.Threshold < 0 || c.AntiGhosting.Threshold > 1 {
		return fmt.Errorf("antighosting threshold %f outside [0,1]", c.AntiGhosting.Threshold)
	}
	if c.Aligner.Executable == "" {
		c.Aligner.Executable = "align_image_stack"
	}
	if c.Aligner.TempDir == "" {
		c.Aligner.TempDir = os.TempDir()
	}
	return c.Fusion.Validate()
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}
