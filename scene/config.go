package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/smasonuk/beamscene"
)

// ResourceVariant selects which resource directory textures and protein
// meshes are read from.
type ResourceVariant int

const (
	ResourcesDefault ResourceVariant = iota
	ResourcesAlternate
)

func (v ResourceVariant) String() string {
	switch v {
	case ResourcesDefault:
		return "default"
	case ResourcesAlternate:
		return "alternate"
	}
	return fmt.Sprintf("ResourceVariant(%d)", int(v))
}

// Dir is the directory name of the variant below the resource root.
func (v ResourceVariant) Dir() string {
	if v == ResourcesAlternate {
		return "res_alt"
	}
	return "res"
}

func (v ResourceVariant) MarshalText() ([]byte, error) {
	if v != ResourcesDefault && v != ResourcesAlternate {
		return nil, fmt.Errorf("invalid resource variant %d", int(v))
	}
	return []byte(v.String()), nil
}

func (v *ResourceVariant) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "default", "res":
		*v = ResourcesDefault
	case "alternate", "alt", "res_alt":
		*v = ResourcesAlternate
	default:
		return fmt.Errorf("unknown resource variant %q", text)
	}
	return nil
}

// RenderSettings are passed through to the host's renderer.
type RenderSettings struct {
	ResolutionX int  `toml:"resolution_x" yaml:"resolution_x" json:"resolution_x"`
	ResolutionY int  `toml:"resolution_y" yaml:"resolution_y" json:"resolution_y"`
	Percentage  int  `toml:"percentage" yaml:"percentage" json:"percentage"`
	AASamples   int  `toml:"aa_samples" yaml:"aa_samples" json:"aa_samples"`
	FullSample  bool `toml:"full_sample" yaml:"full_sample" json:"full_sample"`
}

// Config holds everything that used to be a script-level flag.
type Config struct {
	// UseMirror puts the plot on a gold mirror instead of a bare plane.
	UseMirror bool `toml:"use_mirror" yaml:"use_mirror" json:"use_mirror"`

	// RenderProteins imports the protein meshes. Turning it off speeds up
	// test renders considerably.
	RenderProteins bool `toml:"render_proteins" yaml:"render_proteins" json:"render_proteins"`

	// TransparentBackground disables the sky and asks for RGBA output.
	TransparentBackground bool `toml:"transparent_background" yaml:"transparent_background" json:"transparent_background"`

	ResourceVariant ResourceVariant `toml:"resource_variant" yaml:"resource_variant" json:"resource_variant"`
	ResourceRoot    string          `toml:"resource_root" yaml:"resource_root" json:"resource_root"`

	// LaserScaleIn and LaserScaleOut are the radial size of the non-focus
	// end of incoming and outgoing beams.
	LaserScaleIn  float64 `toml:"laser_scale_in" yaml:"laser_scale_in" json:"laser_scale_in"`
	LaserScaleOut float64 `toml:"laser_scale_out" yaml:"laser_scale_out" json:"laser_scale_out"`

	// ExtraPulses adds the four-beam variant of the pulse sequence.
	ExtraPulses bool `toml:"extra_pulses" yaml:"extra_pulses" json:"extra_pulses"`

	// YScale is the thickness of the block and the channels.
	YScale float64 `toml:"y_scale" yaml:"y_scale" json:"y_scale"`

	// ProteinYOffset moves the protein towards the viewer when negative.
	ProteinYOffset float64 `toml:"protein_y_offset" yaml:"protein_y_offset" json:"protein_y_offset"`

	PlotLoc   [3]float64 `toml:"plot_loc" yaml:"plot_loc" json:"plot_loc"`
	PlotScale float64    `toml:"plot_scale" yaml:"plot_scale" json:"plot_scale"`

	Render RenderSettings `toml:"render" yaml:"render" json:"render"`
}

func DefaultConfig() Config {
	return Config{
		UseMirror:       true,
		RenderProteins:  true,
		ResourceVariant: ResourcesAlternate,
		ResourceRoot:    ".",
		LaserScaleIn:    2,
		LaserScaleOut:   9,
		YScale:          1,
		ProteinYOffset:  -1,
		PlotLoc:         [3]float64{31, 40, -6},
		PlotScale:       10,
		Render: RenderSettings{
			ResolutionX: 1000,
			ResolutionY: 400,
			Percentage:  100,
			AASamples:   16,
			FullSample:  true,
		},
	}
}

// Focus is where the beams converge: a little in front of the middle of
// the protein.
func (c Config) Focus() beamscene.Point3 {
	return beamscene.P3(15, c.ProteinYOffset-1, 0)
}

func (c Config) PlotPoint() beamscene.Point3 {
	return beamscene.Point3FromArray(c.PlotLoc)
}

// ResourceDir is the directory holding textures and protein meshes.
func (c Config) ResourceDir() string {
	return filepath.Join(c.ResourceRoot, c.ResourceVariant.Dir())
}

var ErrInvalidConfig = errors.New("invalid scene config")

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
		}
	}

	check(positive(c.LaserScaleIn), "laser_scale_in %v must be positive", c.LaserScaleIn)
	check(positive(c.LaserScaleOut), "laser_scale_out %v must be positive", c.LaserScaleOut)
	check(positive(c.YScale), "y_scale %v must be positive", c.YScale)
	check(positive(c.PlotScale), "plot_scale %v must be positive", c.PlotScale)
	check(c.PlotPoint().IsFinite(), "plot_loc %v must be finite", c.PlotLoc)
	check(!math.IsNaN(c.ProteinYOffset) && !math.IsInf(c.ProteinYOffset, 0), "protein_y_offset %v must be finite", c.ProteinYOffset)
	check(c.ResourceVariant == ResourcesDefault || c.ResourceVariant == ResourcesAlternate, "resource_variant %d", int(c.ResourceVariant))
	check(c.Render.ResolutionX > 0 && c.Render.ResolutionY > 0, "render resolution %dx%d", c.Render.ResolutionX, c.Render.ResolutionY)
	check(c.Render.Percentage > 0 && c.Render.Percentage <= 100, "render percentage %d out of range", c.Render.Percentage)
	switch c.Render.AASamples {
	case 0, 5, 8, 11, 16:
	default:
		check(false, "aa_samples %d must be one of 5, 8, 11, 16", c.Render.AASamples)
	}

	return errors.Join(errs...)
}

// LoadConfig reads a TOML or YAML file, picked by extension, on top of
// DefaultConfig. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		cfg, err = DecodeTOML(data)
	case ".yaml", ".yml":
		cfg, err = DecodeYAML(data)
	default:
		return Config{}, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("error parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func DecodeTOML(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func DecodeYAML(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// an empty document leaves the defaults in place
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// EncodeTOML writes c in the same format LoadConfig reads.
func (c Config) EncodeTOML() ([]byte, error) {
	return toml.Marshal(c)
}
