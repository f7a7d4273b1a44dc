package scene

import (
	"image/color"
	"path/filepath"
)

// RGB is a colour with components in 0..1.
type RGB [3]float64

// RGBA converts c to 8-bit channels with the given alpha in 0..1.
func (c RGB) RGBA(alpha float64) color.RGBA {
	return color.RGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: to8(alpha)}
}

func to8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// MirrorSettings describe raytraced reflection.
type MirrorSettings struct {
	Reflect        float64 `json:"reflect" yaml:"reflect"`
	Color          RGB     `json:"color" yaml:"color"`
	Depth          int     `json:"depth,omitempty" yaml:"depth,omitempty"`
	Distance       float64 `json:"distance,omitempty" yaml:"distance,omitempty"`
	Gloss          float64 `json:"gloss,omitempty" yaml:"gloss,omitempty"`
	Fresnel        float64 `json:"fresnel,omitempty" yaml:"fresnel,omitempty"`
	FresnelFactor  float64 `json:"fresnel_factor,omitempty" yaml:"fresnel_factor,omitempty"`
	FadeToMaterial bool    `json:"fade_to_material,omitempty" yaml:"fade_to_material,omitempty"`
}

type TextureKind string

const (
	TextureImage  TextureKind = "image"
	TextureStucci TextureKind = "stucci"
)

type Texture struct {
	Name string      `json:"name" yaml:"name"`
	Kind TextureKind `json:"kind" yaml:"kind"`

	// Path is set for image textures.
	Path        string  `json:"path,omitempty" yaml:"path,omitempty"`
	MapAlpha    bool    `json:"map_alpha,omitempty" yaml:"map_alpha,omitempty"`
	AlphaFactor float64 `json:"alpha_factor,omitempty" yaml:"alpha_factor,omitempty"`

	// Procedural settings.
	StucciType         string     `json:"stucci_type,omitempty" yaml:"stucci_type,omitempty"`
	Color              RGB        `json:"color" yaml:"color"`
	DiffuseColorFactor float64    `json:"diffuse_color_factor,omitempty" yaml:"diffuse_color_factor,omitempty"`
	Scale              [3]float64 `json:"scale" yaml:"scale"`
}

// Material is a surface material. Unset fields keep the host defaults that
// newMaterial fills in.
type Material struct {
	Name string `json:"name" yaml:"name"`

	Diffuse          RGB     `json:"diffuse" yaml:"diffuse"`
	DiffuseIntensity float64 `json:"diffuse_intensity" yaml:"diffuse_intensity"`
	DiffuseShader    string  `json:"diffuse_shader" yaml:"diffuse_shader"`

	Specular          RGB     `json:"specular" yaml:"specular"`
	SpecularIntensity float64 `json:"specular_intensity" yaml:"specular_intensity"`
	SpecularShader    string  `json:"specular_shader" yaml:"specular_shader"`
	SpecularHardness  int     `json:"specular_hardness" yaml:"specular_hardness"`
	SpecularAlpha     float64 `json:"specular_alpha" yaml:"specular_alpha"`

	Alpha       float64 `json:"alpha" yaml:"alpha"`
	Transparent bool    `json:"transparent" yaml:"transparent"`
	Raytrace    bool    `json:"raytrace" yaml:"raytrace"`

	Mirror  *MirrorSettings `json:"mirror,omitempty" yaml:"mirror,omitempty"`
	Texture *Texture        `json:"texture,omitempty" yaml:"texture,omitempty"`
}

// Color is the flat colour a rasterizer without lighting models should
// use. Alpha only applies when the material is transparent.
func (m *Material) Color() color.RGBA {
	alpha := 1.0
	if m.Transparent {
		alpha = m.Alpha
		// the image alpha is approximated by its map factor
		if m.Texture != nil && m.Texture.MapAlpha && m.Texture.AlphaFactor > alpha {
			alpha = m.Texture.AlphaFactor
		}
	}
	return m.Diffuse.RGBA(alpha)
}

func newMaterial(name string) *Material {
	return &Material{
		Name:              name,
		Diffuse:           RGB{0.8, 0.8, 0.8},
		DiffuseIntensity:  0.8,
		DiffuseShader:     "LAMBERT",
		Specular:          RGB{1, 1, 1},
		SpecularIntensity: 0.5,
		SpecularShader:    "COOKTORR",
		SpecularHardness:  50,
		SpecularAlpha:     1,
		Alpha:             1,
		Raytrace:          true,
	}
}

// LaserMaterial is the half transparent red of the beams. The incoming and
// outgoing variants are separate materials so they can be tuned apart.
func LaserMaterial(out bool) *Material {
	name := "mat_laser_in"
	if out {
		name = "mat_laser_out"
	}
	m := newMaterial(name)
	m.Transparent = true
	m.Alpha = 0.5
	m.Raytrace = false
	m.Diffuse = RGB{1, 0, 0}
	m.DiffuseIntensity = 1
	return m
}

// PlotMaterial carries the plot image. The transparent variant is used on
// the mirror, where the gold should show through.
func PlotMaterial(resourceDir string, transparent bool) *Material {
	m := newMaterial("mat_plot")
	m.DiffuseIntensity = 1
	m.SpecularIntensity = 0
	m.Transparent = true

	file := "plot_white.png"
	m.Alpha = 0.8
	if transparent {
		file = "plot_transparent.png"
		m.Alpha = 0
	}
	m.Texture = &Texture{
		Name:        "tex_plot",
		Kind:        TextureImage,
		Path:        filepath.Join(resourceDir, file),
		MapAlpha:    true,
		AlphaFactor: 0.5,
		Color:       RGB{1, 0, 1},
		Scale:       unitScale,
	}
	return m
}

// BlockMaterial is the brushed metal of the sample holder.
func BlockMaterial() *Material {
	m := newMaterial("mat_block")
	m.Diffuse = RGB{0.2, 0.2, 0.2}
	m.Alpha = 0.5
	m.Mirror = &MirrorSettings{Reflect: 0.3, Color: RGB{1, 1, 1}}
	m.Texture = &Texture{
		Name:               "tex_block",
		Kind:               TextureStucci,
		StucciType:         "WALL_IN",
		Color:              RGB{0, 0, 0},
		DiffuseColorFactor: 0.75,
		Scale:              [3]float64{1, 1, 20},
	}
	return m
}

func BlueWater() *Material {
	return water("mat_water_blue", RGB{0, 0, 1})
}

func GreenWater() *Material {
	return water("mat_water_green", RGB{0.35, 1, 0.35})
}

func water(name string, c RGB) *Material {
	m := newMaterial(name)
	m.Alpha = 0.5
	m.Diffuse = c
	m.DiffuseIntensity = 1
	m.DiffuseShader = "LAMBERT"
	m.Transparent = true
	m.SpecularAlpha = 0.5
	m.Specular = c
	m.SpecularIntensity = 0
	m.SpecularShader = "PHONG"
	m.SpecularHardness = 75
	m.Mirror = &MirrorSettings{
		Reflect:       0,
		Color:         c,
		Depth:         20,
		Distance:      20,
		Gloss:         1,
		Fresnel:       0.75,
		FresnelFactor: 1,
	}
	return m
}

func GoldMaterial() *Material {
	m := newMaterial("mat_gold")
	gold := RGB{1.0, 0.8, 0.2}
	m.Alpha = 0.25
	m.Diffuse = gold
	m.DiffuseIntensity = 1
	m.DiffuseShader = "LAMBERT"
	m.Specular = RGB{1, 1, 1}
	m.SpecularIntensity = 1
	m.SpecularShader = "PHONG"
	m.SpecularHardness = 75
	m.Mirror = &MirrorSettings{
		Reflect:        0.75,
		Color:          gold,
		Depth:          100,
		Distance:       75,
		Gloss:          1,
		Fresnel:        0.75,
		FresnelFactor:  1,
		FadeToMaterial: true,
	}
	return m
}

// MirrorMountMaterial is a shiny dark grey.
func MirrorMountMaterial() *Material {
	m := newMaterial("mat_mirror_mount")
	m.Diffuse = RGB{0.2, 0.2, 0.2}
	m.Alpha = 0.5
	m.Mirror = &MirrorSettings{Reflect: 0.3, Color: RGB{1, 1, 1}}
	return m
}

// BeamBlockMaterial is matte black.
func BeamBlockMaterial() *Material {
	m := newMaterial("mat_beam_block")
	m.Diffuse = RGB{0.01, 0.01, 0.01}
	m.SpecularIntensity = 0.01
	m.Alpha = 0.5
	return m
}
