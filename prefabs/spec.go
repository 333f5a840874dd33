package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// GameSpec is the match configuration in game.yaml.
type GameSpec struct {
	Title    string   `yaml:"title"`
	Width    int      `yaml:"width"`
	Height   int      `yaml:"height"`
	FixedHz  float64  `yaml:"fixed_hz"`
	Entities []string `yaml:"entities"`
	// CPUScript replaces keyboard control of the right paddle when the game runs with -cpu.
	CPUScript string `yaml:"cpu_script"`
}

const GameSpecFile = "game.yaml"

func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec](GameSpecFile)
	if err != nil {
		return nil, err
	}
	if spec.Width <= 0 {
		spec.Width = 500
	}
	if spec.Height <= 0 {
		spec.Height = 500
	}
	if spec.FixedHz <= 0 {
		spec.FixedHz = 64
	}
	if spec.Title == "" {
		spec.Title = "Pong"
	}
	if len(spec.Entities) == 0 {
		return nil, fmt.Errorf("prefabs: %s: no entities listed", GameSpecFile)
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// ParseHexColor parses #rrggbb or #rrggbbaa.
func ParseHexColor(v string) (color.Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "#")

	if len(s) != 6 && len(s) != 8 {
		return nil, fmt.Errorf("invalid color format: %q", v)
	}

	parse := func(start int) (uint8, error) {
		n, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(n), err
	}

	r, err := parse(0)
	if err != nil {
		return nil, fmt.Errorf("parse red component: %w", err)
	}
	g, err := parse(2)
	if err != nil {
		return nil, fmt.Errorf("parse green component: %w", err)
	}
	b, err := parse(4)
	if err != nil {
		return nil, fmt.Errorf("parse blue component: %w", err)
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return nil, fmt.Errorf("parse alpha component: %w", err)
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
