package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type VelocityComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type CircleColliderComponentSpec struct {
	Radius float64 `yaml:"radius"`
}

type BoxColliderComponentSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type BallComponentSpec struct {
	LaunchX     float64 `yaml:"launch_x"`
	LaunchY     float64 `yaml:"launch_y"`
	LaunchSpeed float64 `yaml:"launch_speed"`
	MaxSpeed    float64 `yaml:"max_speed"`
}

type PaddleComponentSpec struct {
	Side    string  `yaml:"side"`
	Speed   float64 `yaml:"speed"`
	Top     float64 `yaml:"top"`
	Bottom  float64 `yaml:"bottom"`
	UpKey   string  `yaml:"up_key"`
	DownKey string  `yaml:"down_key"`
}

type PaddleAIComponentSpec struct {
	Script   string  `yaml:"script"`
	DeadZone float64 `yaml:"dead_zone"`
}

type WallComponentSpec struct {
	Name string `yaml:"name"`
}

type GoalComponentSpec struct {
	Defender string `yaml:"defender"`
}

type ShapeComponentSpec struct {
	Kind   string     `yaml:"kind"`
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Radius float64    `yaml:"radius"`
	Color  *YAMLColor `yaml:"color"`
	Layer  int        `yaml:"layer"`
}

type AudioClipSpec struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
}

type AudioComponentSpec struct {
	Clips []AudioClipSpec `yaml:"clips"`
}

type PhysicsBodyComponentSpec struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Radius     float64 `yaml:"radius"`
	Mass       float64 `yaml:"mass"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
	Static     bool    `yaml:"static"`
	Kinematic  bool    `yaml:"kinematic"`
}

type ImpulseComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ScoreBoardComponentSpec struct {
	WinScore int `yaml:"win_score"`
}
