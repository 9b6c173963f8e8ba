package director

import "fmt"

// SceneKind selects the render logic of a scene.
type SceneKind string

const (
	KindHook        SceneKind = "hook"
	KindMainContent SceneKind = "mainContent"
	KindCTA         SceneKind = "cta"
)

// Valid reports whether the kind is one the composition knows how to render.
func (k SceneKind) Valid() bool {
	switch k {
	case KindHook, KindMainContent, KindCTA:
		return true
	}
	return false
}

// Scene is a named window of the composition timeline
type Scene struct {
	Name       string    `yaml:"name" json:"name"`
	Kind       SceneKind `yaml:"kind" json:"kind"`
	StartFrame int       `yaml:"startFrame" json:"startFrame"`
	// DurationFrames of 0 means the scene runs until the composition ends.
	DurationFrames int `yaml:"durationFrames,omitempty" json:"durationFrames,omitempty"`
}

// OpenEnded reports whether the scene has no fixed duration.
func (s Scene) OpenEnded() bool {
	return s.DurationFrames == 0
}

func (s Scene) String() string {
	if s.OpenEnded() {
		return fmt.Sprintf("%s(%s)[%d, end)", s.Name, s.Kind, s.StartFrame)
	}
	return fmt.Sprintf("%s(%s)[%d, %d)", s.Name, s.Kind, s.StartFrame, s.StartFrame+s.DurationFrames)
}

// ActiveScene pairs a scene with the frame offset it animates against.
type ActiveScene struct {
	Scene      Scene
	LocalFrame int
}
