package director

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSceneOrder is returned for scene lists the scheduler cannot serve.
var ErrSceneOrder = errors.New("invalid scene order")

// Default scene boundaries in seconds: Hook 0-3s, MainContent 3-12s, CTA until the end.
const (
	HookSeconds        = 3
	MainContentSeconds = 9
)

// DefaultScenes returns the Hook -> MainContent -> CTA plan for the given frame rate.
func DefaultScenes(fps int) []Scene {
	return []Scene{
		{Name: "Hook", Kind: KindHook, StartFrame: 0, DurationFrames: HookSeconds * fps},
		{Name: "MainContent", Kind: KindMainContent, StartFrame: HookSeconds * fps, DurationFrames: MainContentSeconds * fps},
		{Name: "CTA", Kind: KindCTA, StartFrame: (HookSeconds + MainContentSeconds) * fps},
	}
}

// Scheduler resolves which scenes are on screen for a global frame.
// Windows may overlap (crossfades); it is read-only after construction.
type Scheduler struct {
	scenes      []Scene
	totalFrames int
}

// NewScheduler validates scene ordering against the composition length.
func NewScheduler(scenes []Scene, totalFrames int) (*Scheduler, error) {
	if totalFrames <= 0 {
		return nil, fmt.Errorf("%w: total duration must be positive, got %d frames", ErrSceneOrder, totalFrames)
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: no scenes", ErrSceneOrder)
	}

	names := make(map[string]bool, len(scenes))
	for i, s := range scenes {
		switch {
		case strings.TrimSpace(s.Name) == "":
			return nil, fmt.Errorf("%w: scene %d has no name", ErrSceneOrder, i)
		case names[s.Name]:
			return nil, fmt.Errorf("%w: duplicate scene name %q", ErrSceneOrder, s.Name)
		case !s.Kind.Valid():
			return nil, fmt.Errorf("%w: scene %q has unknown kind %q", ErrSceneOrder, s.Name, s.Kind)
		case s.StartFrame < 0:
			return nil, fmt.Errorf("%w: scene %q starts at negative frame %d", ErrSceneOrder, s.Name, s.StartFrame)
		case s.DurationFrames < 0:
			return nil, fmt.Errorf("%w: scene %q has negative duration %d", ErrSceneOrder, s.Name, s.DurationFrames)
		case i > 0 && s.StartFrame < scenes[i-1].StartFrame:
			return nil, fmt.Errorf("%w: scene %q starts before scene %q", ErrSceneOrder, s.Name, scenes[i-1].Name)
		case s.OpenEnded() && i != len(scenes)-1:
			return nil, fmt.Errorf("%w: open-ended scene %q must be last", ErrSceneOrder, s.Name)
		}
		names[s.Name] = true
	}

	return &Scheduler{
		scenes:      append([]Scene(nil), scenes...),
		totalFrames: totalFrames,
	}, nil
}

// Scenes returns a copy of the scene list.
func (s *Scheduler) Scenes() []Scene {
	return append([]Scene(nil), s.scenes...)
}

// TotalFrames returns the composition length the scheduler was built for.
func (s *Scheduler) TotalFrames() int {
	return s.totalFrames
}

// Window returns the resolved [start, end) frames of a scene. Open-ended
// scenes end with the composition.
func (s *Scheduler) Window(scene Scene) (start, end int) {
	if scene.OpenEnded() {
		return scene.StartFrame, s.totalFrames
	}
	return scene.StartFrame, scene.StartFrame + scene.DurationFrames
}

// Active returns every scene whose window contains frame, in scene order.
func (s *Scheduler) Active(frame int) []ActiveScene {
	var active []ActiveScene
	for _, scene := range s.scenes {
		if scene.StartFrame > frame {
			// sorted by start, nothing later can contain frame
			break
		}
		start, end := s.Window(scene)
		if frame >= start && frame < end {
			active = append(active, ActiveScene{Scene: scene, LocalFrame: frame - start})
		}
	}
	return active
}
