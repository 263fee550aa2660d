package motionpath

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PathSpace selects the space motion paths are displayed in.
type PathSpace int

const (
	// WorldSpace displays paths in world coordinates.
	WorldSpace PathSpace = iota
	// CameraSpace displays paths relative to the animated camera, so a
	// path drawn on a moving shot stays pinned to the framing.
	CameraSpace
)

// StrokeMode selects how stroke refitting maps keys onto a stroke.
type StrokeMode int

const (
	// StrokeClosest moves each key to its closest point on the stroke.
	StrokeClosest StrokeMode = iota
	// StrokeSpread distributes keys evenly along the stroke's arc length.
	StrokeSpread
)

// Settings holds the shared display and behavior options for all
// tracks owned by a [Manager]. There is no global instance; the value
// is passed explicitly to the components that read it, and the host
// mutates it directly between frames.
type Settings struct {
	// StartTime and EndTime bound the cacheable animation range.
	StartTime float64 `toml:"start_time"`
	EndTime   float64 `toml:"end_time"`

	// FramesBack and FramesFront set how far the displayed path
	// extends behind and ahead of the current frame.
	FramesBack  float64 `toml:"frames_back"`
	FramesFront float64 `toml:"frames_front"`

	PathSpace  PathSpace  `toml:"path_space"`
	StrokeMode StrokeMode `toml:"stroke_mode"`

	// UsePivots folds the rotate-pivot and rotate-pivot-translate
	// vectors into cached parent matrices.
	UsePivots bool `toml:"use_pivots"`

	ShowPath              bool `toml:"show_path"`
	ShowTangents          bool `toml:"show_tangents"`
	ShowKeyFrames         bool `toml:"show_key_frames"`
	ShowKeyFrameNumbers   bool `toml:"show_key_frame_numbers"`
	ShowFrameNumbers      bool `toml:"show_frame_numbers"`
	ShowRotationKeyFrames bool `toml:"show_rotation_key_frames"`
	AlternatingFrames     bool `toml:"alternating_frames"`

	// DrawTimeInterval spaces frame number labels along the path.
	DrawTimeInterval float64 `toml:"draw_time_interval"`

	// DrawFrameInterval and DrawKeyframeCount control sketch-mode key
	// generation: count keys placed every interval frames.
	DrawFrameInterval int `toml:"draw_frame_interval"`
	DrawKeyframeCount int `toml:"draw_keyframe_count"`

	PathSize  float64 `toml:"path_size"`
	FrameSize float64 `toml:"frame_size"`
}

// DefaultSettings returns the settings a fresh session starts from.
func DefaultSettings() *Settings {
	return &Settings{
		StartTime:         1,
		EndTime:           120,
		FramesBack:        20,
		FramesFront:       20,
		ShowPath:          true,
		ShowTangents:      true,
		ShowKeyFrames:     true,
		DrawTimeInterval:  5,
		DrawFrameInterval: 5,
		DrawKeyframeCount: 4,
		PathSize:          1,
		FrameSize:         3,
	}
}

// LoadSettings reads settings from a TOML file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	s := DefaultSettings()
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("load settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings to a TOML file.
func (s *Settings) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
