package common

// Transform is a track's normalized placement on the canvas.
// X and Y are in [-1, 1] where 0 is centered, Scale of 0 or 1 means
// unscaled, Rotation is in degrees.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// Zero reports whether the transform would leave the frame untouched.
func (t Transform) Zero() bool {
	return t.X == 0 && t.Y == 0 && (t.Scale == 0 || t.Scale == 1) && t.Rotation == 0
}

// Reshapes reports whether the transform changes the frame's geometry beyond
// a pure pan. A pan-only transform on the bottom layer is realized by the
// crop stage instead of the overlay path.
func (t Transform) Reshapes() bool {
	return (t.Scale != 0 && t.Scale != 1) || t.Rotation != 0
}

// Track is one placed clip, gap marker or text item as the editor declared
// it. The compiler consumes tracks read-only.
type Track struct {
	ID string `json:"id"`

	// Path is the source media path. Empty for gap markers and text tracks.
	Path string `json:"path,omitempty"`
	// AudioPath is an optional separate audio source for a video track.
	AudioPath string `json:"audioPath,omitempty"`

	// Kind is the explicit track type. When empty it is classified from the
	// path extension at catalog time.
	Kind Kind `json:"trackType,omitempty"`
	// GapKind marks this track as a declared gap in the given medium.
	GapKind Kind `json:"gapType,omitempty"`

	// Source trim window, in seconds.
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`

	// Placement on the timeline, in frames.
	TimelineStartFrame int `json:"timelineStartFrame"`
	TimelineEndFrame   int `json:"timelineEndFrame"`

	// Layer 0 is the base; higher layers composite on top.
	Layer int `json:"layer"`

	Transform Transform `json:"transform"`

	Muted bool `json:"muted"`
	// Hidden excludes the track from the video composite; its audio still
	// plays unless also muted.
	Hidden bool `json:"hidden"`

	VolumeDB float64 `json:"volumeDb"`
	FadeIn   float64 `json:"fadeIn"`
	FadeOut  float64 `json:"fadeOut"`

	// Declared source dimensions, if the editor knows them.
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	AspectRatio float64 `json:"aspectRatio,omitempty"`

	// Text content for text tracks.
	Text     string `json:"text,omitempty"`
	FontSize int    `json:"fontSize,omitempty"`
}

// IsGap reports whether the track is a declared gap marker.
func (t *Track) IsGap() bool {
	return t.GapKind != (Kind{}) || t.Kind == KindGap
}

// AudioSource returns the path the track's audio should be read from.
func (t *Track) AudioSource() string {
	if t.AudioPath != "" {
		return t.AudioPath
	}
	return t.Path
}
