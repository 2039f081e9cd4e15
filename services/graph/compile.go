package graph

import (
	"github.com/ansel1/merry/v2"
	"github.com/rs/zerolog"

	"github.com/cutforge/cutforge/common"
	"github.com/cutforge/cutforge/services/aspect"
	"github.com/cutforge/cutforge/services/catalog"
	"github.com/cutforge/cutforge/services/hwaccel"
	"github.com/cutforge/cutforge/services/timeline"
)

var (
	// FillColor pads the base layer and letterbox borders.
	FillColor = "black"
	// MuteDB is the volume sentinel applied to muted audio segments.
	MuteDB = -60.0

	ErrEmptyTimeline = merry.Sentinel("timeline has no segments at all")
)

// Input is everything the compiler needs; it holds no mutable state of its
// own, so compilation is a pure transformation.
type Input struct {
	Catalog   *catalog.Inputs
	Timelines map[timeline.Key]*timeline.Timeline
	Plan      aspect.Plan
	Job       common.RenderJob
	Profile   hwaccel.Profile
	Log       zerolog.Logger
}

// Result is the compiled graph plus the final pins to map.
type Result struct {
	Stages []string
	Video  Pin
	// Audio is the zero Pin when no audio-bearing layer exists.
	Audio    Pin
	Duration float64
}

func (r *Result) HasAudio() bool {
	return !r.Audio.Zero()
}

// Compile emits the full filter graph in its fixed stage order: per-segment
// normalization, per-layer concatenation, z-ordered compositing, aspect
// crop, final resize, subtitle burn-in, and the parallel audio mix. The
// stage order is never reorderable; later stages assume the geometric state
// left by earlier ones.
func Compile(in Input) (*Result, error) {
	total := timeline.TotalDuration(in.Timelines)
	if total <= 0 {
		return nil, merry.Wrap(ErrEmptyTimeline)
	}

	b := NewBuilder()

	video := compileVideo(b, in, total)
	audio := compileAudio(b, in, total)

	return &Result{
		Stages:   b.Stages(),
		Video:    video,
		Audio:    audio,
		Duration: total,
	}, nil
}

func (in Input) fps() int {
	if in.Job.FrameRate > 0 {
		return in.Job.FrameRate
	}
	return 30
}
