// Package render is the compiler facade: tracks plus a job in, a complete
// engine command out. It never executes the command itself; interpreting
// exit codes is the job runner's concern.
package render

import (
	"os"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/rs/zerolog"

	"github.com/cutforge/cutforge/common"
	"github.com/cutforge/cutforge/services/aspect"
	"github.com/cutforge/cutforge/services/catalog"
	"github.com/cutforge/cutforge/services/graph"
	"github.com/cutforge/cutforge/services/hwaccel"
	"github.com/cutforge/cutforge/services/timeline"
)

// Render compiles the timeline into a full command for the transcoding
// engine. It is a pure, synchronous transformation; the only I/O is the
// fail-fast existence check on referenced subtitle and font paths.
func Render(tracks []*common.Track, job common.RenderJob, profile hwaccel.Profile, log zerolog.Logger) (*common.RenderCommand, error) {
	err := checkAssets(job)
	if err != nil {
		return nil, err
	}

	inputs, err := catalog.Catalog(tracks)
	if err != nil {
		return nil, err
	}

	fps := job.FrameRate
	if fps <= 0 {
		fps = 30
	}

	timelines, err := timeline.Build(tracks, fps)
	if err != nil {
		return nil, err
	}

	plan, err := aspect.Negotiate(timelines, job)
	if err != nil {
		return nil, err
	}

	result, err := graph.Compile(graph.Input{
		Catalog:   inputs,
		Timelines: timelines,
		Plan:      plan,
		Job:       job,
		Profile:   profile,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}

	args := Assemble(inputs, result, job, profile)

	return &common.RenderCommand{
		Args:        args,
		FilterGraph: strings.Join(result.Stages, ";"),
		Duration:    result.Duration,
	}, nil
}

// checkAssets fails fast on missing subtitle/font files instead of letting
// the engine fail opaquely later.
func checkAssets(job common.RenderJob) error {
	if job.SubtitlePath != "" {
		if _, err := os.Stat(job.SubtitlePath); err != nil {
			return merry.Wrap(common.ErrMissingAsset, merry.AppendMessage(job.SubtitlePath))
		}
	}
	for _, dir := range job.FontDirs {
		if _, err := os.Stat(dir); err != nil {
			return merry.Wrap(common.ErrMissingAsset, merry.AppendMessage(dir))
		}
	}
	return nil
}
