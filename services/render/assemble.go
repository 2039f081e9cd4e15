package render

import (
	"strconv"
	"strings"

	"github.com/cutforge/cutforge/common"
	"github.com/cutforge/cutforge/services/catalog"
	"github.com/cutforge/cutforge/services/graph"
	"github.com/cutforge/cutforge/services/hwaccel"
)

const (
	defaultPreset       = "medium"
	defaultCRF          = 23
	defaultAudioBitrate = "192k"
)

// Assemble serializes the catalog, graph and job into the final argument
// vector. Ordering is deterministic so command strings are reproducible:
// inputs, filter graph, maps, codec flags, timing flags, output.
func Assemble(inputs *catalog.Inputs, result *graph.Result, job common.RenderJob, profile hwaccel.Profile) []string {
	args := []string{
		"-progress", "pipe:1",
		"-hide_banner",
	}

	for _, input := range inputs.All {
		args = append(args, "-i", input.Path)
	}

	args = append(args,
		"-filter_complex", strings.Join(result.Stages, ";"),
		"-map", result.Video.Map(),
	)
	if result.HasAudio() {
		args = append(args, "-map", result.Audio.Map())
	}

	if profile.Software() {
		preset := job.Preset
		if preset == "" {
			preset = defaultPreset
		}
		crf := job.CRF
		if crf == 0 {
			crf = defaultCRF
		}
		args = append(args,
			"-c:v", profile.Codec,
			"-preset", preset,
			"-crf", strconv.Itoa(crf),
		)
	} else {
		// Hardware flags substitute the software codec block wholesale.
		args = append(args, profile.EncoderFlags...)
	}
	args = append(args, "-pix_fmt", "yuv420p")

	if result.HasAudio() {
		bitrate := job.AudioBitrate
		if bitrate == "" {
			bitrate = defaultAudioBitrate
		}
		args = append(args, "-c:a", "aac", "-b:a", bitrate)
	}

	if job.FrameRate > 0 {
		args = append(args, "-r", strconv.Itoa(job.FrameRate))
	}
	if job.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(job.Threads))
	}

	args = append(args, "-y", job.OutputPath)

	return args
}
