package common

import (
	"github.com/ansel1/merry/v2"
	"github.com/google/uuid"
)

var (
	ErrMissingAsset = merry.Sentinel("referenced asset file not found")
	ErrNoTimeline   = merry.Sentinel("segment declares a layer/medium with no timeline")
)

// RenderJob is the export request the editor hands to the compiler.
type RenderJob struct {
	ID uuid.UUID `json:"id"`

	// FrameRate is the target frame rate. 0 keeps source timing and assumes
	// 30 for timeline placement and synthetic clips.
	FrameRate int `json:"frameRate"`

	// ExportSize is the working canvas. Zero means derive it from the first
	// real video track.
	ExportSize Canvas `json:"exportSize"`
	// CustomOutputSize is the desired output canvas when it differs from the
	// working canvas.
	CustomOutputSize Canvas `json:"customOutputSize"`
	// AspectRatio is the target aspect string ("16:9"), informational.
	AspectRatio string `json:"aspectRatio,omitempty"`

	// Subtitle burn-in. The subtitle file is produced by an external
	// collaborator; the compiler never parses it.
	SubtitlePath   string   `json:"subtitlePath,omitempty"`
	SubtitleFormat string   `json:"subtitleFormat,omitempty"`
	FontFamilies   []string `json:"fontFamilies,omitempty"`
	// FontDirs is the font-family list resolved to local directories by the
	// external font resolver.
	FontDirs []string `json:"fontDirs,omitempty"`

	// Hardware is the preferred acceleration ("", "auto", "software",
	// "nvenc", ...).
	Hardware string `json:"hardware,omitempty"`

	Preset       string `json:"preset,omitempty"`
	CRF          int    `json:"crf,omitempty"`
	AudioBitrate string `json:"audioBitrate,omitempty"`
	Threads      int    `json:"threads,omitempty"`

	OutputPath string `json:"outputPath"`
}

// RenderCommand is the compiled result: the full argument vector for the
// transcoding engine plus the joined filter graph for inspection.
type RenderCommand struct {
	Args        []string `json:"args"`
	FilterGraph string   `json:"filterGraph"`
	// Duration is the total timeline duration in seconds, used by progress
	// reporting when the command is executed.
	Duration float64 `json:"duration"`
}
