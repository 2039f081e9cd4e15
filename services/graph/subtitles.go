package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cutforge/cutforge/common"
	"github.com/cutforge/cutforge/services/timeline"
)

// filterPathReplacer applies the escaping rules for paths embedded in filter
// expressions: backslash, colon and quote. These rules are specific to the
// filter-graph syntax, not the shell; -i and output arguments stay literal.
var filterPathReplacer = strings.NewReplacer(
	`\`, `\\`,
	`:`, `\:`,
	`'`, `\'`,
)

// EscapeFilterPath escapes a path for embedding inside a filter expression.
func EscapeFilterPath(path string) string {
	return filterPathReplacer.Replace(path)
}

var drawTextReplacer = strings.NewReplacer(
	`\`, `\\`,
	`:`, `\:`,
	`'`, `\\\'`,
	`%`, `\%`,
)

// subtitleFilter burns the external subtitle file into the frame. ASS files
// carry their own styling and use the ass renderer; everything else goes
// through the subtitles filter.
func subtitleFilter(job common.RenderJob) string {
	name := "subtitles"
	if job.SubtitleFormat == "ass" || strings.EqualFold(filepath.Ext(job.SubtitlePath), ".ass") {
		name = "ass"
	}

	filter := fmt.Sprintf("%s=filename='%s'", name, EscapeFilterPath(job.SubtitlePath))

	if len(job.FontDirs) > 0 {
		fontsDir := strings.Join(job.FontDirs, string(os.PathListSeparator))
		filter += fmt.Sprintf(":fontsdir='%s'", EscapeFilterPath(fontsDir))
	}

	return filter
}

// drawtextFilter renders one text segment directly in the compositing
// chain, windowed to the segment's active seconds.
func drawtextFilter(seg *timeline.Segment, canvas common.Canvas) string {
	track := seg.Source

	size := track.FontSize
	if size == 0 {
		size = canvas.Height / 12
	}

	fx := (track.Transform.X + 1) / 2
	fy := (track.Transform.Y + 1) / 2

	return fmt.Sprintf(
		"drawtext=text='%s':fontsize=%d:fontcolor=white:borderw=2:x=(w-text_w)*%s:y=(h-text_h)*%s:enable='between(t,%s,%s)'",
		drawTextReplacer.Replace(track.Text), size,
		secs(fx), secs(fy),
		secs(seg.StartTime), secs(seg.EndTime()))
}
