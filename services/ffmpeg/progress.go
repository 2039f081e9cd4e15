package ffmpeg

import (
	"strconv"
	"strings"
)

type ProgressCallback func(Progress)

type Progress struct {
	Params         string  `json:"command"`
	Percent        float64 `json:"percent"`
	CurrentSeconds int     `json:"currentSeconds"`
	TotalSeconds   float64 `json:"totalSeconds"`
	CurrentFrame   int     `json:"currentFrame"`
	TotalFrames    int     `json:"totalFrames"`
	Bitrate        string  `json:"bitrate"`
	Speed          string  `json:"speed"`
}

// StreamInfo is the subset of probed stream facts the compiler and the
// progress parser need.
type StreamInfo struct {
	HasAudio     bool
	HasVideo     bool
	TotalFrames  int
	TotalSeconds float64
	FrameRate    int
	Height       int
	Width        int
}

// parseProgressCallback turns the key=value lines ffmpeg emits with
// `-progress pipe:1` into Progress snapshots, flushed on every "progress"
// line.
func parseProgressCallback(command []string, info StreamInfo, cb ProgressCallback) func(string) {
	var progress Progress

	progress.Params = strings.Join(command, " ")
	progress.TotalFrames = info.TotalFrames
	progress.TotalSeconds = info.TotalSeconds

	return func(line string) {
		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			return
		}

		switch parts[0] {
		case "frame":
			frame, _ := strconv.ParseInt(parts[1], 10, 64)
			progress.CurrentFrame = int(frame)
			if progress.TotalFrames != 0 && frame != 0 {
				progress.Percent = float64(frame) / float64(progress.TotalFrames) * 100
			}
		case "out_time_us":
			us, _ := strconv.ParseFloat(parts[1], 64)
			progress.CurrentSeconds = int(us / 1000 / 1000)
			if progress.TotalSeconds != 0 && us != 0 {
				progress.Percent = us / (progress.TotalSeconds * 1000 * 1000) * 100
			}
		case "bitrate":
			progress.Bitrate = parts[1]
		case "speed":
			progress.Speed = parts[1]
		case "progress":
			if parts[1] == "end" {
				progress.Percent = 100
			}
			if cb != nil {
				cb(progress)
			}
		}
	}
}
