package ffmpeg

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cutforge/cutforge/cache"
	"github.com/cutforge/cutforge/utils"
	"github.com/samber/lo"
)

type FFProbeStream struct {
	Index              int    `json:"index"`
	CodecName          string `json:"codec_name"`
	CodecType          string `json:"codec_type"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	SampleAspectRatio  string `json:"sample_aspect_ratio"`
	DisplayAspectRatio string `json:"display_aspect_ratio"`
	PixFmt             string `json:"pix_fmt"`
	RFrameRate         string `json:"r_frame_rate"`
	AvgFrameRate       string `json:"avg_frame_rate"`
	StartTime          string `json:"start_time"`
	Duration           string `json:"duration"`
	NbFrames           string `json:"nb_frames"`
	Channels           int    `json:"channels"`
	ChannelLayout      string `json:"channel_layout"`
	SampleRate         string `json:"sample_rate"`
}

type FFProbeResult struct {
	Streams []FFProbeStream `json:"streams"`
	Format  struct {
		Filename   string `json:"filename"`
		NbStreams  int    `json:"nb_streams"`
		FormatName string `json:"format_name"`
		StartTime  string `json:"start_time"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
}

func doProbe(path string) (*FFProbeResult, error) {
	cmd := exec.Command(
		"ffprobe",
		"-hide_banner",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	result, err := utils.ExecuteCmd(cmd, nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't execute ffprobe %s, %s", path, err.Error())
	}

	var info FFProbeResult
	err = json.Unmarshal([]byte(result), &info)

	return &info, err
}

// ProbeFile returns information about the specified media file. Requires
// ffprobe present. Results are cached per path.
func ProbeFile(filePath string) (*FFProbeResult, error) {
	return cache.GetOrSet("probe:"+filePath, func() (*FFProbeResult, error) {
		return doProbe(filePath)
	})
}

func GetStreamInfo(path string) (StreamInfo, error) {
	info, err := ProbeFile(path)
	if err != nil {
		return StreamInfo{}, err
	}
	return ProbeResultToInfo(info), nil
}

// ProbeResultToInfo flattens an ffprobe result into the few fields the
// compiler cares about.
func ProbeResultToInfo(info *FFProbeResult) StreamInfo {
	streamInfo := StreamInfo{
		HasAudio: lo.SomeBy(info.Streams, func(i FFProbeStream) bool {
			return i.CodecType == "audio"
		}),
		HasVideo: lo.SomeBy(info.Streams, func(i FFProbeStream) bool {
			return i.CodecType == "video"
		}),
	}

	if len(info.Streams) == 0 {
		return streamInfo
	}

	stream, found := lo.Find(info.Streams, func(i FFProbeStream) bool {
		return i.CodecType == "video"
	})
	if !found {
		stream = info.Streams[0]
	}
	if streamInfo.HasVideo {
		streamInfo.Height = stream.Height
		streamInfo.Width = stream.Width
	}

	frames, _ := strconv.ParseInt(stream.NbFrames, 10, 64)
	streamInfo.TotalFrames = int(frames)

	floatSeconds, _ := strconv.ParseFloat(stream.Duration, 64)
	if floatSeconds == 0 {
		floatSeconds, _ = strconv.ParseFloat(info.Format.Duration, 64)
	}
	streamInfo.TotalSeconds = floatSeconds

	if stream.RFrameRate != "" {
		parts := strings.Split(stream.RFrameRate, "/")
		if len(parts) == 2 {
			num, _ := strconv.ParseFloat(parts[0], 64)
			den, _ := strconv.ParseFloat(parts[1], 64)
			if den != 0 {
				streamInfo.FrameRate = int(num / den)
			}
		}
	}

	return streamInfo
}
