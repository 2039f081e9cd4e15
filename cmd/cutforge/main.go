package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cutforge/cutforge/common"
	"github.com/cutforge/cutforge/services/ffmpeg"
	"github.com/cutforge/cutforge/services/hwaccel"
	"github.com/cutforge/cutforge/services/render"
)

// Project is the file the editor exports: the ordered track list plus the
// render job.
type Project struct {
	Tracks []*common.Track  `json:"tracks"`
	Job    common.RenderJob `json:"job"`
}

func main() {
	projectPath := flag.String("project", "", "project JSON file (tracks + job)")
	output := flag.String("o", "", "override the job's output path")
	size := flag.String("size", "", "override the job's export size, e.g. 1920x1080")
	hardware := flag.String("hw", "", "hardware preference: auto, software, nvenc, qsv, amf, videotoolbox, vaapi")
	run := flag.Bool("run", false, "execute the command instead of printing it")
	schema := flag.Bool("schema", false, "print the project-file JSON schema and exit")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if *schema {
		printSchema()
		return
	}

	if *projectPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	project, err := loadProject(*projectPath)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load project")
	}
	if *output != "" {
		project.Job.OutputPath = *output
	}
	if *size != "" {
		canvas, err := common.CanvasFromString(*size)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid export size")
		}
		project.Job.ExportSize = canvas
	}
	if *hardware != "" {
		project.Job.Hardware = *hardware
	}
	if project.Job.ID == uuid.Nil {
		project.Job.ID = uuid.New()
	}

	fillDeclaredDimensions(project.Tracks, log)

	profile := resolveProfile(project.Job, log)
	log.Info().Str("profile", profile.Name).Str("codec", profile.Codec).Msg("encoder resolved")

	cmd, err := render.Render(project.Tracks, project.Job, profile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("compile failed")
	}

	if !*run {
		fmt.Println("ffmpeg " + strings.Join(cmd.Args, " "))
		return
	}

	log.Info().Float64("duration", cmd.Duration).Msg("rendering")
	_, err = ffmpeg.Do(cmd.Args, ffmpeg.StreamInfo{TotalSeconds: cmd.Duration}, func(p ffmpeg.Progress) {
		log.Info().
			Float64("percent", p.Percent).
			Str("speed", p.Speed).
			Msg("progress")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("render failed")
	}
	log.Info().Str("output", project.Job.OutputPath).Msg("done")
}

func loadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var project Project
	err = json.Unmarshal(data, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// fillDeclaredDimensions probes sources the editor didn't declare
// dimensions for. Best effort: a failed probe just leaves the declaration
// empty and the negotiator falls back to defaults.
func fillDeclaredDimensions(tracks []*common.Track, log zerolog.Logger) {
	for _, track := range tracks {
		if track.IsGap() || track.Path == "" || (track.Width > 0 && track.Height > 0) {
			continue
		}
		info, err := ffmpeg.GetStreamInfo(track.Path)
		if err != nil {
			log.Debug().Err(err).Str("path", track.Path).Msg("probe failed")
			continue
		}
		track.Width = info.Width
		track.Height = info.Height
	}
}

// resolveProfile honors an explicit hardware preference and otherwise runs
// cached auto-detection.
func resolveProfile(job common.RenderJob, log zerolog.Logger) hwaccel.Profile {
	switch job.Hardware {
	case "software":
		return hwaccel.SoftwareProfile
	case "", "auto":
		detector := hwaccel.NewDetector("ffmpeg", log)
		return capabilities.Get(context.Background(), detector).Primary
	default:
		detector := hwaccel.NewDetector("ffmpeg", log)
		detection := capabilities.Get(context.Background(), detector)
		for _, p := range detection.All {
			if p.Name == job.Hardware {
				return p
			}
		}
		log.Warn().Str("requested", job.Hardware).Msg("requested encoder unavailable, using fallback")
		return detection.Fallback
	}
}

var capabilities = hwaccel.NewCapabilityCache()
