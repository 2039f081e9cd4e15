package hwaccel

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cutforge/cutforge/utils"
)

// Runner executes the engine binary with the given arguments. Injectable so
// detection is testable without ffmpeg present.
type Runner func(ctx context.Context, binary string, args ...string) (string, error)

func defaultRunner(ctx context.Context, binary string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return utils.ExecuteCmd(cmd, nil)
}

// Detector probes the engine for working hardware encoders. Probing runs
// sequentially, each candidate bounded by Timeout.
type Detector struct {
	Binary  string
	Timeout time.Duration
	Run     Runner
	Log     zerolog.Logger
}

func NewDetector(binary string, log zerolog.Logger) *Detector {
	return &Detector{
		Binary:  binary,
		Timeout: 10 * time.Second,
		Run:     defaultRunner,
		Log:     log,
	}
}

// Detection is the full capability descriptor.
type Detection struct {
	Primary  Profile
	All      []Profile
	Fallback Profile
}

// Detect tries the candidates in priority order. A candidate must both be
// listed by `-encoders` and pass a smoke encode; a listed-but-non-functional
// encoder (missing driver, busy device) is silently demoted, never surfaced
// as an error. The software fallback always succeeds.
func (d *Detector) Detect(ctx context.Context) Detection {
	result := Detection{Fallback: SoftwareProfile}

	listed := d.listedEncoders(ctx)

	for _, candidate := range candidates {
		if candidate.Software() {
			result.All = append(result.All, candidate)
			continue
		}
		if !listed[candidate.Codec] {
			continue
		}
		if !d.smokeEncode(ctx, candidate) {
			d.Log.Debug().Str("encoder", candidate.Codec).
				Msg("encoder listed but smoke encode failed, demoting")
			continue
		}
		result.All = append(result.All, candidate)
	}

	result.Primary = result.All[0]
	return result
}

// listedEncoders parses `ffmpeg -encoders` output into a codec-name set.
func (d *Detector) listedEncoders(ctx context.Context) map[string]bool {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	out, err := d.Run(ctx, d.Binary, "-hide_banner", "-encoders")
	if err != nil {
		d.Log.Debug().Err(err).Msg("could not list encoders")
		return map[string]bool{}
	}

	listed := map[string]bool{}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		// Encoder lines look like " V....D h264_nvenc   NVIDIA NVENC ...".
		if len(fields) >= 2 && strings.HasPrefix(fields[0], "V") {
			listed[fields[1]] = true
		}
	}
	return listed
}

// smokeEncode runs a three-frame test encode to null output. Being listed is
// not enough: drivers may be absent even when the build has the encoder.
func (d *Detector) smokeEncode(ctx context.Context, candidate Profile) bool {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	args := []string{
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "testsrc=duration=0.2:size=256x144:rate=25",
		"-frames:v", "3",
		"-c:v", candidate.Codec,
		"-f", "null", "-",
	}
	_, err := d.Run(ctx, d.Binary, args...)
	return err == nil
}
