package hwaccel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

const encoderList = ` V....D libx264        libx264 H.264 / AVC / MPEG-4 AVC
 V....D h264_nvenc     NVIDIA NVENC H.264 encoder
 V....D h264_qsv       H.264 / AVC (Intel Quick Sync Video)
 A....D aac            AAC (Advanced Audio Coding)`

func fakeDetector(run Runner) *Detector {
	return &Detector{
		Binary:  "ffmpeg",
		Timeout: time.Second,
		Run:     run,
		Log:     zerolog.Nop(),
	}
}

func Test_DetectPicksHighestWorkingEncoder(t *testing.T) {
	d := fakeDetector(func(_ context.Context, _ string, args ...string) (string, error) {
		if args[len(args)-1] == "-encoders" {
			return encoderList, nil
		}
		return "", nil
	})

	detection := d.Detect(context.Background())
	assert.Equal(t, "nvenc", detection.Primary.Name)
	assert.Equal(t, "software", detection.Fallback.Name)
}

func Test_DetectDemotesFailingSmokeEncode(t *testing.T) {
	// nvenc is listed but its smoke encode fails (no driver); qsv works.
	d := fakeDetector(func(_ context.Context, _ string, args ...string) (string, error) {
		joined := strings.Join(args, " ")
		if strings.HasSuffix(joined, "-encoders") {
			return encoderList, nil
		}
		if strings.Contains(joined, "h264_nvenc") {
			return "", errors.New("Cannot load libnvidia-encode.so.1")
		}
		return "", nil
	})

	detection := d.Detect(context.Background())
	assert.Equal(t, "qsv", detection.Primary.Name)
	for _, p := range detection.All {
		assert.NotEqual(t, "nvenc", p.Name)
	}
}

func Test_DetectFallsBackToSoftware(t *testing.T) {
	d := fakeDetector(func(_ context.Context, _ string, _ ...string) (string, error) {
		return "", errors.New("no ffmpeg here")
	})

	detection := d.Detect(context.Background())
	assert.Equal(t, "software", detection.Primary.Name)
	assert.Len(t, detection.All, 1)
}

func Test_SmokeEncodeArgs(t *testing.T) {
	var seen []string
	d := fakeDetector(func(_ context.Context, _ string, args ...string) (string, error) {
		seen = args
		return "", nil
	})

	assert.True(t, d.smokeEncode(context.Background(), candidates[0]))
	joined := strings.Join(seen, " ")
	assert.Contains(t, joined, "-f lavfi")
	assert.Contains(t, joined, "-frames:v 3")
	assert.Contains(t, joined, "-c:v h264_nvenc")
	assert.Contains(t, joined, "-f null -")
}

func Test_CapabilityCacheMemoizes(t *testing.T) {
	calls := 0
	d := fakeDetector(func(_ context.Context, _ string, args ...string) (string, error) {
		if args[len(args)-1] == "-encoders" {
			calls++
		}
		return encoderList, nil
	})

	cache := NewCapabilityCache()
	first := cache.Get(context.Background(), d)
	second := cache.Get(context.Background(), d)
	assert.Equal(t, first.Primary.Name, second.Primary.Name)
	assert.Equal(t, 1, calls)

	cache.Invalidate(d.Binary)
	cache.Get(context.Background(), d)
	assert.Equal(t, 2, calls)
}

func Test_ProfileByName(t *testing.T) {
	assert.Equal(t, "vaapi", ProfileByName("vaapi").Name)
	assert.Equal(t, SoftwareProfile, ProfileByName("quantum"))
}

func Test_SoftwareFilterSet(t *testing.T) {
	assert.True(t, SoftwareProfile.Software())
	assert.Equal(t, "scale", SoftwareProfile.Filters.Scale)
	assert.False(t, ProfileByName("nvenc").Software())
	assert.Equal(t, "scale_cuda", ProfileByName("nvenc").Filters.Scale)
}
