package aspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cutforge/cutforge/common"
	"github.com/cutforge/cutforge/services/timeline"
)

func timelinesWithPrimary(track *common.Track) map[timeline.Key]*timeline.Timeline {
	return map[timeline.Key]*timeline.Timeline{
		{Layer: 0, Kind: common.KindVideo}: {Segments: []timeline.Segment{
			{Source: track, Duration: 5, Kind: common.KindVideo},
		}},
	}
}

func Test_ToleranceSkipsCrop(t *testing.T) {
	plan, err := Negotiate(nil, common.RenderJob{
		ExportSize:       common.Canvas{Width: 1920, Height: 1080},
		CustomOutputSize: common.Canvas{Width: 1910, Height: 1080},
	})
	assert.NoError(t, err)
	assert.Equal(t, PolicyNone, plan.Policy)
}

func Test_OrientationFlipLetterboxes(t *testing.T) {
	plan, err := Negotiate(nil, common.RenderJob{
		ExportSize:       common.Canvas{Width: 1080, Height: 1920},
		CustomOutputSize: common.Canvas{Width: 1920, Height: 1080},
	})
	assert.NoError(t, err)
	assert.Equal(t, PolicyLetterbox, plan.Policy)
	// Letterboxing never cuts content, so no crop window is produced.
	assert.Equal(t, CropWindow{}, plan.Crop)
}

func Test_CenteredCrop(t *testing.T) {
	plan, err := Negotiate(timelinesWithPrimary(&common.Track{ID: "a"}), common.RenderJob{
		ExportSize:       common.Canvas{Width: 1920, Height: 1080},
		CustomOutputSize: common.Canvas{Width: 1080, Height: 1080},
	})
	assert.NoError(t, err)
	assert.Equal(t, PolicyCrop, plan.Policy)
	assert.Equal(t, CropWindow{Width: 1080, Height: 1080, X: 420, Y: 0}, plan.Crop)
}

func Test_PannedCrop(t *testing.T) {
	job := common.RenderJob{
		ExportSize:       common.Canvas{Width: 1920, Height: 1080},
		CustomOutputSize: common.Canvas{Width: 1080, Height: 1080},
	}

	// +1 reveals the left edge.
	plan, err := Negotiate(timelinesWithPrimary(&common.Track{
		ID: "a", Transform: common.Transform{X: 1},
	}), job)
	assert.NoError(t, err)
	assert.Equal(t, PolicyCrop, plan.Policy)
	assert.Equal(t, 0, plan.Crop.X)

	// -1 reveals the right edge.
	plan, err = Negotiate(timelinesWithPrimary(&common.Track{
		ID: "a", Transform: common.Transform{X: -1},
	}), job)
	assert.NoError(t, err)
	assert.Equal(t, 840, plan.Crop.X)

	// Half pan lands between center and edge.
	plan, err = Negotiate(timelinesWithPrimary(&common.Track{
		ID: "a", Transform: common.Transform{X: 0.5},
	}), job)
	assert.NoError(t, err)
	assert.Equal(t, 210, plan.Crop.X)
}

func Test_ScaledPrimaryBypassesCrop(t *testing.T) {
	plan, err := Negotiate(timelinesWithPrimary(&common.Track{
		ID: "a", Transform: common.Transform{Scale: 0.5},
	}), common.RenderJob{
		ExportSize:       common.Canvas{Width: 1920, Height: 1080},
		CustomOutputSize: common.Canvas{Width: 1080, Height: 1080},
	})
	assert.NoError(t, err)
	// The transformed track's own canvas path performs the geometry; a crop
	// here would double-process it.
	assert.Equal(t, PolicyNone, plan.Policy)
}

func Test_WorkingCanvasFallbacks(t *testing.T) {
	// Explicit export size wins.
	plan, err := Negotiate(nil, common.RenderJob{ExportSize: common.Canvas4K})
	assert.NoError(t, err)
	assert.Equal(t, common.Canvas4K, plan.Working)

	// Next, the primary track's declared dimensions.
	plan, err = Negotiate(timelinesWithPrimary(&common.Track{
		ID: "a", Width: 1280, Height: 720,
	}), common.RenderJob{})
	assert.NoError(t, err)
	assert.Equal(t, common.Canvas{Width: 1280, Height: 720}, plan.Working)

	// Finally, 1080p.
	plan, err = Negotiate(nil, common.RenderJob{})
	assert.NoError(t, err)
	assert.Equal(t, common.Canvas1080, plan.Working)

	// Desired defaults to working.
	assert.Equal(t, plan.Working, plan.Desired)
}

func Test_OddDimensionsRoundedEven(t *testing.T) {
	plan, err := Negotiate(nil, common.RenderJob{
		ExportSize: common.Canvas{Width: 1919, Height: 1079},
	})
	assert.NoError(t, err)
	assert.Equal(t, common.Canvas{Width: 1920, Height: 1080}, plan.Working)
}
