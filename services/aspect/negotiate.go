// Package aspect decides the working canvas, the desired output canvas, and
// the crop-vs-letterbox policy between them.
package aspect

import (
	"encoding/json"
	"math"

	"github.com/orsinium-labs/enum"
	"github.com/samber/lo"

	"github.com/cutforge/cutforge/common"
	"github.com/cutforge/cutforge/services/timeline"
)

// RatioTolerance is the relative aspect-ratio difference below which the
// dimensions are considered already compatible and no crop is emitted.
var RatioTolerance = 0.01

type Policy enum.Member[string]

var (
	// PolicyNone: dimensions already compatible, no geometry change needed.
	PolicyNone = Policy{Value: "none"}
	// PolicyLetterbox: orientation flip; pad instead of cropping so the
	// whole source frame survives.
	PolicyLetterbox = Policy{Value: "letterbox"}
	// PolicyCrop: cut a window with exactly the desired ratio out of the
	// composited frame.
	PolicyCrop = Policy{Value: "crop"}

	Policies = enum.New(PolicyNone, PolicyLetterbox, PolicyCrop)
)

//goland:noinspection GoMixedReceiverTypes
func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value)
}

// CropWindow is the crop geometry when PolicyCrop applies.
type CropWindow struct {
	Width  int
	Height int
	X      int
	Y      int
}

// Plan is the negotiated geometry for one render.
type Plan struct {
	Working common.Canvas
	Desired common.Canvas
	Policy  Policy
	Crop    CropWindow
}

// Negotiate picks working and desired canvases and the policy between them.
// The working canvas is the job's explicit export size, else the first real
// video's declared dimensions, else 1080p. A primary track carrying a
// scale or rotation transform bypasses cropping entirely: its own
// background-canvas path performs the equivalent geometry and must not be
// double-processed. A pure pan does not bypass; it shifts the crop window.
func Negotiate(timelines map[timeline.Key]*timeline.Timeline, job common.RenderJob) (Plan, error) {
	primary := primaryTrack(timelines)

	working := job.ExportSize
	if working.Zero() && primary != nil && primary.Width > 0 && primary.Height > 0 {
		working = common.Canvas{Width: primary.Width, Height: primary.Height}
	}
	if working.Zero() {
		working = common.Canvas1080
	}
	working = working.EnsureEven()

	desired := job.CustomOutputSize
	if desired.Zero() {
		desired = working
	}
	desired = desired.EnsureEven()

	plan := Plan{Working: working, Desired: desired, Policy: PolicyNone}

	sourceRatio := working.Ratio()
	desiredRatio := desired.Ratio()

	if math.Abs(desiredRatio-sourceRatio)/sourceRatio <= RatioTolerance {
		return plan, nil
	}

	if working.Portrait() != desired.Portrait() {
		plan.Policy = PolicyLetterbox
		return plan, nil
	}

	if primary != nil && primary.Transform.Reshapes() {
		return plan, nil
	}

	plan.Policy = PolicyCrop
	plan.Crop = cropWindow(working, desiredRatio, primary)
	return plan, nil
}

// cropWindow computes a crop with exactly the desired ratio, preferring to
// preserve the larger source dimension. The offset defaults to centered; a
// declared pan shifts it, +1 revealing the left/top and -1 the right/bottom.
func cropWindow(working common.Canvas, desiredRatio float64, primary *common.Track) CropWindow {
	w := working.Width
	h := working.Height

	if desiredRatio > working.Ratio() {
		h = int(math.Round(float64(working.Width) / desiredRatio))
	} else {
		w = int(math.Round(float64(working.Height) * desiredRatio))
	}
	crop := common.Canvas{Width: w, Height: h}.EnsureEven()

	window := CropWindow{
		Width:  crop.Width,
		Height: crop.Height,
		X:      (working.Width - crop.Width) / 2,
		Y:      (working.Height - crop.Height) / 2,
	}

	if primary == nil {
		return window
	}

	if maxX := working.Width - crop.Width; maxX > 0 && primary.Transform.X != 0 {
		window.X = panOffset(primary.Transform.X, maxX)
	}
	if maxY := working.Height - crop.Height; maxY > 0 && primary.Transform.Y != 0 {
		window.Y = panOffset(primary.Transform.Y, maxY)
	}
	return window
}

func panOffset(pan float64, maxRange int) int {
	offset := int(math.Round(float64(maxRange) * (1 - (pan+1)/2)))
	if offset < 0 {
		return 0
	}
	if offset > maxRange {
		return maxRange
	}
	return offset
}

// primaryTrack finds the first real (non-gap, non-image) video segment on
// the lowest video layer.
func primaryTrack(timelines map[timeline.Key]*timeline.Timeline) *common.Track {
	var best *common.Track
	bestLayer := 0
	for key, tl := range timelines {
		if key.Kind != common.KindVideo {
			continue
		}
		seg, found := lo.Find(tl.Segments, func(s timeline.Segment) bool {
			return !s.IsGap() && s.Source != nil
		})
		if !found {
			continue
		}
		if best == nil || key.Layer < bestLayer {
			best = seg.Source
			bestLayer = key.Layer
		}
	}
	return best
}
