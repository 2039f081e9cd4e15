package graph

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/cutforge/cutforge/common"
	"github.com/cutforge/cutforge/services/aspect"
	"github.com/cutforge/cutforge/services/timeline"
)

// overlayItem is one entry of the unified compositing chain: either a
// normalized layer stream or a drawtext segment, ordered strictly by layer.
type overlayItem struct {
	layer       int
	pin         Pin
	fullCanvas  bool
	first, last float64
	text        *timeline.Segment
}

// compileVideo emits the video half of the graph: normalize, per-layer
// concat, z-ordered compositing, crop, resize, subtitles.
func compileVideo(b *Builder, in Input, total float64) Pin {
	layerKeys := visualLayers(in.Timelines)

	var base Pin
	var baseEnd float64
	var items []overlayItem

	if len(layerKeys) == 0 {
		// No video layers at all: degrade to a flat-color base spanning the
		// declared total duration instead of failing.
		base = gapClip(b, in, total, true)
		baseEnd = total
	} else {
		for i, key := range layerKeys {
			isBase := i == 0
			stream := compileLayer(b, in, key, isBase)
			if isBase {
				base = stream.pin
				baseEnd = in.Timelines[key].TotalDuration()
				continue
			}
			items = append(items, stream)
		}
	}

	// Text segments join the same z-ordered chain as stream overlays.
	for key, tl := range in.Timelines {
		if key.Kind != common.KindText {
			continue
		}
		for i := range tl.Segments {
			seg := &tl.Segments[i]
			if seg.IsGap() || seg.Source == nil {
				continue
			}
			items = append(items, overlayItem{layer: key.Layer, text: seg})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].layer < items[j].layer
	})

	// Right-pad the base so the output never goes blank before the longest
	// timeline (often audio) has finished.
	if total-baseEnd > GapEpsilonSeconds(in.fps()) {
		pad := gapClip(b, in, total-baseEnd, true)
		base = b.Chain("concat=n=2:v=1:a=0,setsar=1", base, pad)
	}

	composite := base
	for _, item := range items {
		if item.text != nil {
			composite = b.Chain(drawtextFilter(item.text, in.Plan.Working), composite)
			continue
		}
		position := "(main_w-overlay_w)/2:(main_h-overlay_h)/2"
		if item.fullCanvas {
			position = "0:0"
		}
		filter := fmt.Sprintf("%s=%s:enable='between(t,%s,%s)'",
			in.Profile.Filters.Overlay, position, secs(item.first), secs(item.last))
		composite = b.Chain(filter, composite, item.pin)
	}

	current := in.Plan.Working
	if in.Plan.Policy == aspect.PolicyCrop {
		c := in.Plan.Crop
		composite = b.Chain(fmt.Sprintf("%s=%d:%d:%d:%d",
			in.Profile.Filters.Crop, c.Width, c.Height, c.X, c.Y), composite)
		current = common.Canvas{Width: c.Width, Height: c.Height}
	}

	if current != in.Plan.Desired {
		composite = b.Chain(resizeFilter(in, current, in.Plan.Desired), composite)
	}

	if in.Job.SubtitlePath != "" {
		// Burn-in is resolution-dependent, so it comes after the final
		// resize. Subtitle renderers can perturb the SAR, hence the
		// re-normalization.
		composite = b.Chain(subtitleFilter(in.Job)+",setsar=1", composite)
	}

	return composite
}

// layerStream is a per-layer normalized, concatenated stream.
type layerStream = overlayItem

// compileLayer normalizes each segment of one (layer, video|image) timeline
// and concatenates them into a single continuous stream.
func compileLayer(b *Builder, in Input, key timeline.Key, isBase bool) layerStream {
	tl := in.Timelines[key]

	// concat auto-negotiates pixel format but rejects inputs with unequal
	// resolutions, so any layer that will concatenate renders every segment
	// on a full working canvas.
	fullCanvas := isBase || len(tl.Segments) > 1 ||
		lo.SomeBy(tl.Segments, func(s timeline.Segment) bool {
			return !s.IsGap() && s.Source != nil && !s.Source.Transform.Zero()
		})

	var pins []Pin
	for _, seg := range tl.Segments {
		pins = append(pins, normalizeSegment(b, in, seg, isBase, fullCanvas))
	}

	var out Pin
	if len(pins) == 1 {
		out = pins[0]
	} else {
		out = b.Chain(fmt.Sprintf("concat=n=%d:v=1:a=0,setsar=1", len(pins)), pins...)
	}

	// Frame-rate normalization happens once per layer, not per segment.
	if in.Job.FrameRate > 0 {
		out = b.Chain(fmt.Sprintf("fps=%d,setsar=1", in.Job.FrameRate), out)
	}

	first, last := activeWindow(tl)
	return layerStream{
		layer:      key.Layer,
		pin:        out,
		fullCanvas: fullCanvas,
		first:      first,
		last:       last,
	}
}

// normalizeSegment turns one segment into a working-canvas stream: gaps
// become flat (base) or zero-opacity (overlay) clips, media is trimmed,
// timestamp-reset and scaled, and every result is SAR-normalized because a
// downstream concat rejects mixed-SAR inputs.
func normalizeSegment(b *Builder, in Input, seg timeline.Segment, isBase, fullCanvas bool) Pin {
	if seg.IsGap() || seg.Source == nil {
		return gapClip(b, in, seg.Duration, isBase)
	}

	idx, err := in.Catalog.IndexFor(seg.Source)
	if err != nil {
		// One dropped clip beats an aborted build: substitute a gap clip of
		// equal duration so layer timing stays intact.
		in.Log.Warn().Err(err).Str("path", seg.Source.Path).
			Msg("segment source not cataloged, dropping clip")
		return gapClip(b, in, seg.Duration, isBase)
	}

	canvas := in.Plan.Working
	scale := in.Profile.Filters.Scale

	var chain string
	switch seg.Kind {
	case common.KindImage:
		chain = fmt.Sprintf(
			"loop=loop=-1:size=1:start=0,fps=%d,trim=duration=%s,setpts=PTS-STARTPTS",
			in.fps(), secs(seg.Duration))
	default:
		chain = fmt.Sprintf("trim=start=%s:duration=%s,setpts=PTS-STARTPTS",
			secs(seg.SourceStart), secs(seg.Duration))
	}

	// A pan-only transform on the base layer is realized by the crop stage,
	// so the segment normalizes like an untransformed one.
	transformed := !seg.Source.Transform.Zero() &&
		(!isBase || seg.Source.Transform.Reshapes())

	switch {
	case transformed:
		return positionOnCanvas(b, in, seg, chain, idx, isBase)
	case isBase && seg.Kind != common.KindImage:
		// The bottom video layer pads to full coverage; upper layers and all
		// images scale without padding to stay transparent outside content.
		chain += fmt.Sprintf(
			",%s=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=%s,setsar=1",
			scale, canvas.Width, canvas.Height, canvas.Width, canvas.Height, FillColor)
		return b.Chain(chain, SourcePin(idx, 'v'))
	case fullCanvas:
		// The layer concatenates or a sibling carries a transform, so every
		// segment lives on a full-size canvas; center this one on a
		// synthetic background.
		content := b.Chain(chain+fmt.Sprintf(",%s=%d:%d:force_original_aspect_ratio=decrease",
			scale, canvas.Width, canvas.Height), SourcePin(idx, 'v'))
		bg := gapClip(b, in, seg.Duration, isBase)
		return b.Chain(fmt.Sprintf(
			"%s=(main_w-overlay_w)/2:(main_h-overlay_h)/2,setsar=1",
			in.Profile.Filters.Overlay), bg, content)
	default:
		chain += fmt.Sprintf(",%s=%d:%d:force_original_aspect_ratio=decrease,setsar=1",
			scale, canvas.Width, canvas.Height)
		return b.Chain(chain, SourcePin(idx, 'v'))
	}
}

// positionOnCanvas renders a transformed segment onto its own synthetic
// background canvas, performing the crop/scale the aspect negotiator skipped
// for transformed tracks. It then enters the compositing chain as an
// ordinary full-canvas layer.
func positionOnCanvas(b *Builder, in Input, seg timeline.Segment, chain string, idx int, isBase bool) Pin {
	t := seg.Source.Transform
	factor := t.Scale
	if factor == 0 {
		factor = 1
	}

	canvas := in.Plan.Working
	target := common.Canvas{
		Width:  int(float64(canvas.Width) * factor),
		Height: int(float64(canvas.Height) * factor),
	}.EnsureEven()

	chain += fmt.Sprintf(",%s=%d:%d:force_original_aspect_ratio=decrease",
		in.Profile.Filters.Scale, target.Width, target.Height)
	if t.Rotation != 0 {
		chain += fmt.Sprintf(",rotate=%s*PI/180:c=black@0.0", secs(t.Rotation))
	}
	content := b.Chain(chain, SourcePin(idx, 'v'))

	bg := gapClip(b, in, seg.Duration, isBase)
	fx := (t.X + 1) / 2
	fy := (t.Y + 1) / 2
	return b.Chain(fmt.Sprintf(
		"%s=x=(main_w-overlay_w)*%s:y=(main_h-overlay_h)*%s,setsar=1",
		in.Profile.Filters.Overlay, secs(fx), secs(fy)), bg, content)
}

// gapClip generates a flat-color (base) or zero-opacity (overlay) clip of
// the exact duration at the working canvas and target frame rate.
func gapClip(b *Builder, in Input, duration float64, opaque bool) Pin {
	canvas := in.Plan.Working
	if opaque {
		return b.Chain(fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%s,format=yuv420p,setsar=1",
			FillColor, canvas.Width, canvas.Height, in.fps(), secs(duration)))
	}
	return b.Chain(fmt.Sprintf("color=c=black@0.0:s=%dx%d:r=%d:d=%s,format=yuva420p,setsar=1",
		canvas.Width, canvas.Height, in.fps(), secs(duration)))
}

// resizeFilter scales the current canvas to the largest same-ratio fit
// inside the desired one and pads the remainder, which is the whole of
// letterboxing and a no-op pad when the ratios already agree.
func resizeFilter(in Input, current, desired common.Canvas) string {
	fitted := current.FitWithin(desired)
	return fmt.Sprintf(
		"%s=%d:%d,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=%s,setsar=1",
		in.Profile.Filters.Scale, fitted.Width, fitted.Height,
		desired.Width, desired.Height, FillColor)
}

// visualLayers returns the video and image timeline keys in ascending layer
// order; the lowest becomes the base.
func visualLayers(timelines map[timeline.Key]*timeline.Timeline) []timeline.Key {
	var keys []timeline.Key
	for key := range timelines {
		if key.Kind == common.KindVideo || key.Kind == common.KindImage {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Layer != keys[j].Layer {
			return keys[i].Layer < keys[j].Layer
		}
		return keys[i].Kind.Value < keys[j].Kind.Value
	})
	return keys
}

// activeWindow finds the first and last second the timeline shows real
// content, used for the overlay enable expression.
func activeWindow(tl *timeline.Timeline) (float64, float64) {
	first := -1.0
	last := 0.0
	for _, seg := range tl.Segments {
		if seg.IsGap() || seg.Source == nil {
			continue
		}
		if first < 0 {
			first = seg.StartTime
		}
		if seg.EndTime() > last {
			last = seg.EndTime()
		}
	}
	if first < 0 {
		return 0, tl.TotalDuration()
	}
	return first, last
}

// GapEpsilonSeconds converts the gap-fill epsilon into seconds for the
// given frame rate.
func GapEpsilonSeconds(fps int) float64 {
	return timeline.GapEpsilon / float64(fps)
}
