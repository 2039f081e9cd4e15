// Package timeline converts per-track frame placements into per-layer,
// per-medium ordered segment lists with no coverage holes.
package timeline

import (
	"sort"

	"github.com/ansel1/merry/v2"
	"github.com/samber/lo"

	"github.com/cutforge/cutforge/common"
)

var (
	// GapEpsilon is the coverage-hole threshold, in frames. Holes smaller
	// than this are treated as rounding noise and snapped shut instead of
	// filled with a sliver gap.
	GapEpsilon = 0.5
	// MinSegment is the shortest segment worth keeping, in seconds. Split
	// parts below it are discarded.
	MinSegment = 0.001

	ErrBadFrameRate = merry.Sentinel("frame rate must be positive")
)

// Key identifies one timeline: a layer number and a medium.
type Key struct {
	Layer int
	Kind  common.Kind
}

// Segment is one placed unit of content or gap inside a timeline.
type Segment struct {
	// Source is nil for synthetic gap segments.
	Source *common.Track
	// StartTime and Duration place the segment on the global timeline, in
	// seconds.
	StartTime float64
	Duration  float64
	// SourceStart is the trim offset into the source media.
	SourceStart float64
	Kind        common.Kind
}

func (s Segment) EndTime() float64 {
	return s.StartTime + s.Duration
}

func (s Segment) IsGap() bool {
	return s.Kind == common.KindGap
}

// Timeline is an ordered, gapless, overlap-free sequence of segments for one
// (layer, medium) pair. Different layers may overlap each other; that is the
// point of layering.
type Timeline struct {
	Segments []Segment
}

// TotalDuration is the max end time over all segments.
func (t *Timeline) TotalDuration() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return lo.MaxBy(t.Segments, func(a, b Segment) bool {
		return a.EndTime() > b.EndTime()
	}).EndTime()
}

// Build groups non-gap tracks into (layer, medium) timelines, applies
// declared gaps, and fills coverage holes so every timeline is contiguous.
func Build(tracks []*common.Track, fps int) (map[Key]*Timeline, error) {
	if fps <= 0 {
		return nil, merry.Wrap(ErrBadFrameRate)
	}

	timelines := map[Key]*Timeline{}

	add := func(key Key, seg Segment) {
		tl, ok := timelines[key]
		if !ok {
			tl = &Timeline{}
			timelines[key] = tl
		}
		tl.Segments = append(tl.Segments, seg)
	}

	for _, track := range tracks {
		if track.IsGap() {
			continue
		}

		start := float64(track.TimelineStartFrame) / float64(fps)
		end := float64(track.TimelineEndFrame) / float64(fps)
		if end <= start {
			continue
		}

		kind, err := common.ResolveKind(track)
		if err != nil {
			return nil, err
		}

		seg := Segment{
			Source:      track,
			StartTime:   start,
			Duration:    end - start,
			SourceStart: track.StartTime,
			Kind:        kind,
		}

		switch kind {
		case common.KindAudio:
			add(Key{track.Layer, common.KindAudio}, seg)
		case common.KindVideo:
			if !track.Hidden {
				add(Key{track.Layer, common.KindVideo}, seg)
			}
			// A video track carries its own audio (or a separate audio
			// file); muting only silences it at mix time, but a muted track
			// with no separate audio source contributes nothing.
			if !track.Muted || track.AudioPath != "" {
				audioSeg := seg
				audioSeg.Kind = common.KindAudio
				add(Key{track.Layer, common.KindAudio}, audioSeg)
			}
		case common.KindImage, common.KindText:
			if !track.Hidden {
				add(Key{track.Layer, kind}, seg)
			}
		}
	}

	// Declared gaps ripple into their (layer, medium) timeline.
	for _, track := range tracks {
		if !track.IsGap() {
			continue
		}
		medium := track.GapKind
		if medium == (common.Kind{}) || medium == common.KindGap {
			medium = common.KindVideo
		}
		gapStart := float64(track.TimelineStartFrame) / float64(fps)
		gapEnd := float64(track.TimelineEndFrame) / float64(fps)
		if gapEnd <= gapStart {
			continue
		}
		key := Key{track.Layer, medium}
		if tl, ok := timelines[key]; ok {
			insertGap(tl, gapStart, gapEnd-gapStart)
		} else if medium == common.KindVideo {
			// A video gap with nothing under it still renders as a flat clip.
			add(key, Segment{StartTime: gapStart, Duration: gapEnd - gapStart, Kind: common.KindGap})
		} else {
			// Silence and absent overlays are implicit; a gap aimed at a
			// medium nothing occupies is a broken descriptor.
			return nil, merry.Wrap(common.ErrNoTimeline,
				merry.AppendMessage(medium.Value))
		}
	}

	for _, tl := range timelines {
		fillGaps(tl, fps)
	}

	return timelines, nil
}

// insertGap splices a declared gap into a timeline. A gap starting strictly
// inside an existing segment splits it, preserving the source trim offset in
// the after-part; every later segment shifts right by the gap's duration.
func insertGap(tl *Timeline, gapStart, gapDur float64) {
	sortSegments(tl)

	var out []Segment
	for _, seg := range tl.Segments {
		if gapStart > seg.StartTime && gapStart < seg.EndTime() {
			splitOffset := gapStart - seg.StartTime

			before := seg
			before.Duration = splitOffset

			after := seg
			after.StartTime = gapStart + gapDur
			after.Duration = seg.Duration - splitOffset
			after.SourceStart = seg.SourceStart + splitOffset

			if before.Duration >= MinSegment {
				out = append(out, before)
			}
			if after.Duration >= MinSegment {
				out = append(out, after)
			}
			continue
		}
		if seg.StartTime >= gapStart {
			seg.StartTime += gapDur
		}
		out = append(out, seg)
	}

	out = append(out, Segment{StartTime: gapStart, Duration: gapDur, Kind: common.KindGap})
	tl.Segments = out
	sortSegments(tl)
}

// fillGaps walks the sorted segments accumulating the covered time. Holes
// larger than GapEpsilon frames become synthetic gap segments; smaller
// overshoots are rounding noise, so the segment snaps back to the covered
// edge instead.
func fillGaps(tl *Timeline, fps int) {
	sortSegments(tl)
	epsilon := GapEpsilon / float64(fps)

	var out []Segment
	currentTime := 0.0
	for _, seg := range tl.Segments {
		if seg.StartTime > currentTime+epsilon {
			out = append(out, Segment{
				StartTime: currentTime,
				Duration:  seg.StartTime - currentTime,
				Kind:      common.KindGap,
			})
		} else if seg.StartTime != currentTime {
			end := seg.EndTime()
			seg.StartTime = currentTime
			seg.Duration = end - currentTime
			if seg.Duration < MinSegment {
				continue
			}
		}
		out = append(out, seg)
		currentTime = seg.EndTime()
	}

	tl.Segments = out
}

func sortSegments(tl *Timeline) {
	sort.SliceStable(tl.Segments, func(i, j int) bool {
		return tl.Segments[i].StartTime < tl.Segments[j].StartTime
	})
}

// TotalDuration returns the max end time over every timeline.
func TotalDuration(timelines map[Key]*Timeline) float64 {
	total := 0.0
	for _, tl := range timelines {
		if d := tl.TotalDuration(); d > total {
			total = d
		}
	}
	return total
}
