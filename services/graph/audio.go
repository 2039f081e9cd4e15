package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/cutforge/cutforge/common"
	"github.com/cutforge/cutforge/services/timeline"
)

// compileAudio emits the audio path, which is independent of every video
// stage: each non-gap segment is trimmed, volume-adjusted, fade-windowed and
// delayed to its absolute timeline start; the delayed streams are mixed with
// longest-duration, non-normalizing semantics so overlapping tracks blend,
// and the result is padded then trimmed to exactly the video's duration.
func compileAudio(b *Builder, in Input, total float64) Pin {
	var pins []Pin

	for _, key := range audioLayers(in.Timelines) {
		for _, seg := range in.Timelines[key].Segments {
			if seg.IsGap() || seg.Source == nil {
				continue
			}
			pin, ok := normalizeAudioSegment(b, in, seg)
			if ok {
				pins = append(pins, pin)
			}
		}
	}

	if len(pins) == 0 {
		return Pin{}
	}

	mixed := pins[0]
	if len(pins) > 1 {
		mixed = b.Chain(fmt.Sprintf(
			"amix=inputs=%d:duration=longest:dropout_transition=0:normalize=0",
			len(pins)), pins...)
	}

	// Pad then trim so the audio stream length exactly matches the video,
	// whether the mix ran long or a single stream ended early.
	return b.Chain(fmt.Sprintf("apad,atrim=0:%s", secs(total)), mixed)
}

func normalizeAudioSegment(b *Builder, in Input, seg timeline.Segment) (Pin, bool) {
	idx, err := in.Catalog.AudioIndexFor(seg.Source)
	if err != nil {
		in.Log.Warn().Err(err).Str("path", seg.Source.AudioSource()).
			Msg("audio segment source not cataloged, dropping")
		return Pin{}, false
	}

	track := seg.Source
	chain := fmt.Sprintf("atrim=start=%s:duration=%s,asetpts=PTS-STARTPTS",
		secs(seg.SourceStart), secs(seg.Duration))

	if track.Muted {
		chain += fmt.Sprintf(",volume=%sdB", secs(MuteDB))
	} else if track.VolumeDB != 0 {
		chain += fmt.Sprintf(",volume=%sdB", secs(track.VolumeDB))
	}

	if track.FadeIn > 0 {
		chain += fmt.Sprintf(",afade=t=in:st=0:d=%s", secs(track.FadeIn))
	}
	if track.FadeOut > 0 {
		st := seg.Duration - track.FadeOut
		if st < 0 {
			st = 0
		}
		chain += fmt.Sprintf(",afade=t=out:st=%s:d=%s", secs(st), secs(track.FadeOut))
	}

	if ms := int(math.Round(seg.StartTime * 1000)); ms > 0 {
		chain += fmt.Sprintf(",adelay=%d|%d", ms, ms)
	}

	return b.Chain(chain, SourcePin(idx, 'a')), true
}

func audioLayers(timelines map[timeline.Key]*timeline.Timeline) []timeline.Key {
	var keys []timeline.Key
	for key := range timelines {
		if key.Kind == common.KindAudio {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Layer < keys[j].Layer
	})
	return keys
}
