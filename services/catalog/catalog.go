// Package catalog deduplicates source paths and assigns the stable ffmpeg
// input indices every later stage refers to.
package catalog

import (
	"github.com/ansel1/merry/v2"
	"github.com/samber/lo"

	"github.com/cutforge/cutforge/common"
)

var ErrUnresolvableSegment = merry.Sentinel("segment source not found in catalog")

// Input is one unique `-i` argument.
type Input struct {
	Path  string
	Index int
	Kind  common.Kind
}

// Inputs is the resolved input catalog: one index per unique path, assigned
// in first-seen order. Gap markers never consume an index.
type Inputs struct {
	// All lists the unique inputs in index order.
	All []Input
	// NextIndex is the next free stream index.
	NextIndex int

	byPath  map[string]int
	byTrack map[string]int
	// audioByTrack links a video track to the index of its separate audio
	// input, when one was declared.
	audioByTrack map[string]int
}

// VideoInputs returns the video and image inputs in index order.
func (in *Inputs) VideoInputs() []Input {
	return lo.Filter(in.All, func(i Input, _ int) bool {
		return i.Kind == common.KindVideo || i.Kind == common.KindImage
	})
}

// AudioInputs returns the audio-only inputs in index order.
func (in *Inputs) AudioInputs() []Input {
	return lo.Filter(in.All, func(i Input, _ int) bool {
		return i.Kind == common.KindAudio
	})
}

// IndexFor resolves a track to its cataloged stream index. It tries the
// index recorded at catalog time first, then falls back to a path match for
// synthetic split segments that lost their original identity.
func (in *Inputs) IndexFor(track *common.Track) (int, error) {
	if track == nil {
		return 0, merry.Wrap(ErrUnresolvableSegment)
	}
	if idx, ok := in.byTrack[track.ID]; ok {
		return idx, nil
	}
	if idx, ok := in.byPath[track.Path]; ok {
		return idx, nil
	}
	return 0, merry.Wrap(ErrUnresolvableSegment, merry.AppendMessage(track.Path))
}

// AudioIndexFor resolves the index of the stream a track's audio should be
// read from: the separate audio input when one was cataloged, else the
// track's own input.
func (in *Inputs) AudioIndexFor(track *common.Track) (int, error) {
	if track == nil {
		return 0, merry.Wrap(ErrUnresolvableSegment)
	}
	if idx, ok := in.audioByTrack[track.ID]; ok {
		return idx, nil
	}
	if track.AudioPath != "" {
		if idx, ok := in.byPath[track.AudioPath]; ok {
			return idx, nil
		}
	}
	return in.IndexFor(track)
}

// Catalog resolves every track's kind and assigns input indices in
// declaration order.
func Catalog(tracks []*common.Track) (*Inputs, error) {
	in := &Inputs{
		byPath:       map[string]int{},
		byTrack:      map[string]int{},
		audioByTrack: map[string]int{},
	}

	for _, track := range tracks {
		if track.IsGap() {
			continue
		}

		kind, err := common.ResolveKind(track)
		if err != nil {
			return nil, err
		}

		if kind == common.KindText {
			// Text is rendered by drawtext, it has no input stream.
			continue
		}

		idx, ok := in.byPath[track.Path]
		if !ok {
			idx = in.add(track.Path, kind)
		}
		in.byTrack[track.ID] = idx

		// A video's separate audio path is an independent input, registered
		// the first time it is seen even when later split segments reference
		// it again.
		if kind == common.KindVideo && track.AudioPath != "" {
			aIdx, ok := in.byPath[track.AudioPath]
			if !ok {
				aIdx = in.add(track.AudioPath, common.KindAudio)
			}
			in.audioByTrack[track.ID] = aIdx
		}
	}

	return in, nil
}

func (in *Inputs) add(path string, kind common.Kind) int {
	idx := in.NextIndex
	in.NextIndex++
	in.byPath[path] = idx
	in.All = append(in.All, Input{Path: path, Index: idx, Kind: kind})
	return idx
}
