package common

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/orsinium-labs/enum"
)

// Kind is the medium of a track. Stages resolve it through ResolveKind
// instead of re-deriving it ad hoc from paths or object shape.
type Kind enum.Member[string]

var (
	KindGap   = Kind{Value: "gap"}
	KindVideo = Kind{Value: "video"}
	KindAudio = Kind{Value: "audio"}
	KindImage = Kind{Value: "image"}
	KindText  = Kind{Value: "text"}
	Kinds     = enum.New(KindGap, KindVideo, KindAudio, KindImage, KindText)

	ErrUnknownKind = merry.Sentinel("unknown track kind")
)

//goland:noinspection GoMixedReceiverTypes
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Value)
}

//goland:noinspection GoMixedReceiverTypes
func (k *Kind) UnmarshalJSON(value []byte) error {
	var stringValue string
	err := json.Unmarshal(value, &stringValue)
	if err != nil {
		return err
	}
	if stringValue == "" {
		// Left open on purpose: classification falls back to the file
		// extension when the descriptor omits the kind.
		*k = Kind{}
		return nil
	}
	kind := Kinds.Parse(stringValue)
	if kind == nil {
		return merry.Wrap(ErrUnknownKind, merry.AppendMessage(stringValue))
	}
	*k = *kind
	return nil
}

// ResolveKind decides a track's medium without touching the descriptor: the
// explicit kind wins, text content marks a text track, and everything else
// is classified by extension.
func ResolveKind(track *Track) (Kind, error) {
	if track.Kind != (Kind{}) {
		return track.Kind, nil
	}
	if track.Text != "" {
		return KindText, nil
	}
	return KindFromPath(track.Path)
}

var videoExtensions = []string{".mp4", ".mov", ".mkv", ".mxf", ".avi", ".webm", ".m4v", ".ts"}
var audioExtensions = []string{".wav", ".mp3", ".aac", ".m4a", ".flac", ".ogg", ".opus"}
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tiff"}

// KindFromPath classifies a source path by its file extension. This is the
// fallback only; an explicit kind on the descriptor always wins, so a
// renamed or extensionless asset is never silently misclassified.
func KindFromPath(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range videoExtensions {
		if ext == e {
			return KindVideo, nil
		}
	}
	for _, e := range audioExtensions {
		if ext == e {
			return KindAudio, nil
		}
	}
	for _, e := range imageExtensions {
		if ext == e {
			return KindImage, nil
		}
	}
	return Kind{}, merry.Wrap(ErrUnknownKind, merry.AppendMessage(path))
}
