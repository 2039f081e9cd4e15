package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KindFromPath(t *testing.T) {
	kind, err := KindFromPath("/media/clip.MP4")
	assert.NoError(t, err)
	assert.Equal(t, KindVideo, kind)

	kind, err = KindFromPath("/media/song.wav")
	assert.NoError(t, err)
	assert.Equal(t, KindAudio, kind)

	kind, err = KindFromPath("/media/logo.png")
	assert.NoError(t, err)
	assert.Equal(t, KindImage, kind)

	_, err = KindFromPath("/media/asset.bin")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func Test_KindJSON(t *testing.T) {
	var kind Kind
	assert.NoError(t, json.Unmarshal([]byte(`"video"`), &kind))
	assert.Equal(t, KindVideo, kind)

	// An empty string stays unresolved so classification can fall back to
	// the file extension later.
	assert.NoError(t, json.Unmarshal([]byte(`""`), &kind))
	assert.Equal(t, Kind{}, kind)

	assert.Error(t, json.Unmarshal([]byte(`"hologram"`), &kind))

	out, err := json.Marshal(KindAudio)
	assert.NoError(t, err)
	assert.Equal(t, `"audio"`, string(out))
}

func Test_TransformZero(t *testing.T) {
	assert.True(t, Transform{}.Zero())
	assert.True(t, Transform{Scale: 1}.Zero())
	assert.False(t, Transform{X: 0.5}.Zero())
	assert.False(t, Transform{Scale: 0.5}.Zero())
	assert.False(t, Transform{Rotation: 90}.Zero())
}

func Test_TransformReshapes(t *testing.T) {
	assert.False(t, Transform{X: -1, Y: 1}.Reshapes())
	assert.True(t, Transform{Scale: 0.5}.Reshapes())
	assert.True(t, Transform{Rotation: 45}.Reshapes())
}
