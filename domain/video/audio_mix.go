package video

import (
	"fmt"
	"strings"
)

// MixedAudioLabel is the filter graph output label of the mixed audio stream
const MixedAudioLabel = "[a]"

// AudioTrackSet is the ordered list of audio stream ordinals (0:a:N) of an input
type AudioTrackSet []int

// NewAudioTrackSet returns the ordinals 0..count-1
func NewAudioTrackSet(count int) AudioTrackSet {
	if count <= 0 {
		return AudioTrackSet{}
	}
	tracks := make(AudioTrackSet, count)
	for i := range tracks {
		tracks[i] = i
	}
	return tracks
}

// Len returns the number of tracks
func (s AudioTrackSet) Len() int {
	return len(s)
}

// NeedsMix reports whether more than one track has to be mixed down
func (s AudioTrackSet) NeedsMix() bool {
	return len(s) > 1
}

// BuildAudioMixExpression returns a filter_complex expression that mixes every
// track into MixedAudioLabel. The mixed stream lasts as long as the longest
// input; shorter tracks are padded with silence.
func BuildAudioMixExpression(tracks AudioTrackSet) (string, error) {
	if len(tracks) == 0 {
		return "", ErrNoAudioTracks
	}

	var b strings.Builder
	for _, idx := range tracks {
		fmt.Fprintf(&b, "[0:a:%d]", idx)
	}
	fmt.Fprintf(&b, "amix=inputs=%d:duration=longest%s", len(tracks), MixedAudioLabel)
	return b.String(), nil
}
