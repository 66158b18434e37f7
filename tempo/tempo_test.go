package tempo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func onsetsEvery(intervalMs int64, count int) []int64 {
	res := make([]int64, count)
	for i := range res {
		res[i] = int64(i) * intervalMs
	}
	return res
}

func TestDetectInsufficientOnsetsFallsBack(t *testing.T) {
	assert.Equal(t, 120, Detect(nil))
	assert.Equal(t, 120, Detect([]int64{0}))
	assert.Equal(t, 120, Detect([]int64{0, 500}))
}

func TestDetectSteady120(t *testing.T) {
	// ten onsets 500ms apart: 120 and 240 both score perfectly, the
	// lower candidate must win
	assert.Equal(t, 120, Detect(onsetsEvery(500, 10)))
}

func TestDetectSteady90(t *testing.T) {
	// 666ms ~= 90 BPM beats
	assert.Equal(t, 90, Detect(onsetsEvery(667, 8)))
}

func TestDetectIgnoresLongPauses(t *testing.T) {
	onsets := []int64{0, 500, 1000, 1500, 9500, 10000, 10500, 11000}
	assert.Equal(t, 120, Detect(onsets))
}

func TestDetectIgnoresDoubleTriggers(t *testing.T) {
	onsets := []int64{0, 20, 500, 520, 1000, 1500, 2000}
	assert.Equal(t, 120, Detect(onsets))
}

func TestDetectAllIOIsFilteredFallsBack(t *testing.T) {
	// every interval below the 50ms floor
	assert.Equal(t, 120, Detect([]int64{0, 10, 20, 30}))
}

func TestDetectSurvivesSkippedBeats(t *testing.T) {
	// quarter notes at 120 with a missing onset: the 1000ms IOI is two
	// beats and still supports the candidate
	onsets := []int64{0, 500, 1500, 2000, 2500, 3500, 4000}
	assert.Equal(t, 120, Detect(onsets))
}

func TestDetectSnapsToCommonTempo(t *testing.T) {
	// ~121 BPM raw estimate is within 3 BPM of 120
	assert.Equal(t, 120, Detect(onsetsEvery(495, 10)))
}

func TestDetectKeepsUncommonTempo(t *testing.T) {
	// ~156 BPM sits 4 BPM from both 152 and 160, so no snap
	assert.Equal(t, 156, Detect(onsetsEvery(385, 10)))
}

func TestBeatDurationMs(t *testing.T) {
	assert.InDelta(t, 500.0, BeatDurationMs(120), 1e-9)
	assert.InDelta(t, 1000.0, BeatDurationMs(60), 1e-9)
}
