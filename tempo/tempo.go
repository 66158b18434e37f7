package tempo

import "math"

const (
	// IOIs outside this window are double-triggers or pauses between
	// phrases, not rhythm
	minIOIMs = 50
	maxIOIMs = 4000

	minBPM  = 40.0
	maxBPM  = 240.0
	stepBPM = 0.5

	maxBeatMultiple = 8
	errorTolerance  = 0.15

	snapWindowBPM = 3.0
	DefaultBPM    = 120
)

var commonTempi = []int{
	40, 50, 60, 70, 80, 90, 100, 110, 120, 130, 140,
	150, 160, 170, 180, 190, 200, 210, 220, 230, 240,
}

// Detect estimates the tempo of a take from its ascending onset
// timestamps (ms). It always returns a usable tempo: sparse or
// degenerate input falls back to 120.
//
// Candidate tempi from 40 to 240 BPM in 0.5 steps are scored against the
// valid inter-onset intervals: each IOI is compared to its nearest
// integer multiple (1-8) of the candidate's beat duration, and a relative
// error under 15% contributes 1 - err/0.15. The highest total score wins,
// lowest candidate on a tie, then the winner snaps to the nearest common
// metronome marking when within 3 BPM.
func Detect(onsetsMs []int64) int {
	if len(onsetsMs) < 3 {
		return DefaultBPM
	}

	var iois []float64
	for i := 1; i < len(onsetsMs); i++ {
		ioi := float64(onsetsMs[i] - onsetsMs[i-1])
		if ioi >= minIOIMs && ioi <= maxIOIMs {
			iois = append(iois, ioi)
		}
	}
	if len(iois) < 2 {
		return DefaultBPM
	}

	steps := int((maxBPM-minBPM)/stepBPM) + 1
	bestBPM := minBPM
	bestScore := -1.0
	for i := 0; i < steps; i++ {
		bpm := minBPM + float64(i)*stepBPM
		score := scoreCandidate(bpm, iois)
		if score > bestScore {
			bestScore = score
			bestBPM = bpm
		}
	}

	return snapToCommon(bestBPM)
}

func scoreCandidate(bpm float64, iois []float64) float64 {
	beatMs := 60000.0 / bpm
	var score float64
	for _, ioi := range iois {
		mult := math.Round(ioi / beatMs)
		if mult < 1 {
			mult = 1
		} else if mult > maxBeatMultiple {
			mult = maxBeatMultiple
		}
		target := mult * beatMs
		err := math.Abs(ioi-target) / target
		if err < errorTolerance {
			score += 1 - err/errorTolerance
		}
	}
	return score
}

func snapToCommon(bpm float64) int {
	nearest := commonTempi[0]
	dist := math.Abs(bpm - float64(nearest))
	for _, c := range commonTempi[1:] {
		if d := math.Abs(bpm - float64(c)); d < dist {
			nearest = c
			dist = d
		}
	}
	if dist <= snapWindowBPM {
		return nearest
	}
	return int(math.Round(bpm))
}

// BeatDurationMs converts a tempo to its beat duration.
func BeatDurationMs(bpm int) float64 {
	return 60000.0 / float64(bpm)
}
