package quantize

import (
	"math"
	"sort"

	"github.com/scschwa/nord-stage-3-interface/constants"
	"github.com/scschwa/nord-stage-3-interface/model"
	"github.com/scschwa/nord-stage-3-interface/tempo"
)

// candidate subdivisions of a beat, coarse to fine
var gridLadder = []float64{1, 1.0 / 2, 1.0 / 4, 1.0 / 8, 1.0 / 16}

// durations below this are not notatable and get stretched to one grid
// unit
const minDurationBeats = 1.0 / 16

// Result is the quantized take: notes in beat units on a single global
// grid, plus the timeline length rounded up to whole measures.
type Result struct {
	Notes           []model.QuantizedNote
	BPM             int
	GridBeats       float64
	TotalBeats      float64
	BeatsPerMeasure int
}

// Quantize snaps a finalized take onto a rhythmic grid. One grid
// resolution is chosen for the whole take: the subdivision with the
// lowest total onset snap error, where a finer grid must be strictly
// better to displace a coarser one. Onsets and endpoints snap
// independently to nearest multiples.
func Quantize(notes []model.CapturedNote, bpm int) Result {
	res := Result{
		BPM:             bpm,
		GridBeats:       gridLadder[0],
		BeatsPerMeasure: constants.BeatsPerMeasure,
	}
	if len(notes) == 0 {
		return res
	}

	beatMs := tempo.BeatDurationMs(bpm)
	onsets := make([]float64, len(notes))
	for i, n := range notes {
		onsets[i] = float64(n.StartMs) / beatMs
	}

	res.GridBeats = chooseGrid(onsets)

	var maxEnd float64
	for _, n := range notes {
		start := snap(float64(n.StartMs)/beatMs, res.GridBeats)
		end := snap(float64(n.EndMs)/beatMs, res.GridBeats)
		dur := end - start
		if dur < minDurationBeats {
			dur = res.GridBeats
		}
		res.Notes = append(res.Notes, model.QuantizedNote{
			Note:          n.Note,
			Velocity:      n.Velocity,
			Channel:       n.Channel,
			StartBeats:    start,
			DurationBeats: dur,
		})
		if start+dur > maxEnd {
			maxEnd = start + dur
		}
	}

	sort.SliceStable(res.Notes, func(i, j int) bool {
		return res.Notes[i].StartBeats < res.Notes[j].StartBeats
	})

	measures := math.Ceil(maxEnd / float64(res.BeatsPerMeasure))
	res.TotalBeats = measures * float64(res.BeatsPerMeasure)
	return res
}

func chooseGrid(onsets []float64) float64 {
	best := gridLadder[0]
	bestErr := math.Inf(1)
	for _, grid := range gridLadder {
		var total float64
		for _, pos := range onsets {
			total += math.Abs(pos - snap(pos, grid))
		}
		if total < bestErr {
			bestErr = total
			best = grid
		}
	}
	return best
}

func snap(pos, grid float64) float64 {
	return math.Round(pos/grid) * grid
}
