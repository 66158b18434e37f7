package take

import (
	"sort"

	"github.com/google/uuid"

	"github.com/scschwa/nord-stage-3-interface/model"
	"github.com/scschwa/nord-stage-3-interface/notation"
	"github.com/scschwa/nord-stage-3-interface/quantize"
	"github.com/scschwa/nord-stage-3-interface/tempo"
)

// Result is everything derived from one finalized take. Recomputed
// wholesale from the captured notes; never mutated.
type Result struct {
	ID        string                `json:"id"`
	BPM       int                   `json:"bpm"`
	GridBeats float64               `json:"grid_beats"`
	Notes     []model.QuantizedNote `json:"notes"`
	Document  notation.Document     `json:"document"`
	MusicXML  []byte                `json:"-"`
}

// Finalize runs the tempo -> quantize -> notate pipeline over one
// finalized capture. An empty take yields an explicit empty document,
// not an error.
func Finalize(captured []model.CapturedNote) (*Result, error) {
	valid := make([]model.CapturedNote, 0, len(captured))
	for _, n := range captured {
		// entries with negative duration are malformed; drop them before
		// they can reach notation
		if n.EndMs >= n.StartMs {
			valid = append(valid, n)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].StartMs < valid[j].StartMs
	})

	bpm := tempo.Detect(onsets(valid))
	q := quantize.Quantize(valid, bpm)
	doc := notation.Generate(q)
	data, err := notation.MusicXML(doc)
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:        uuid.NewString(),
		BPM:       bpm,
		GridBeats: q.GridBeats,
		Notes:     q.Notes,
		Document:  doc,
		MusicXML:  data,
	}, nil
}

// onsets reduces sorted notes to their distinct onset timestamps.
func onsets(sorted []model.CapturedNote) []int64 {
	var res []int64
	for _, n := range sorted {
		if len(res) == 0 || n.StartMs != res[len(res)-1] {
			res = append(res, n.StartMs)
		}
	}
	return res
}
