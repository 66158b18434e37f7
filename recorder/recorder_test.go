package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scschwa/nord-stage-3-interface/model"
)

func held(notes ...uint8) map[uint8]model.HeldNote {
	res := make(map[uint8]model.HeldNote)
	for _, n := range notes {
		res[n] = model.HeldNote{Velocity: 100, Channel: 1}
	}
	return res
}

func TestRecorderCapturesOnePair(t *testing.T) {
	r := New()
	assert.NoError(t, r.Start(1000))
	r.Observe(held(60), 1000)
	r.Observe(held(), 1500)
	assert.NoError(t, r.Stop(2000))

	notes := r.Notes()
	assert.Len(t, notes, 1)
	assert.Equal(t, model.CapturedNote{Note: 60, Velocity: 100, Channel: 1, StartMs: 0, EndMs: 500}, notes[0])
}

func TestRecorderForceClosesHeldNotesAtStop(t *testing.T) {
	r := New()
	r.Start(0)
	r.Observe(held(60, 64), 100)
	r.Observe(held(64), 600)
	r.Stop(900)

	notes := r.Notes()
	assert.Len(t, notes, 2)

	byNote := make(map[uint8]model.CapturedNote)
	for _, n := range notes {
		byNote[n.Note] = n
	}
	assert.Equal(t, int64(600), byNote[60].EndMs)
	assert.Equal(t, int64(900), byNote[64].EndMs)
}

func TestRecorderIgnoresObservationsOutsideRecording(t *testing.T) {
	r := New()
	r.Observe(held(60), 100)
	assert.Equal(t, StatusIdle, r.Status())

	r.Start(0)
	r.Stop(100)
	r.Observe(held(60), 200)
	assert.Empty(t, r.Notes())
}

func TestRecorderReRecordDiscardsPriorTake(t *testing.T) {
	r := New()
	r.Start(0)
	r.Observe(held(60), 0)
	r.Observe(held(), 100)
	r.Stop(200)
	assert.Len(t, r.Notes(), 1)

	// stopped -> recording
	assert.NoError(t, r.Start(1000))
	assert.Empty(t, r.Notes())
	r.Observe(held(62), 1100)
	r.Stop(1300)

	notes := r.Notes()
	assert.Len(t, notes, 1)
	assert.Equal(t, uint8(62), notes[0].Note)
	assert.Equal(t, int64(100), notes[0].StartMs)
}

func TestRecorderClear(t *testing.T) {
	r := New()
	r.Start(0)
	r.Observe(held(60), 0)
	r.Stop(100)

	assert.NoError(t, r.Clear())
	assert.Equal(t, StatusIdle, r.Status())
	assert.Empty(t, r.Notes())
}

func TestRecorderInvalidTransitions(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.Stop(0), ErrNotRecording)
	assert.ErrorIs(t, r.Clear(), ErrNotStopped)

	r.Start(0)
	assert.ErrorIs(t, r.Start(10), ErrAlreadyRecording)
	assert.ErrorIs(t, r.Clear(), ErrNotStopped)
}

func TestRecorderRetriggerSameNote(t *testing.T) {
	r := New()
	r.Start(0)
	r.Observe(held(60), 0)
	r.Observe(held(), 200)
	r.Observe(held(60), 400)
	r.Observe(held(), 500)
	r.Stop(600)

	notes := r.Notes()
	assert.Len(t, notes, 2)
	assert.Equal(t, int64(0), notes[0].StartMs)
	assert.Equal(t, int64(400), notes[1].StartMs)
}
