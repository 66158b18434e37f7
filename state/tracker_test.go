package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scschwa/nord-stage-3-interface/model"
)

func noteOn(note, vel uint8, ts int64) model.Event {
	return model.Event{Type: model.EventNoteOn, Channel: 1, Note: note, Velocity: vel, TimestampMs: ts}
}

func noteOff(note uint8, ts int64) model.Event {
	return model.Event{Type: model.EventNoteOff, Channel: 1, Note: note, TimestampMs: ts}
}

func TestTrackerHoldsAndReleases(t *testing.T) {
	tr := NewTracker()
	tr.Apply(noteOn(60, 100, 10))
	tr.Apply(noteOn(64, 90, 20))

	assert := assert.New(t)
	assert.Equal(model.Notes{60, 64}, tr.HeldNoteNumbers())
	assert.Equal(model.HeldNote{Velocity: 100, Channel: 1, OnsetMs: 10}, tr.HeldNotes()[60])

	tr.Apply(noteOff(60, 30))
	assert.Equal(model.Notes{64}, tr.HeldNoteNumbers())
}

func TestTrackerRetriggerOverwritesOnset(t *testing.T) {
	tr := NewTracker()
	tr.Apply(noteOn(60, 100, 10))
	tr.Apply(noteOn(60, 70, 50))
	assert.Equal(t, model.HeldNote{Velocity: 70, Channel: 1, OnsetMs: 50}, tr.HeldNotes()[60])
}

func TestTrackerControllerOverwrite(t *testing.T) {
	tr := NewTracker()
	tr.Apply(model.Event{Type: model.EventControlChange, Controller: 64, Value: 127, TimestampMs: 1})
	tr.Apply(model.Event{Type: model.EventControlChange, Controller: 64, Value: 0, TimestampMs: 2})

	v, ok := tr.Controller(64)
	assert.True(t, ok)
	assert.Equal(t, model.ControllerValue{Value: 0, TimestampMs: 2}, v)

	_, ok = tr.Controller(1)
	assert.False(t, ok)
}

func TestTrackerStatelessEventsIgnored(t *testing.T) {
	tr := NewTracker()
	tr.Apply(model.Event{Type: model.EventPitchBend, PitchBend: 100})
	tr.Apply(model.Event{Type: model.EventSysEx, Raw: []byte{0xF0, 0xF7}})
	tr.Apply(model.Event{Type: model.EventUnknown})
	assert.Empty(t, tr.HeldNoteNumbers())
}

func TestTrackerSnapshotIsolation(t *testing.T) {
	tr := NewTracker()
	tr.Apply(noteOn(60, 100, 10))
	snap := tr.HeldNotes()
	tr.Apply(noteOff(60, 20))

	// earlier snapshot must be unaffected by later mutations
	assert.Contains(t, snap, uint8(60))
	assert.Empty(t, tr.HeldNoteNumbers())
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.Apply(noteOn(60, 100, 10))
	tr.Apply(model.Event{Type: model.EventControlChange, Controller: 1, Value: 5})
	tr.Reset()

	assert.Empty(t, tr.HeldNoteNumbers())
	_, ok := tr.Controller(1)
	assert.False(t, ok)
}
