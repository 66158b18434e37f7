package state

import (
	"github.com/scschwa/nord-stage-3-interface/model"
	"github.com/scschwa/nord-stage-3-interface/util"
)

// Tracker owns the live held-note and controller state. It assumes a
// single serialized producer: Apply must never be called concurrently.
// Consumers read copies, so a snapshot taken after Apply returns always
// reflects the full event.
type Tracker struct {
	held        map[uint8]model.HeldNote
	controllers map[uint8]model.ControllerValue
}

func NewTracker() *Tracker {
	return &Tracker{
		held:        make(map[uint8]model.HeldNote),
		controllers: make(map[uint8]model.ControllerValue),
	}
}

// Apply mutates the state with one decoded event. Events that carry no
// state (pitch bend, program change, sysex, unknown) are ignored.
func (t *Tracker) Apply(ev model.Event) {
	switch ev.Type {
	case model.EventNoteOn:
		t.held[ev.Note] = model.HeldNote{
			Velocity: ev.Velocity,
			Channel:  ev.Channel,
			OnsetMs:  ev.TimestampMs,
		}
	case model.EventNoteOff:
		delete(t.held, ev.Note)
	case model.EventControlChange:
		t.controllers[ev.Controller] = model.ControllerValue{
			Value:       ev.Value,
			TimestampMs: ev.TimestampMs,
		}
	}
}

// HeldNotes returns a copy of the current held-note state.
func (t *Tracker) HeldNotes() map[uint8]model.HeldNote {
	res := make(map[uint8]model.HeldNote, len(t.held))
	for k, v := range t.held {
		res[k] = v
	}
	return res
}

// HeldNoteNumbers returns the sounding note numbers in ascending order.
func (t *Tracker) HeldNoteNumbers() model.Notes {
	return util.SortedKeys(t.held)
}

func (t *Tracker) Controller(num uint8) (model.ControllerValue, bool) {
	v, ok := t.controllers[num]
	return v, ok
}

// Reset drops all state, e.g. when the device disconnects.
func (t *Tracker) Reset() {
	t.held = make(map[uint8]model.HeldNote)
	t.controllers = make(map[uint8]model.ControllerValue)
}
