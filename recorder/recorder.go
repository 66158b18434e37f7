package recorder

import (
	"errors"

	"github.com/scschwa/nord-stage-3-interface/model"
)

type Status uint8

const (
	StatusIdle Status = iota
	StatusRecording
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusRecording:
		return "recording"
	case StatusStopped:
		return "stopped"
	default:
		return "idle"
	}
}

var (
	ErrNotRecording     = errors.New("recorder is not recording")
	ErrNotStopped       = errors.New("recorder has no stopped take to clear")
	ErrAlreadyRecording = errors.New("recorder is already recording")
)

type pendingNote struct {
	velocity uint8
	channel  uint8
	startMs  int64
}

// Recorder captures note on/off pairs during one take by diffing
// held-note snapshots from the live state tracker. idle -> recording ->
// stopped, plus re-record (stopped -> recording) and clear (stopped ->
// idle); nothing else.
type Recorder struct {
	status  Status
	startMs int64
	prev    map[uint8]bool
	pending map[uint8]pendingNote
	notes   []model.CapturedNote
}

func New() *Recorder {
	return &Recorder{
		prev:    make(map[uint8]bool),
		pending: make(map[uint8]pendingNote),
	}
}

func (r *Recorder) Status() Status {
	return r.status
}

// Start begins a take, discarding any prior capture.
func (r *Recorder) Start(nowMs int64) error {
	if r.status == StatusRecording {
		return ErrAlreadyRecording
	}
	r.status = StatusRecording
	r.startMs = nowMs
	r.prev = make(map[uint8]bool)
	r.pending = make(map[uint8]pendingNote)
	r.notes = nil
	return nil
}

// Observe diffs the current held-note snapshot against the previous one:
// newly present notes open a pending entry, newly absent notes close it
// into a finalized CapturedNote. A no-op outside of recording.
func (r *Recorder) Observe(held map[uint8]model.HeldNote, nowMs int64) {
	if r.status != StatusRecording {
		return
	}

	for note, hn := range held {
		if !r.prev[note] {
			r.pending[note] = pendingNote{
				velocity: hn.Velocity,
				channel:  hn.Channel,
				startMs:  nowMs - r.startMs,
			}
		}
	}
	for note := range r.prev {
		if _, stillHeld := held[note]; !stillHeld {
			r.closePending(note, nowMs)
		}
	}

	next := make(map[uint8]bool, len(held))
	for note := range held {
		next[note] = true
	}
	r.prev = next
}

// Stop ends the take. Notes still held are force-closed at the stop
// instant so nothing is left open or lost.
func (r *Recorder) Stop(nowMs int64) error {
	if r.status != StatusRecording {
		return ErrNotRecording
	}
	for note := range r.pending {
		r.closePending(note, nowMs)
	}
	r.prev = make(map[uint8]bool)
	r.status = StatusStopped
	return nil
}

// Clear discards a stopped take and returns to idle.
func (r *Recorder) Clear() error {
	if r.status != StatusStopped {
		return ErrNotStopped
	}
	r.status = StatusIdle
	r.notes = nil
	return nil
}

// Notes returns the finalized list in discovery order. Downstream stages
// sort by start time themselves.
func (r *Recorder) Notes() []model.CapturedNote {
	res := make([]model.CapturedNote, len(r.notes))
	copy(res, r.notes)
	return res
}

func (r *Recorder) closePending(note uint8, nowMs int64) {
	p, ok := r.pending[note]
	if !ok {
		return
	}
	delete(r.pending, note)
	r.notes = append(r.notes, model.CapturedNote{
		Note:     note,
		Velocity: p.velocity,
		Channel:  p.channel,
		StartMs:  p.startMs,
		EndMs:    nowMs - r.startMs,
	})
}
