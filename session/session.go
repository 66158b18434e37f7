package session

import (
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/sirupsen/logrus"

	"github.com/scschwa/nord-stage-3-interface/chord"
	"github.com/scschwa/nord-stage-3-interface/decoder"
	"github.com/scschwa/nord-stage-3-interface/model"
	"github.com/scschwa/nord-stage-3-interface/recorder"
	"github.com/scschwa/nord-stage-3-interface/state"
	"github.com/scschwa/nord-stage-3-interface/take"
)

// display updates are debounced; correctness consumers run synchronously
// inside HandleMessage
const notifyDelay = 15 * time.Millisecond

// Update is a display snapshot pushed to subscribers after state changes.
type Update struct {
	HeldNotes model.Notes        `json:"held_notes"`
	Chord     *model.ChordResult `json:"chord,omitempty"`
	Recording bool               `json:"recording"`
}

// Session wires the live pipeline: each incoming message is decoded,
// applied to the tracker, observed by the recorder and re-evaluated for
// chords as one serialized step. Take finalization runs off the message
// path; a generation counter discards results that a newer recording has
// obsoleted.
type Session struct {
	mu         sync.Mutex
	tracker    *state.Tracker
	rec        *recorder.Recorder
	chord      *model.ChordResult
	result     *take.Result
	generation uint64

	listeners map[chan Update]struct{}
	debounced func(func())
	now       func() int64
}

func New() *Session {
	return &Session{
		tracker:   state.NewTracker(),
		rec:       recorder.New(),
		listeners: make(map[chan Update]struct{}),
		debounced: debounce.New(notifyDelay),
		now:       func() int64 { return time.Now().UnixMilli() },
	}
}

// HandleMessage processes one raw performance message. Decode, state
// mutation, recorder bookkeeping and chord re-evaluation happen
// synchronously, in arrival order.
func (s *Session) HandleMessage(raw []byte) {
	s.mu.Lock()
	ts := s.now()
	ev := decoder.Decode(raw, ts)
	s.tracker.Apply(ev)
	s.rec.Observe(s.tracker.HeldNotes(), ts)
	s.recognize()
	s.mu.Unlock()

	s.debounced(s.broadcast)
}

// Snapshot returns the current live state for API consumers.
func (s *Session) Snapshot() model.StateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.StateResponse{
		HeldNotes: s.tracker.HeldNoteNumbers(),
		Chord:     s.chord,
		Recording: s.rec.Status() == recorder.StatusRecording,
	}
}

func (s *Session) StartRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now()
	if err := s.rec.Start(ts); err != nil {
		return err
	}
	s.generation++
	s.result = nil
	// notes already held when the take starts open at onset zero
	s.rec.Observe(s.tracker.HeldNotes(), ts)
	logrus.Info("recording started")
	return nil
}

// StopRecording ends the take and finalizes it in the background so live
// input is never blocked on the tempo sweep.
func (s *Session) StopRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rec.Stop(s.now()); err != nil {
		return err
	}
	notes := s.rec.Notes()
	gen := s.generation
	logrus.WithField("notes", len(notes)).Info("recording stopped")
	go s.finalize(gen, notes)
	return nil
}

func (s *Session) ClearTake() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rec.Clear(); err != nil {
		return err
	}
	s.result = nil
	return nil
}

// CapturedNotes returns the raw notes of the current take.
func (s *Session) CapturedNotes() []model.CapturedNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Notes()
}

// Result returns the most recent finalized take, or nil while none is
// ready.
func (s *Session) Result() *take.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Disconnect resets all live state, e.g. when the device goes away.
func (s *Session) Disconnect() {
	s.mu.Lock()
	s.tracker.Reset()
	s.chord = nil
	s.mu.Unlock()
	s.debounced(s.broadcast)
}

// Subscribe registers a display listener. Slow listeners drop updates
// rather than block the session.
func (s *Session) Subscribe() chan Update {
	ch := make(chan Update, 16)
	s.mu.Lock()
	s.listeners[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener. The channel is not closed: a broadcast
// may still hold a reference to it.
func (s *Session) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	delete(s.listeners, ch)
	s.mu.Unlock()
}

func (s *Session) finalize(gen uint64, notes []model.CapturedNote) {
	res, err := take.Finalize(notes)
	if err != nil {
		logrus.Errorln("finalize take:", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// a newer recording started; this result is stale
		logrus.WithField("id", res.ID).Debug("discarding stale take result")
		return
	}
	s.result = res
	logrus.WithFields(logrus.Fields{
		"id":       res.ID,
		"bpm":      res.BPM,
		"measures": len(res.Document.Measures),
	}).Info("take finalized")
}

func (s *Session) recognize() {
	if res, ok := chord.Recognize(s.tracker.HeldNoteNumbers()); ok {
		s.chord = &res
	} else {
		s.chord = nil
	}
}

func (s *Session) broadcast() {
	s.mu.Lock()
	update := Update{
		HeldNotes: s.tracker.HeldNoteNumbers(),
		Chord:     s.chord,
		Recording: s.rec.Status() == recorder.StatusRecording,
	}
	targets := make([]chan Update, 0, len(s.listeners))
	for ch := range s.listeners {
		targets = append(targets, ch)
	}
	s.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- update:
		default:
		}
	}
}
