package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/scschwa/nord-stage-3-interface/model"
)

// Read parses a standard MIDI file.
func Read(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("parsing midi file: %w", err)
	}
	return res, nil
}

type noteKey struct {
	channel uint8
	note    uint8
}

// Notes flattens the note on/off pairs of every track into captured
// notes with millisecond times, so an existing recording can run through
// the same pipeline as a live take. Unterminated notes close at the last
// event time.
func Notes(s *smf.SMF) []model.CapturedNote {
	var res []model.CapturedNote
	open := make(map[noteKey]model.CapturedNote)
	var lastMs int64

	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			ms := s.TimeAt(absTicks) / 1000
			if ms > lastMs {
				lastMs = ms
			}
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				open[noteKey{channel, key}] = model.CapturedNote{
					Note:     key,
					Velocity: velocity,
					Channel:  channel + 1,
					StartMs:  ms,
				}
			case event.Message.GetNoteEnd(&channel, &key):
				if n, ok := open[noteKey{channel, key}]; ok {
					delete(open, noteKey{channel, key})
					n.EndMs = ms
					res = append(res, n)
				}
			}
		}
	}

	for _, n := range open {
		n.EndMs = lastMs
		res = append(res, n)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].StartMs < res[j].StartMs
	})
	return res
}

type rawEvent struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// Build renders a finalized take as a single-track SMF at the detected
// tempo.
func Build(notes []model.CapturedNote, bpm int) *smf.SMF {
	clock := smf.MetricTicks(480)
	ticksAt := func(ms int64) uint32 {
		return clock.Ticks(float64(bpm), time.Duration(ms)*time.Millisecond)
	}

	var events []rawEvent
	for _, n := range notes {
		ch := n.Channel
		if ch > 0 {
			ch--
		}
		events = append(events, rawEvent{
			tick: ticksAt(n.StartMs),
			msg:  midi.NoteOn(ch, n.Note, n.Velocity),
		})
		events = append(events, rawEvent{
			tick: ticksAt(n.EndMs),
			off:  true,
			msg:  midi.NoteOff(ch, n.Note),
		})
	}
	// offs first at equal ticks so retriggers survive
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(float64(bpm)))
	tr.Add(0, smf.MetaMeter(4, 4))
	var cursor uint32
	for _, ev := range events {
		tr.Add(ev.tick-cursor, ev.msg)
		cursor = ev.tick
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = clock
	s.Add(tr)
	return s
}

// WriteFile saves a take as a .mid file.
func WriteFile(path string, notes []model.CapturedNote, bpm int) error {
	return Build(notes, bpm).WriteFile(path)
}
