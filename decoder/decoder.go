package decoder

import (
	"github.com/scschwa/nord-stage-3-interface/model"
)

// status high nibbles, per the MIDI 1.0 channel voice message table
const (
	statusNoteOff         = 0x8
	statusNoteOn          = 0x9
	statusPolyPressure    = 0xA
	statusControlChange   = 0xB
	statusProgramChange   = 0xC
	statusChannelPressure = 0xD
	statusPitchBend       = 0xE
	statusSystem          = 0xF
)

// Decode turns one raw message into exactly one event. It is total:
// malformed or truncated input degrades to an unknown event that still
// carries the raw bytes.
func Decode(raw []byte, timestampMs int64) model.Event {
	ev := model.Event{
		Type:        model.EventUnknown,
		Raw:         raw,
		TimestampMs: timestampMs,
	}
	if len(raw) == 0 {
		return ev
	}

	status := raw[0]
	if status < 0x80 {
		// data byte with no status, nothing to dispatch on
		return ev
	}

	if status>>4 == statusSystem {
		// 0xF0 family is passed through unparsed, no channel
		ev.Type = model.EventSysEx
		return ev
	}

	ev.Channel = status&0x0F + 1

	switch status >> 4 {
	case statusNoteOff:
		if len(raw) < 3 {
			return unknown(ev)
		}
		ev.Type = model.EventNoteOff
		ev.Note = raw[1]
		ev.Velocity = raw[2]
	case statusNoteOn:
		if len(raw) < 3 {
			return unknown(ev)
		}
		ev.Note = raw[1]
		ev.Velocity = raw[2]
		if ev.Velocity == 0 {
			// running-status convention: velocity 0 means note off
			ev.Type = model.EventNoteOff
		} else {
			ev.Type = model.EventNoteOn
		}
	case statusPolyPressure:
		if len(raw) < 3 {
			return unknown(ev)
		}
		ev.Type = model.EventPolyPressure
		ev.Note = raw[1]
		ev.Pressure = raw[2]
	case statusControlChange:
		if len(raw) < 3 {
			return unknown(ev)
		}
		ev.Type = model.EventControlChange
		ev.Controller = raw[1]
		ev.Value = raw[2]
	case statusProgramChange:
		if len(raw) < 2 {
			return unknown(ev)
		}
		ev.Type = model.EventProgramChange
		ev.Program = raw[1]
	case statusChannelPressure:
		if len(raw) < 2 {
			return unknown(ev)
		}
		ev.Type = model.EventChannelPressure
		ev.Pressure = raw[1]
	case statusPitchBend:
		if len(raw) < 3 {
			return unknown(ev)
		}
		ev.Type = model.EventPitchBend
		ev.PitchBend = int16(uint16(raw[2])<<7|uint16(raw[1])) - 8192
	}
	return ev
}

func unknown(ev model.Event) model.Event {
	ev.Type = model.EventUnknown
	ev.Channel = 0
	return ev
}
