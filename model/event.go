package model

type EventType uint8

const (
	EventUnknown EventType = iota
	EventNoteOn
	EventNoteOff
	EventControlChange
	EventProgramChange
	EventPitchBend
	EventChannelPressure
	EventPolyPressure
	EventSysEx
)

func (t EventType) String() string {
	switch t {
	case EventNoteOn:
		return "noteOn"
	case EventNoteOff:
		return "noteOff"
	case EventControlChange:
		return "controlChange"
	case EventProgramChange:
		return "programChange"
	case EventPitchBend:
		return "pitchBend"
	case EventChannelPressure:
		return "channelPressure"
	case EventPolyPressure:
		return "polyPressure"
	case EventSysEx:
		return "sysex"
	default:
		return "unknown"
	}
}

// Event is one decoded performance message. Raw always carries the
// original bytes so malformed input is preserved for diagnostics.
type Event struct {
	Type        EventType
	Channel     uint8 // 1-16, 0 for sysex/unknown
	Note        uint8
	Velocity    uint8
	Controller  uint8
	Value       uint8
	Program     uint8
	Pressure    uint8
	PitchBend   int16 // signed 14-bit, centered at 0
	Raw         []byte
	TimestampMs int64
}
