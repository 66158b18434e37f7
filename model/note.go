package model

type Notes = []uint8

// HeldNote exists only between a noteOn and its matching noteOff.
type HeldNote struct {
	Velocity uint8
	Channel  uint8
	OnsetMs  int64
}

// ControllerValue is the last seen value for one controller number.
type ControllerValue struct {
	Value       uint8
	TimestampMs int64
}

// CapturedNote is one finalized note of a take, times relative to the
// recording start. Immutable once the recorder closes it.
type CapturedNote struct {
	Note     uint8 `json:"note"`
	Velocity uint8 `json:"velocity"`
	Channel  uint8 `json:"channel"`
	StartMs  int64 `json:"start_ms"`
	EndMs    int64 `json:"end_ms"`
}

// QuantizedNote is a CapturedNote snapped to the take's grid, in beat
// units. Recomputed from scratch whenever a take is finalized.
type QuantizedNote struct {
	Note          uint8   `json:"note"`
	Velocity      uint8   `json:"velocity"`
	Channel       uint8   `json:"channel"`
	StartBeats    float64 `json:"start_beats"`
	DurationBeats float64 `json:"duration_beats"`
}
