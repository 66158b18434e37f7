package model

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type StateResponse struct {
	HeldNotes Notes        `json:"held_notes"`
	Chord     *ChordResult `json:"chord,omitempty"`
	Recording bool         `json:"recording"`
}

type TranscribeRequestBody struct {
	Notes []CapturedNote `json:"notes"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
