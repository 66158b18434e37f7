package model

// ChordResult names the chord currently sounding. Derived from held-note
// state and recomputed on every change, never persisted.
type ChordResult struct {
	Root    string `json:"root"`
	Suffix  string `json:"suffix"`
	Quality string `json:"quality"`
	Bass    string `json:"bass,omitempty"`
	Name    string `json:"name"`
}
