package constants

import "os"

const Version = "0.1.0"

// DefaultBPM is the fallback tempo when a take has too few onsets to
// estimate one.
const DefaultBPM = 120

// BeatsPerMeasure is fixed for this version; no meter detection.
const BeatsPerMeasure = 4

// DivisionsPerQuarter is the MusicXML tick resolution. 16 covers the
// finest quantize grid (1/16 beat) exactly.
const DivisionsPerQuarter = 16

func GetAPIPort() string {
	port := os.Getenv("API_PORT")
	if port != "" {
		return port
	}
	// same port the original sidecar used
	return "47821"
}

func GetArchiveBucket() string {
	return os.Getenv("ARCHIVE_BUCKET")
}

func GetMidiPort() string {
	return os.Getenv("MIDI_PORT")
}
