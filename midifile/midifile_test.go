package midifile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/scschwa/nord-stage-3-interface/model"
)

func TestBuildAndExtractTake(t *testing.T) {
	captured := []model.CapturedNote{
		{Note: 60, Velocity: 100, Channel: 1, StartMs: 0, EndMs: 500},
		{Note: 64, Velocity: 90, Channel: 1, StartMs: 500, EndMs: 1000},
		{Note: 67, Velocity: 80, Channel: 1, StartMs: 1000, EndMs: 2000},
	}

	var buf bytes.Buffer
	_, err := Build(captured, 120).WriteTo(&buf)
	assert.NoError(t, err)

	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)

	got := Notes(parsed)
	assert.Equal(t, captured, got)
}

func TestBuildRetriggeredNote(t *testing.T) {
	captured := []model.CapturedNote{
		{Note: 60, Velocity: 100, Channel: 1, StartMs: 0, EndMs: 500},
		{Note: 60, Velocity: 100, Channel: 1, StartMs: 500, EndMs: 1000},
	}

	var buf bytes.Buffer
	_, err := Build(captured, 120).WriteTo(&buf)
	assert.NoError(t, err)

	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)

	// the off at 500 must land before the second on so both pairs survive
	got := Notes(parsed)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(500), got[0].EndMs)
	assert.Equal(t, int64(500), got[1].StartMs)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read("does-not-exist.mid")
	assert.Error(t, err)
}
