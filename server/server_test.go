package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scschwa/nord-stage-3-interface/model"
	"github.com/scschwa/nord-stage-3-interface/session"
	"github.com/scschwa/nord-stage-3-interface/take"
)

func newTestServer() (*Server, *session.Session) {
	sess := session.New()
	return New(sess), sess
}

func doRequest(s *Server, method, path string, body io.Reader) *http.Response {
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w.Result()
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer()
	resp := doRequest(s, http.MethodGet, "/health", nil)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var health model.HealthResponse
	assert.NoError(json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal("ok", health.Status)
	assert.NotEmpty(health.Version)
}

func TestStateReflectsSession(t *testing.T) {
	s, sess := newTestServer()
	sess.HandleMessage([]byte{0x90, 60, 100})
	sess.HandleMessage([]byte{0x90, 64, 100})
	sess.HandleMessage([]byte{0x90, 67, 100})

	resp := doRequest(s, http.MethodGet, "/state", nil)
	assert.Equal(t, 200, resp.StatusCode)

	var state model.StateResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, model.Notes{60, 64, 67}, state.HeldNotes)
	assert.NotNil(t, state.Chord)
	assert.Equal(t, "C", state.Chord.Name)
}

func TestRecordLifecycle(t *testing.T) {
	s, sess := newTestServer()

	assert := assert.New(t)
	assert.Equal(200, doRequest(s, http.MethodPost, "/record/start", nil).StatusCode)
	assert.Equal(409, doRequest(s, http.MethodPost, "/record/start", nil).StatusCode)

	sess.HandleMessage([]byte{0x90, 60, 100})
	sess.HandleMessage([]byte{0x80, 60, 0})

	assert.Equal(200, doRequest(s, http.MethodPost, "/record/stop", nil).StatusCode)
	assert.Equal(409, doRequest(s, http.MethodPost, "/record/stop", nil).StatusCode)
	assert.Equal(200, doRequest(s, http.MethodPost, "/record/clear", nil).StatusCode)
	assert.Equal(409, doRequest(s, http.MethodPost, "/record/clear", nil).StatusCode)
}

func TestTakeNotFoundBeforeFinalize(t *testing.T) {
	s, _ := newTestServer()
	assert.Equal(t, 404, doRequest(s, http.MethodGet, "/take", nil).StatusCode)
	assert.Equal(t, 404, doRequest(s, http.MethodGet, "/take.musicxml", nil).StatusCode)
}

func TestTakeAfterRecording(t *testing.T) {
	s, sess := newTestServer()
	assert.NoError(t, sess.StartRecording())
	sess.HandleMessage([]byte{0x90, 60, 100})
	sess.HandleMessage([]byte{0x80, 60, 0})
	assert.NoError(t, sess.StopRecording())
	assert.Eventually(t, func() bool { return sess.Result() != nil }, time.Second, 5*time.Millisecond)

	resp := doRequest(s, http.MethodGet, "/take", nil)
	assert.Equal(t, 200, resp.StatusCode)

	var res take.Result
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.NotEmpty(t, res.ID)

	resp = doRequest(s, http.MethodGet, "/take.musicxml", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "musicxml")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "score-partwise")
}

func TestTranscribe(t *testing.T) {
	input := model.TranscribeRequestBody{
		Notes: []model.CapturedNote{
			{Note: 60, Velocity: 100, Channel: 1, StartMs: 0, EndMs: 500},
			{Note: 62, Velocity: 100, Channel: 1, StartMs: 500, EndMs: 1000},
			{Note: 64, Velocity: 100, Channel: 1, StartMs: 1000, EndMs: 1500},
		},
	}
	data, err := json.Marshal(input)
	assert.NoError(t, err)

	s, _ := newTestServer()
	resp := doRequest(s, http.MethodPost, "/transcribe", bytes.NewReader(data))
	assert.Equal(t, 200, resp.StatusCode)

	var res take.Result
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 120, res.BPM)
	assert.Len(t, res.Notes, 3)
	assert.Len(t, res.Document.Measures, 1)
}

func TestTranscribeBadBody(t *testing.T) {
	s, _ := newTestServer()
	resp := doRequest(s, http.MethodPost, "/transcribe", bytes.NewReader([]byte("not json")))
	assert.Equal(t, 400, resp.StatusCode)
}
