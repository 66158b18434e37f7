package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/scschwa/nord-stage-3-interface/constants"
	"github.com/scschwa/nord-stage-3-interface/model"
	"github.com/scschwa/nord-stage-3-interface/session"
	"github.com/scschwa/nord-stage-3-interface/take"
)

var errNoTake = errors.New("no finalized take available")

// Server exposes the live session over the local sidecar API the desktop
// app talks to.
type Server struct {
	session *session.Session
}

func New(sess *session.Session) *Server {
	return &Server{session: sess}
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/health", s.HandleHealth).Methods("GET")
	router.HandleFunc("/state", s.HandleState).Methods("GET")
	router.HandleFunc("/record/start", s.HandleRecordStart).Methods("POST")
	router.HandleFunc("/record/stop", s.HandleRecordStop).Methods("POST")
	router.HandleFunc("/record/clear", s.HandleRecordClear).Methods("POST")
	router.HandleFunc("/take", s.HandleTake).Methods("GET")
	router.HandleFunc("/take.musicxml", s.HandleTakeMusicXML).Methods("GET")
	router.HandleFunc("/transcribe", s.HandleTranscribe).Methods("POST")
	router.HandleFunc("/events", s.HandleEvents)

	// the desktop app runs on its own origin
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:1420", "tauri://localhost"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(router)
}

// Run blocks serving the API.
func (s *Server) Run() error {
	addr := ":" + constants.GetAPIPort()
	logrus.WithField("addr", addr).Info("serving API")
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, model.HealthResponse{Status: "ok", Version: constants.Version})
}

func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.session.Snapshot())
}

func (s *Server) HandleRecordStart(w http.ResponseWriter, r *http.Request) {
	if err := s.session.StartRecording(); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, s.session.Snapshot())
}

func (s *Server) HandleRecordStop(w http.ResponseWriter, r *http.Request) {
	if err := s.session.StopRecording(); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, s.session.Snapshot())
}

func (s *Server) HandleRecordClear(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ClearTake(); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, s.session.Snapshot())
}

func (s *Server) HandleTake(w http.ResponseWriter, r *http.Request) {
	res := s.session.Result()
	if res == nil {
		writeError(w, http.StatusNotFound, errNoTake)
		return
	}
	writeJSON(w, res)
}

func (s *Server) HandleTakeMusicXML(w http.ResponseWriter, r *http.Request) {
	res := s.session.Result()
	if res == nil {
		writeError(w, http.StatusNotFound, errNoTake)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.recordare.musicxml+xml")
	w.Write(res.MusicXML)
}

// HandleTranscribe runs the pipeline over a caller-supplied note list,
// so the app can re-transcribe edited or imported takes.
func (s *Server) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var input model.TranscribeRequestBody
	if err := json.Unmarshal(reqBody, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := take.Finalize(input.Notes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, res)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorln("encoding response:", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}
