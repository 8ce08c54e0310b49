package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"iot-practice-service/internal/app"
	"iot-practice-service/internal/domain"
	"iot-practice-service/internal/practice"
)

// RESTHandler exposes the practice use cases as JSON over HTTP.
type RESTHandler struct {
	service *app.PracticeService
}

func NewRESTHandler(service *app.PracticeService) *RESTHandler {
	return &RESTHandler{service: service}
}

type sessionView struct {
	SessionID string `json:"sessionId"`
	practice.View
}

type assignmentSummary struct {
	Number        int    `json:"assignmentNumber"`
	Topic         string `json:"topic"`
	QuestionCount int    `json:"questionCount"`
}

// Routes mounts the handler on r.
func (h *RESTHandler) Routes(r chi.Router) {
	r.Get("/assignments", h.listAssignments)
	r.Post("/sessions", h.createSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Delete("/", h.deleteSession)
		r.Post("/events", h.postEvent)
	})
}

func (h *RESTHandler) listAssignments(w http.ResponseWriter, r *http.Request) {
	bank, err := h.service.Assignments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]assignmentSummary, len(bank))
	for i, a := range bank {
		out[i] = assignmentSummary{Number: a.Number, Topic: a.Topic, QuestionCount: len(a.Questions)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RESTHandler) createSession(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()
	view, err := h.service.Open(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView{SessionID: sessionID, View: view})
}

func (h *RESTHandler) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	view, err := h.service.View(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView{SessionID: sessionID, View: view})
}

func (h *RESTHandler) deleteSession(w http.ResponseWriter, r *http.Request) {
	h.service.Close(r.Context(), chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *RESTHandler) postEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var msg inboundMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed event"})
		return
	}
	ev, err := decodeEvent(msg)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.service.Apply(r.Context(), sessionID, ev)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView{SessionID: sessionID, View: view})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrBankNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownEvent), errors.Is(err, errInvalidPayload):
		status = http.StatusBadRequest
	default:
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
