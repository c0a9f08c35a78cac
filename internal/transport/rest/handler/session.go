package handler

import (
	"bemestar/internal/model"
	"bemestar/internal/service"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// SessionHandler exposes questionnaire sessions over HTTP.
type SessionHandler struct {
	wizardSvc *service.WizardService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(wizardSvc *service.WizardService) *SessionHandler {
	return &SessionHandler{wizardSvc: wizardSvc}
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizardSvc.Start(r.Context())
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /v1/sessions/{id} and GET /v1/sessions/{id}/step
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizardSvc.Current(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Answer handles POST /v1/sessions/{id}/answer
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var in model.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := h.wizardSvc.Answer(r.Context(), mux.Vars(r)["id"], in)
	h.respond(w, view, err)
}

// Back handles POST /v1/sessions/{id}/back
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizardSvc.Back(r.Context(), mux.Vars(r)["id"])
	h.respond(w, view, err)
}

// Submit handles POST /v1/sessions/{id}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizardSvc.Submit(r.Context(), mux.Vars(r)["id"])
	h.respond(w, view, err)
}

// Event handles POST /v1/sessions/{id}/events with {"type": ..., "input": ...}
func (h *SessionHandler) Event(w http.ResponseWriter, r *http.Request) {
	var ev model.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := h.wizardSvc.Handle(r.Context(), mux.Vars(r)["id"], ev)
	h.respond(w, view, err)
}

func (h *SessionHandler) respond(w http.ResponseWriter, view *service.SessionView, err error) {
	if err != nil {
		writeServiceError(w, err, view)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
