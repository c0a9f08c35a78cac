package handler

import (
	"bemestar/internal/service"
	"bemestar/internal/wizard"
	"encoding/json"
	"errors"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps session errors to HTTP statuses. view, when known,
// is echoed so the client can re-render the step it is still on.
func writeServiceError(w http.ResponseWriter, err error, view *service.SessionView) {
	body := map[string]interface{}{"error": err.Error()}
	if view != nil {
		body["sessionId"] = view.SessionID
		body["step"] = view.Step
	}

	var perr *wizard.PersistenceError
	status := http.StatusInternalServerError
	if verr, ok := wizard.IsValidation(err); ok {
		status = http.StatusUnprocessableEntity
		body["error"] = verr.Message
		body["validation"] = verr
	} else {
		switch {
		case errors.As(err, &perr):
			status = http.StatusBadGateway
			body["error"] = perr.UserMessage()
		case errors.Is(err, service.ErrSessionNotFound),
			errors.Is(err, service.ErrCatalogNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrNoCatalogStore):
			status = http.StatusServiceUnavailable
		case errors.Is(err, wizard.ErrTerminated),
			errors.Is(err, wizard.ErrSubmitInFlight),
			errors.Is(err, service.ErrSessionBusy):
			status = http.StatusConflict
		case errors.Is(err, wizard.ErrNotAtReview),
			errors.Is(err, wizard.ErrReviewRequiresSubmit),
			errors.Is(err, wizard.ErrUnknownEvent):
			status = http.StatusBadRequest
		}
	}
	writeJSON(w, status, body)
}
