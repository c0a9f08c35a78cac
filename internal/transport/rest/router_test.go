package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bemestar/internal/cache"
	"bemestar/internal/catalog"
	"bemestar/internal/model"
	"bemestar/internal/service"
	"bemestar/internal/wizard"
)

type stubSink struct{ err error }

func (s *stubSink) Submit(context.Context, *model.Payload) error { return s.err }

func newTestRouter(t *testing.T, sink wizard.Sink) http.Handler {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	svc := service.NewWizardService(cat, cache.NewMemorySessionCache(time.Hour, time.Minute), sink, "", nil)
	return NewRouter(&Container{WizardService: svc})
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]json.RawMessage{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, out
}

func startSession(t *testing.T, h http.Handler) (string, model.View) {
	t.Helper()
	rec, body := do(t, h, "POST", "/v1/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body)
	}
	var id string
	var step model.View
	json.Unmarshal(body["sessionId"], &id)
	json.Unmarshal(body["step"], &step)
	return id, step
}

func TestHealth(t *testing.T) {
	rec, body := do(t, newTestRouter(t, &stubSink{}), "GET", "/health", nil)
	if rec.Code != http.StatusOK || string(body["status"]) != `"ok"` {
		t.Errorf("health = %d %s", rec.Code, rec.Body)
	}
}

func TestCatalogEndpoint(t *testing.T) {
	rec, body := do(t, newTestRouter(t, &stubSink{}), "GET", "/v1/catalog", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var questions []model.Descriptor
	if err := json.Unmarshal(body["questions"], &questions); err != nil {
		t.Fatal(err)
	}
	if len(questions) == 0 || questions[len(questions)-1].Kind != model.KindReview {
		t.Errorf("questions = %d", len(questions))
	}
}

func TestCatalogListWithoutStoreIs503(t *testing.T) {
	cat, _ := catalog.Default()
	svc := service.NewWizardService(cat, cache.NewMemorySessionCache(time.Hour, time.Minute), &stubSink{}, "", nil)
	h := NewRouter(&Container{WizardService: svc, CatalogService: service.NewCatalogService(nil)})

	rec, _ := do(t, h, "GET", "/v1/catalogs", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /v1/catalogs = %d %s", rec.Code, rec.Body)
	}
}

func TestSessionFlowOverHTTP(t *testing.T) {
	h := newTestRouter(t, &stubSink{})
	id, step := startSession(t, h)
	if step.QuestionKey != "tcle_txt" || step.CanRetreat {
		t.Fatalf("first step = %+v", step)
	}

	rec, _ := do(t, h, "POST", "/v1/sessions/"+id+"/answer", model.Input{})
	if rec.Code != http.StatusOK {
		t.Fatalf("info answer = %d %s", rec.Code, rec.Body)
	}

	rec, body := do(t, h, "POST", "/v1/sessions/"+id+"/answer", model.Input{Value: "maybe"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid answer = %d", rec.Code)
	}
	var msg string
	json.Unmarshal(body["error"], &msg)
	if msg != wizard.MsgInvalidOption {
		t.Errorf("error = %q", msg)
	}

	rec, _ = do(t, h, "POST", "/v1/sessions/"+id+"/submit", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("submit off review = %d", rec.Code)
	}

	rec, body = do(t, h, "POST", "/v1/sessions/"+id+"/events", model.Event{Type: model.EventBack})
	if rec.Code != http.StatusOK {
		t.Fatalf("back event = %d", rec.Code)
	}
	json.Unmarshal(body["step"], &step)
	if step.QuestionKey != "tcle_txt" {
		t.Errorf("after back at %s", step.QuestionKey)
	}

	do(t, h, "POST", "/v1/sessions/"+id+"/answer", model.Input{})
	rec, body = do(t, h, "POST", "/v1/sessions/"+id+"/answer", model.Input{Value: "decline"})
	if rec.Code != http.StatusOK {
		t.Fatalf("decline = %d", rec.Code)
	}
	json.Unmarshal(body["step"], &step)
	if step.Status != model.SessionTerminated || step.Message != wizard.MsgDeclined {
		t.Errorf("after decline = %+v", step)
	}

	rec, _ = do(t, h, "POST", "/v1/sessions/"+id+"/back", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("back after termination = %d", rec.Code)
	}
}

func TestSubmitFailureMapsToBadGateway(t *testing.T) {
	cat, _ := catalog.Default()
	sessions := cache.NewMemorySessionCache(time.Hour, time.Minute)
	svc := service.NewWizardService(cat, sessions, &stubSink{err: errors.New("db down")}, "", nil)
	h := NewRouter(&Container{WizardService: svc})

	id, _ := startSession(t, h)
	session, err := sessions.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	session.Progress.Position = 1 << 20 // clamped onto the review step
	session.Progress.State.Consent = model.ConsentAccepted
	if err := sessions.Set(context.Background(), session); err != nil {
		t.Fatal(err)
	}

	rec, body := do(t, h, "POST", "/v1/sessions/"+id+"/submit", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("submit = %d %s", rec.Code, rec.Body)
	}
	var msg string
	json.Unmarshal(body["error"], &msg)
	if msg != wizard.MsgSubmitFailed {
		t.Errorf("error = %q", msg)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	h := newTestRouter(t, &stubSink{})
	if rec, _ := do(t, h, "GET", "/v1/sessions/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if rec, _ := do(t, h, "POST", "/v1/sessions/missing/answer", model.Input{}); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestBadJSONIs400(t *testing.T) {
	h := newTestRouter(t, &stubSink{})
	id, _ := startSession(t, h)
	req := httptest.NewRequest("POST", "/v1/sessions/"+id+"/answer", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}
