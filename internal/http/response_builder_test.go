package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/entries/1").
		Data(map[string]string{"ok": "yes"}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Header().Get("Location"); got != "/api/entries/1" {
		t.Errorf("Location = %q", got)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["ok"] != "yes" {
		t.Errorf("Body = %s (%v)", w.Body.String(), err)
	}
}

func TestJSONResponseBuilder_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Data("ignored").Write(w)

	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("got %d with body %q, want empty 204", w.Code, w.Body.String())
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name      string
		builder   *JSONResponseBuilder
		wantCode  int
		wantField string
	}{
		{"bad request", BadRequestError("bad"), http.StatusBadRequest, ""},
		{"not found", NotFoundError("missing"), http.StatusNotFound, ""},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError, ""},
		{"field", FieldError("cycle", "invalid cycle"), http.StatusUnprocessableEntity, "cycle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantCode {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantCode)
			}
			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error == "" || body.Field != tt.wantField {
				t.Errorf("body = %+v", body)
			}
		})
	}
}
