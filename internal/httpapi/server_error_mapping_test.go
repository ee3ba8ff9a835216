package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"llmchat/internal/inference"
	"llmchat/pkg/types"
)

func TestChat_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"model load", &inference.ModelLoadError{Path: "m.bin", Err: errors.New("no such file")}, http.StatusServiceUnavailable},
		{"generation", &inference.GenerationError{Err: errors.New("eval failed")}, http.StatusInternalServerError},
		{"too busy", &inference.TooBusyError{Reason: "queue full"}, http.StatusTooManyRequests},
		{"custom", mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot},
		{"deadline", &inference.GenerationError{Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := &mockService{inferErr: c.err}
			r := newTestMux(svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat?prompt=hi", nil))
			if w.Code != c.want {
				t.Fatalf("expected %d, got %d", c.want, w.Code)
			}
			var body types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			if body.Code != c.want || body.Error != c.err.Error() {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}
