package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
)

func completionServer(t *testing.T, status int, content string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) != 1 || body.Messages[0].Role != "user" {
			t.Errorf("expected a single user message, got %+v", body.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream broke"}}`))
			return
		}
		choices := `[]`
		if content != "" {
			choices = `[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` + jsonQuote(content) + `}}]`
		}
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":` + choices + `}`))
	}))
}

func jsonQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		content    string
		wantText   string
		wantErrFn  func(error) bool
		wantCalled int32
	}{
		{name: "success", status: http.StatusOK, content: "  the summary  ", wantText: "the summary", wantCalled: 1},
		{name: "server error is a generation error, no retry", status: http.StatusInternalServerError, wantErrFn: workflowModel.IsGenerationError, wantCalled: 1},
		{name: "no choices", status: http.StatusOK, content: "", wantErrFn: workflowModel.IsGenerationError, wantCalled: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := completionServer(t, tt.status, tt.content, &calls)
			defer srv.Close()

			c := NewClient("test-key", srv.URL+"/", "test-model", srv.Client())
			text, err := c.Complete(context.Background(), "prompt")

			if tt.wantErrFn != nil {
				if !tt.wantErrFn(err) {
					t.Fatalf("unexpected error kind: %v", err)
				}
			} else if err != nil || text != tt.wantText {
				t.Fatalf("got %q, %v", text, err)
			}
			if atomic.LoadInt32(&calls) != tt.wantCalled {
				t.Errorf("expected %d calls, got %d", tt.wantCalled, calls)
			}
		})
	}
}

func TestComplete_MissingKeyIsConfigurationError(t *testing.T) {
	var calls int32
	srv := completionServer(t, http.StatusOK, "x", &calls)
	defer srv.Close()

	c := NewClient("", srv.URL+"/", "test-model", srv.Client())
	_, err := c.Complete(context.Background(), "prompt")

	if !workflowModel.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("no request should be sent without a key, got %d", calls)
	}
}
