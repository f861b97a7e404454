package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type item struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type apiError struct {
	Error string `json:"error"`
}

func fastBackoff() *BackoffConfig {
	return NewBackoffConfig().WithInitialInterval(time.Millisecond).WithMaxInterval(5 * time.Millisecond)
}

// hangUp drops the connection without writing a response
func hangUp(t *testing.T, w http.ResponseWriter) {
	t.Helper()
	conn, _, err := w.(http.Hijacker).Hijack()
	if err != nil {
		t.Errorf("hijack: %v", err)
		return
	}
	_ = conn.Close()
}

func TestRequestJSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/todos" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content-type: %q", got)
		}
		if got := r.Header.Get("X-Client"); got != "test" {
			t.Errorf("default header: %q", got)
		}
		var in item
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(item{ID: 1, Title: in.Title})
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL+"/api/", ClientOptions{DefaultHeaders: map[string]string{"X-Client": "test"}})

	var out item
	_, _, status, err := client.Request().
		WithContext(context.Background()).
		WithMethod(POST).
		WithPath("todos").
		WithBody(item{Title: "write tests"}).
		WithSuccessResp(&out).
		Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if status != http.StatusCreated || out.ID != 1 || out.Title != "write tests" {
		t.Errorf("got status %d, body %+v", status, out)
	}
}

func TestErrorResponseDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"title is required"}`)
	}))
	defer srv.Close()

	var apiErr apiError
	_, errResp, status, err := NewHttpClient(srv.URL, ClientOptions{}).Request().
		WithMethod(POST).
		WithPath("/todos").
		WithBody(item{}).
		WithErrorResp(&apiErr).
		Execute()

	if !IsStatus(err, http.StatusBadRequest) || status != http.StatusBadRequest {
		t.Fatalf("got status %d err %v", status, err)
	}
	if errResp == nil || apiErr.Error != "title is required" {
		t.Errorf("error body: %+v", apiErr)
	}
}

func TestTextResponseIntoString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "pong")
	}))
	defer srv.Close()

	var out string
	if _, _, _, err := NewHttpClient(srv.URL, ClientOptions{}).Request().WithPath("/ping").WithSuccessResp(&out).Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "pong" {
		t.Errorf("got %q", out)
	}
}

func TestDismiss404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, _, status, err := NewHttpClient(srv.URL, ClientOptions{Dismiss404: true}).Request().WithPath("/todos/9").Execute()
	if err != nil || status != http.StatusNotFound {
		t.Errorf("got status %d err %v", status, err)
	}

	_, _, _, err = NewHttpClient(srv.URL, ClientOptions{}).Request().WithPath("/todos/9").Execute()
	if !IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 StatusError, got %v", err)
	}
}

func TestBackoffRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"id":0,"title":"again"}` {
			t.Errorf("retry body: %s", body)
		}
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL, ClientOptions{Backoff: fastBackoff(), Logger: NewZapHTTPLogger()})

	_, _, status, err := client.Request().WithMethod(PUT).WithPath("/todos/1").WithBody(item{Title: "again"}).Execute()
	if err != nil || status != http.StatusNoContent {
		t.Fatalf("got status %d err %v", status, err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls: got %d, want 3", calls.Load())
	}
}

func TestBackoffDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL, ClientOptions{Backoff: fastBackoff()})
	if _, _, _, err := client.Request().WithMethod(DELETE).WithPath("/todos/1").Execute(); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls: got %d, want 1", calls.Load())
	}
}

func TestBackoffRetryPolicyByMethod(t *testing.T) {
	tests := []struct {
		name      string
		method    RequestMethod
		hangUp    bool
		status    int
		wantCalls int32
	}{
		{"get retried after hang up", GET, true, 0, 4},
		{"put retried after hang up", PUT, true, 0, 4},
		{"delete retried after hang up", DELETE, true, 0, 4},
		{"post not retried after hang up", POST, true, 0, 1},
		{"patch not retried after hang up", PATCH, true, 0, 1},
		{"post not retried on bad gateway", POST, false, http.StatusBadGateway, 1},
		{"patch not retried on gateway timeout", PATCH, false, http.StatusGatewayTimeout, 1},
		{"post retried when throttled", POST, false, http.StatusTooManyRequests, 4},
		{"patch retried when unavailable", PATCH, false, http.StatusServiceUnavailable, 4},
		{"get retried on bad gateway", GET, false, http.StatusBadGateway, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				if tt.hangUp {
					hangUp(t, w)
					return
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := NewHttpClient(srv.URL, ClientOptions{Backoff: fastBackoff()})
			if _, _, _, err := client.Request().WithMethod(tt.method).WithPath("/todos/1").WithBody(item{Title: "x"}).Execute(); err == nil {
				t.Fatal("expected error")
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls: got %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	b := NewBackoffConfig().WithInitialInterval(100 * time.Millisecond).WithMaxInterval(time.Second)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{5, time.Second},
	}
	for _, tt := range tests {
		if got := b.delay(tt.attempt); got != tt.want {
			t.Errorf("delay(%d): got %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBuildQueryStringEncodes(t *testing.T) {
	if got := buildQueryString(map[string]string{"q": "a b", "completed": "true"}); got != "completed=true&q=a+b" {
		t.Errorf("got %q", got)
	}
}
