package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTransport(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
		if r.URL.Path == "/fail" {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewTransport("donelaitis", nil)}
	ctx := WithRunID(context.Background(), "run-7")

	tests := []struct {
		name   string
		path   string
		status float64
	}{
		{"success", "/", 200},
		{"server error", "/fail", 503},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(func() {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, srv.URL+tt.path, nil)
				resp, err := client.Do(req)
				if err != nil {
					t.Fatalf("Do: %v", err)
				}
				resp.Body.Close()
			})
			m := decodeLine(t, output)
			if m["msg"] != "tagging_request" || m["status"] != tt.status {
				t.Errorf("log = %v", m)
			}
			if m["run_id"] != "run-7" || m["backend"] != "donelaitis" {
				t.Errorf("log context = %v", m)
			}
			if len(seen) != 16 || m["request_id"] != seen {
				t.Errorf("request id header %q, logged %v", seen, m["request_id"])
			}
		})
	}
}

func TestTransportKeepsRequestID(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set(RequestIDHeader, "fixed")
	resp, err := (&http.Client{Transport: NewTransport("semantika", http.DefaultTransport)}).Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if seen != "fixed" {
		t.Errorf("request id = %q, want fixed", seen)
	}
}

func TestTransportError(t *testing.T) {
	client := &http.Client{Transport: NewTransport("semantika", nil)}
	output := captureLogOutput(func() {
		if _, err := client.Get("http://127.0.0.1:1/"); err == nil {
			t.Error("expected a connection error")
		}
	})
	if m := decodeLine(t, output); m["level"] != "WARN" || m["error"] == nil {
		t.Errorf("log = %v", m)
	}
}
