package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"testing"
	"time"
)

// TestClient_ConnectionReuse verifies that the HTTP client reuses connections
// when probing the same host repeatedly. This validates that the body is
// drained and the Transport keeps connections alive.
func TestClient_ConnectionReuse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient()

	var reusedCount int
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Reused {
				reusedCount++
			}
		},
	}

	const numRequests = 5

	for i := 0; i < numRequests; i++ {
		ctx := httptrace.WithClientTrace(context.Background(), trace)
		out := client.Probe(ctx, server.URL, 5*time.Second)
		if !out.Success {
			t.Fatalf("probe %d failed", i)
		}
	}

	// all probes after the first should reuse the connection
	expectedMinReuse := numRequests - 2 // allow some tolerance
	if reusedCount < expectedMinReuse {
		t.Errorf("expected at least %d reused connections, got %d out of %d requests",
			expectedMinReuse, reusedCount, numRequests)
	}
}

func TestClient_Probe(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		timeout     time.Duration
		wantSuccess bool
		minElapsed  time.Duration
	}{
		{
			name: "ok response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			timeout:     time.Second,
			wantSuccess: true,
		},
		{
			name: "server error still reachable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			timeout:     time.Second,
			wantSuccess: true,
		},
		{
			name: "not found still reachable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			timeout:     time.Second,
			wantSuccess: true,
		},
		{
			name: "slow response within timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(50 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			},
			timeout:     time.Second,
			wantSuccess: true,
			minElapsed:  50 * time.Millisecond,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
			},
			timeout:     100 * time.Millisecond,
			wantSuccess: false,
			minElapsed:  100 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient()
			defer client.Close()

			out := client.Probe(context.Background(), server.URL, tt.timeout)

			if out.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", out.Success, tt.wantSuccess)
			}
			if out.Endpoint != server.URL {
				t.Errorf("Endpoint = %q, want %q", out.Endpoint, server.URL)
			}
			if out.ElapsedMs < tt.minElapsed.Milliseconds() {
				t.Errorf("ElapsedMs = %d, want >= %d", out.ElapsedMs, tt.minElapsed.Milliseconds())
			}
			if out.ElapsedMs < 0 {
				t.Errorf("ElapsedMs = %d, want non-negative", out.ElapsedMs)
			}
		})
	}
}

func TestClient_ProbeConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	out := NewClient().Probe(context.Background(), url, time.Second)

	if out.Success {
		t.Error("Success = true for closed server, want false")
	}
}

func TestClient_ProbeInvalidURL(t *testing.T) {
	out := NewClient().Probe(context.Background(), "http://bad host/", time.Second)

	if out.Success {
		t.Error("Success = true for invalid URL, want false")
	}
}

// TestClient_Close verifies that Close() is safe to call and idempotent.
func TestClient_Close(t *testing.T) {
	client := NewClient()

	// should not panic
	client.Close()

	// calling Close multiple times should be safe (idempotent)
	client.Close()
	client.Close()
}

// TestClient_Close_NilClient verifies that Close() handles nil receiver safely.
func TestClient_Close_NilClient(t *testing.T) {
	var client *Client

	// should not panic on nil receiver
	client.Close()
}

// TestClient_Close_ActuallyClosesConnections verifies that Close closes idle
// connections, but the client remains usable for new probes.
func TestClient_Close_ActuallyClosesConnections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient()

	for i := 0; i < 5; i++ {
		if out := client.Probe(context.Background(), server.URL, time.Second); !out.Success {
			t.Fatalf("probe %d failed", i)
		}
	}

	client.Close()

	if out := client.Probe(context.Background(), server.URL, time.Second); !out.Success {
		t.Error("probe after Close failed")
	}
}
