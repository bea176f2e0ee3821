package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

// mockModes is the cycle every mock site goes through.
var mockModes = []string{"fast", "slow", "error", "hang"}

// mockState tracks the mode and next change time for a single site.
type mockState struct {
	modeIdx      int
	nextChangeAt time.Time
}

// newMockHandler serves /sites/<name>, cycling each site through
// mockModes every 20-60 seconds:
//   - fast: 200 after 20-80ms
//   - slow: 200 after 1-3s
//   - error: 500 at once (still healthy, any response counts)
//   - hang: never answers before the probe timeout (unhealthy)
func newMockHandler(hang time.Duration) http.Handler {
	var (
		states = make(map[string]*mockState)
		mu     sync.Mutex
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/sites/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/sites/")

		mu.Lock()
		state, exists := states[name]
		if !exists {
			state = &mockState{nextChangeAt: time.Now().Add(randomBetween(20, 60))}
			states[name] = state
		}
		if time.Now().After(state.nextChangeAt) {
			old := mockModes[state.modeIdx]
			state.modeIdx = (state.modeIdx + 1) % len(mockModes)
			state.nextChangeAt = time.Now().Add(randomBetween(20, 60))
			slog.Info("mode change", "site", name, "from", old, "to", mockModes[state.modeIdx])
		}
		mode := mockModes[state.modeIdx]
		mu.Unlock()

		switch mode {
		case "fast":
			time.Sleep(time.Duration(20+rand.Intn(60)) * time.Millisecond)
		case "slow":
			time.Sleep(time.Duration(1000+rand.Intn(2000)) * time.Millisecond)
		case "error":
			http.Error(w, "mock failure", http.StatusInternalServerError)
			return
		case "hang":
			select {
			case <-time.After(hang):
			case <-r.Context().Done():
				return
			}
		}
		fmt.Fprintf(w, "%s is %s\n", name, mode)
	})
	return mux
}

func randomBetween(minSec, maxSec int) time.Duration {
	return time.Duration(minSec+rand.Intn(maxSec-minSec+1)) * time.Second
}

// StartMockServer runs the mock sites on addr.
// Call this in a goroutine before starting the monitor.
func StartMockServer(addr string, hang time.Duration) {
	slog.Info("mock server starting", "addr", addr)
	if err := http.ListenAndServe(addr, newMockHandler(hang)); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
