// Standalone mock server for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/sitepulse serve -c example/config.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

func main() {
	addr := flag.String("addr", ":9999", "listen address")
	flag.Parse()

	fmt.Printf("Mock server starting on %s\n", *addr)
	fmt.Println("  /up       always answers 200")
	fmt.Println("  /error    always answers 500 (still healthy)")
	fmt.Println("  /slow     answers after 2s")
	fmt.Println("  /hang     answers after 30s (times out)")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mock failure", http.StatusInternalServerError)
	})
	mux.HandleFunc("/slow", delayed(2*time.Second))
	mux.HandleFunc("/hang", delayed(30*time.Second))

	if err := http.ListenAndServe(*addr, mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// delayed answers 200 after d, or gives up when the client does.
func delayed(d time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(d):
			fmt.Fprintln(w, "ok")
		case <-r.Context().Done():
		}
	}
}
