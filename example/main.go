package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/sitepulse"
)

func main() {
	// start mock server (see mock_server.go); hung requests outlast the probe timeout
	go StartMockServer(":9999", 10*time.Second)
	time.Sleep(100 * time.Millisecond)

	// grid API: 2 services × 2 envs = 4 sites from one declaration
	urls, err := sitepulse.NewURLGrid(
		sitepulse.WithURLTemplate("http://localhost:9999/sites/{{.svc}}-{{.env}}"),
		sitepulse.WithDimensions(map[string][]string{
			"svc": {"users", "orders"},
			"env": {"prod", "staging"},
		}),
	)
	if err != nil {
		slog.Error("failed to create url grid", "error", err)
		os.Exit(1)
	}
	urls = append(urls, "https://example.com")

	m, err := sitepulse.New(
		sitepulse.WithSeedURLs(urls...),
		sitepulse.WithPollingInterval(5*time.Second),
		sitepulse.WithProbeTimeout(4*time.Second),
		sitepulse.WithMaxConcurrency(4),
		sitepulse.WithPort(3000),
		sitepulse.WithTitle("SitePulse Demo"),
		sitepulse.WithStatusCallback(func(u sitepulse.StatusUpdate) {
			if u.Latest() == sitepulse.OutcomeUnhealthy {
				slog.Warn("site unhealthy", "url", u.URL)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create monitor", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   SitePulse Demo                                      ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:3000 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Sites:                                              ║")
	fmt.Println("  ║   • 4 mock (2 services × 2 envs via Grid)             ║")
	fmt.Println("  ║   • 1 external (example.com)                          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Start(ctx); err != nil {
		slog.Error("sitepulse error", "error", err)
		os.Exit(1)
	}
}
