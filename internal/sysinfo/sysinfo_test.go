package sysinfo

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProc writes a minimal procfs tree with meminfo and loadavg.
func fakeProc(t *testing.T, meminfo string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meminfo"), []byte(meminfo), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loadavg"), []byte("0.52 0.41 0.30 1/123 4567\n"), 0o644))
	return dir
}

func TestSampler_Sample(t *testing.T) {
	dir := fakeProc(t, "MemTotal:        2000 kB\nMemFree:          500 kB\nMemAvailable:     800 kB\n")

	s := NewSampler(dir, testLogger())
	got := s.Sample()

	assert.Equal(t, uint64(2000*1024), got.TotalMemory)
	assert.Equal(t, uint64(800*1024), got.FreeMemory)
	assert.Equal(t, uint64(1200*1024), got.UsedMemory)
	assert.Equal(t, [3]float64{0.52, 0.41, 0.30}, got.CPULoad)
	assert.Greater(t, got.Uptime, 0.0)
}

func TestSampler_FallsBackToMemFree(t *testing.T) {
	dir := fakeProc(t, "MemTotal:        2000 kB\nMemFree:          500 kB\n")

	got := NewSampler(dir, testLogger()).Sample()

	assert.Equal(t, uint64(500*1024), got.FreeMemory)
	assert.Equal(t, uint64(1500*1024), got.UsedMemory)
}

func TestSampler_MissingProcReportsZeros(t *testing.T) {
	got := NewSampler(filepath.Join(t.TempDir(), "nope"), testLogger()).Sample()

	assert.Zero(t, got.TotalMemory)
	assert.Zero(t, got.FreeMemory)
	assert.Zero(t, got.UsedMemory)
	assert.Equal(t, [3]float64{}, got.CPULoad)
	assert.Greater(t, got.Uptime, 0.0)
}

func TestSampler_UptimeIncreases(t *testing.T) {
	s := NewSampler(t.TempDir(), testLogger())

	first := s.Sample().Uptime
	time.Sleep(10 * time.Millisecond)
	second := s.Sample().Uptime

	assert.Greater(t, second, first)
}

func TestSampler_Run(t *testing.T) {
	s := NewSampler(t.TempDir(), testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var samples []SystemHealth
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx, 20*time.Millisecond, func(h SystemHealth) {
			mu.Lock()
			samples = append(samples, h)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(samples) >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
