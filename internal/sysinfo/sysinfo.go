// Package sysinfo samples host memory, load average and process uptime.
//
// Host figures are read from procfs. On platforms without /proc the memory
// and load fields are reported as zero and only the uptime is meaningful.
package sysinfo

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/procfs"
)

// processStart approximates the process start time for uptime reporting.
var processStart = time.Now()

// SystemHealth is one sample of host and process resource usage.
//
// Memory figures are in bytes. CPULoad holds the 1, 5 and 15 minute load
// averages. Uptime is the process uptime in seconds.
type SystemHealth struct {
	UsedMemory  uint64     `json:"usedMemory"`
	FreeMemory  uint64     `json:"freeMemory"`
	TotalMemory uint64     `json:"totalMemory"`
	CPULoad     [3]float64 `json:"cpuLoad"`
	Uptime      float64    `json:"uptime"`
}

// Sampler produces [SystemHealth] values.
type Sampler struct {
	fs     procfs.FS
	fsErr  error
	logger *slog.Logger
	warned bool
}

// NewSampler creates a Sampler reading from the procfs mounted at procPath.
// An empty procPath uses [procfs.DefaultMountPoint].
//
// A missing or unreadable procfs is not an error: samples then carry zero
// memory and load figures.
func NewSampler(procPath string, logger *slog.Logger) *Sampler {
	if procPath == "" {
		procPath = procfs.DefaultMountPoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	fs, err := procfs.NewFS(procPath)
	return &Sampler{fs: fs, fsErr: err, logger: logger}
}

// Sample returns the current host and process figures.
func (s *Sampler) Sample() SystemHealth {
	health := SystemHealth{
		Uptime: time.Since(processStart).Seconds(),
	}
	if s.fsErr != nil {
		s.warnOnce("procfs unavailable, reporting zero memory and load", s.fsErr)
		return health
	}

	if mem, err := s.fs.Meminfo(); err == nil {
		health.TotalMemory = kB(mem.MemTotal)
		// MemAvailable is missing on kernels older than 3.14
		if mem.MemAvailable != nil {
			health.FreeMemory = kB(mem.MemAvailable)
		} else {
			health.FreeMemory = kB(mem.MemFree)
		}
		if health.TotalMemory > health.FreeMemory {
			health.UsedMemory = health.TotalMemory - health.FreeMemory
		}
	} else {
		s.warnOnce("failed to read meminfo", err)
	}

	if load, err := s.fs.LoadAvg(); err == nil {
		health.CPULoad = [3]float64{load.Load1, load.Load5, load.Load15}
	} else {
		s.warnOnce("failed to read loadavg", err)
	}

	return health
}

// Run emits a sample immediately and then once per interval until ctx is
// cancelled. It runs independently of the poll scheduler and blocks the
// calling goroutine.
func (s *Sampler) Run(ctx context.Context, interval time.Duration, emit func(SystemHealth)) {
	emit(s.Sample())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit(s.Sample())
		}
	}
}

// warnOnce logs the first procfs failure only. Run is the sole caller of
// Sample in production, so warned is not guarded.
func (s *Sampler) warnOnce(msg string, err error) {
	if s.warned {
		return
	}
	s.warned = true
	s.logger.Warn(msg, "error", err)
}

func kB(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v * 1024
}
