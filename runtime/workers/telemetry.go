package workers

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker samples the server process on a fixed interval and reports
// through the logger. Purely observational; it never touches chat state.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	proc           *process.Process
}

func NewTelemetryWorker(log *slog.Logger, metricInterval time.Duration) (*TelemetryWorker, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &TelemetryWorker{log: log, metricInterval: metricInterval, proc: proc}, nil
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *TelemetryWorker) report() {
	cpu, err := w.proc.CPUPercent()
	if err != nil {
		w.log.Error("Error while finding process cpu usage", "err", err)
		return
	}
	ram, err := w.proc.MemoryPercent()
	if err != nil {
		w.log.Error("Error while finding process ram usage", "err", err)
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	w.log.Info("Process telemetry",
		"cpu_percent", cpu,
		"ram_percent", ram,
		"goroutines", runtime.NumGoroutine(),
		"alloc_mb", m.Alloc/1024/1024,
		"num_gc", m.NumGC,
	)
}
