package monitoring

import (
	"context"
	"runtime"
	"time"
)

// SampleRuntime reads the Go runtime statistics into m once.
func SampleRuntime(m *Metrics) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.RecordRuntime(
		int64(ms.NumGC),
		int64(ms.PauseTotalNs),
		int64(ms.HeapAlloc),
		int64(ms.HeapSys),
		int64(runtime.NumGoroutine()),
	)
}

// RunRuntimeSampler samples the runtime every interval until ctx is done.
func RunRuntimeSampler(ctx context.Context, m *Metrics, interval time.Duration) {
	SampleRuntime(m)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			SampleRuntime(m)
		case <-ctx.Done():
			return
		}
	}
}
