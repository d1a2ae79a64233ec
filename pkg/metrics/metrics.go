package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Package metrics keeps operational gauges and counters in an embedded
// tstorage time-series database under the application workdir. Values are
// written as single data points; readers query the latest point or a range.

var (
	storage  tstorage.Storage
	mu       sync.Mutex
	counters = map[string]int64{}
)

// InitMetrics opens the metrics storage under workdir/data/metrics.
func InitMetrics(workdir string) error {
	var err error
	storage, err = tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "data", "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	return err
}

// SetGauge records the current value of a gauge metric.
func SetGauge(name string, value int64) {
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
		},
	})
}

// IncrCounter adds delta to a named counter and records the running total.
func IncrCounter(name string, delta int64) {
	mu.Lock()
	counters[name] += delta
	total := counters[name]
	mu.Unlock()
	SetGauge(name, total)
}

// Latest returns the most recent value of a metric within the past hour,
// or 0 when no point exists.
func Latest(name string) float64 {
	if storage == nil {
		return 0
	}
	end := time.Now().Unix()
	points, err := storage.Select(name, nil, end-3600, end+1)
	if err != nil || len(points) == 0 {
		return 0
	}
	return points[len(points)-1].Value
}

// Range returns all points of a metric between start and end (unix seconds).
func Range(name string, start, end int64) []*tstorage.DataPoint {
	if storage == nil {
		return nil
	}
	points, err := storage.Select(name, nil, start, end)
	if err != nil {
		return nil
	}
	return points
}

// Close flushes and closes the metrics storage.
func Close() error {
	if storage == nil {
		return nil
	}
	return storage.Close()
}
