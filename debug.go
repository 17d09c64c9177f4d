package tangerine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by tangerine. By default nothing is
// logged; pass nil to restore that.
//
// Levels used:
//   - [slog.LevelDebug]: atlas packing details and per-frame stats
//   - [slog.LevelWarn]: dropped draws, rejected camera animation steps
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the logger used by tangerine and its satellite packages.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func logger() *slog.Logger { return loggerPtr.Load() }

// frameStats holds per-frame timing and draw-call metrics.
// Only populated when the renderer is in debug mode.
type frameStats struct {
	finishTime time.Duration
	draws      int
	dropped    int
	batches    int
	layers     int
}

// debugLog writes frame stats at debug level.
func (s frameStats) debugLog(frame uint64) {
	logger().Debug("frame",
		"frame", frame,
		"draws", s.draws,
		"dropped", s.dropped,
		"batches", s.batches,
		"layers", s.layers,
		"finish", s.finishTime)
}

// countLayers counts distinct consecutive layers in a batch list.
func countLayers(batches []Batch) int {
	if len(batches) == 0 {
		return 0
	}
	count := 1
	for i := 1; i < len(batches); i++ {
		if batches[i].Layer != batches[i-1].Layer {
			count++
		}
	}
	return count
}
