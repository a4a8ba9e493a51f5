package treebuild

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// progressTracker reports per-level build progress, adapted from the
// reembedding pipeline's progress reporter for use during a tree build.
type progressTracker struct {
	writer         io.Writer
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

func newProgressTracker(writer io.Writer, total, reportInterval int) *progressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &progressTracker{writer: writer, total: total, reportInterval: reportInterval}
}

func (p *progressTracker) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startTime = time.Now()
	p.started = true
	p.current = 0
	p.lastReported = 0
}

func (p *progressTracker) increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.current += delta
	if p.current > p.total {
		p.current = p.total
	}
	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

func (p *progressTracker) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.current = p.total
	p.report()
	if p.writer != nil {
		fmt.Fprintln(p.writer)
	}
}

func (p *progressTracker) report() {
	if p.writer == nil {
		return
	}
	elapsed := time.Since(p.startTime)
	rate := float64(p.current) / elapsed.Seconds()
	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}
	fmt.Fprintf(p.writer, "\rlevel progress: %d/%d (%.1f%%) - %.1f nodes/s",
		p.current, p.total, percentage, rate)
}
