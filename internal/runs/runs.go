// Package runs tracks active harvesting runs. Each run handle owns its status
// and a bounded log buffer; the registry enforces at most one active run per
// store path.
package runs

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/newsharvest/internal/domain"
	"github.com/jonesrussell/newsharvest/internal/logs"
)

// ErrRunActive is returned when a run is already in flight for a store path.
var ErrRunActive = errors.New("a run is already active for this store path")

// Status is the lifecycle state of a run.
type Status string

const (
	// StatusRunning marks a run that is still processing.
	StatusRunning Status = "running"
	// StatusDone marks a completed run. Runs always complete; per-URL
	// failures are counted in the report, never escalated.
	StatusDone Status = "done"
)

// Run is the handle for one pipeline invocation. The handle owns the log
// buffer; the pipeline writes progress through Log and never reaches back
// into caller state.
type Run struct {
	id        string
	storePath string
	startedAt time.Time
	buf       *logs.Buffer

	mu     sync.RWMutex
	status Status
	report domain.RunReport
}

// ID returns the run identifier.
func (r *Run) ID() string {
	return r.id
}

// StorePath returns the store path the run owns.
func (r *Run) StorePath() string {
	return r.storePath
}

// StartedAt returns when the run began.
func (r *Run) StartedAt() time.Time {
	return r.startedAt
}

// Log appends a progress line to the run's buffer.
func (r *Run) Log(msg string) {
	r.buf.Write(msg)
}

// Lines returns the buffered progress lines in order.
func (r *Run) Lines() []string {
	return r.buf.Lines()
}

// Status returns the run's lifecycle state.
func (r *Run) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Report returns the run report and whether the run has finished.
func (r *Run) Report() (domain.RunReport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.report, r.status == StatusDone
}

// finish records the final report.
func (r *Run) finish(report domain.RunReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = StatusDone
	r.report = report
}

// Registry hands out run handles keyed by absolute store path.
type Registry struct {
	mu         sync.Mutex
	bufferSize int
	active     map[string]*Run
	last       map[string]*Run
}

// NewRegistry creates a registry whose run handles buffer up to bufferSize
// log lines each.
func NewRegistry(bufferSize int) *Registry {
	return &Registry{
		bufferSize: bufferSize,
		active:     make(map[string]*Run),
		last:       make(map[string]*Run),
	}
}

// Begin claims the store path and returns a fresh run handle. Returns
// ErrRunActive while another run holds the same path.
func (g *Registry) Begin(storePath string) (*Run, error) {
	key := pathKey(storePath)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[key]; busy {
		return nil, ErrRunActive
	}

	run := &Run{
		id:        uuid.NewString(),
		storePath: storePath,
		startedAt: time.Now(),
		buf:       logs.NewBuffer(g.bufferSize),
		status:    StatusRunning,
	}
	g.active[key] = run
	return run, nil
}

// Finish records the report and releases the store path. The finished run
// stays available through Current until the next run begins.
func (g *Registry) Finish(run *Run, report domain.RunReport) {
	run.finish(report)

	key := pathKey(run.storePath)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active[key] == run {
		delete(g.active, key)
	}
	g.last[key] = run
}

// Current returns the active run for the store path, falling back to the most
// recently finished one.
func (g *Registry) Current(storePath string) (*Run, bool) {
	key := pathKey(storePath)

	g.mu.Lock()
	defer g.mu.Unlock()

	if run, ok := g.active[key]; ok {
		return run, true
	}
	run, ok := g.last[key]
	return run, ok
}

// pathKey canonicalizes a store path so relative and absolute spellings of
// the same file share one run slot.
func pathKey(storePath string) string {
	abs, err := filepath.Abs(storePath)
	if err != nil {
		return storePath
	}
	return abs
}
