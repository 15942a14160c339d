// Package preload decodes the files of a series in the background and warms the
// render memos and the LUT cache, keeping at most one preload running at a time.
package preload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jpfielding/dicomlut.go/pkg/dcmio"
	"github.com/jpfielding/dicomlut.go/pkg/logging"
	"github.com/jpfielding/dicomlut.go/pkg/render"
)

// Frame is a decoded frame with the tables of its default render. Holding the
// tables keeps them alive in the weak LUT cache.
type Frame struct {
	Image  *render.Image
	Tables render.Tables
}

// Result is the outcome of loading one path
type Result struct {
	Path   string
	Frames []Frame
	Err    error
}

// Loader decodes one path of a series
type Loader func(ctx context.Context, path string) ([]Frame, error)

// FileLoader reads DICOM files through dcmio and resolves the tables of the
// default render of every frame
func FileLoader(rd *render.Renderer, opts ...render.Option) Loader {
	return func(ctx context.Context, path string) ([]Frame, error) {
		f, err := dcmio.ReadFile(path)
		if err != nil {
			return nil, err
		}
		frames := make([]Frame, 0, len(f.Frames))
		for i, r := range f.Frames {
			if err := ctx.Err(); err != nil {
				return frames, err
			}
			img := render.NewImage(f.Dataset, r)
			tables, err := rd.Tables(img, opts...)
			if err != nil {
				return frames, fmt.Errorf("frame %d: %w", i, err)
			}
			frames = append(frames, Frame{Image: img, Tables: tables})
		}
		return frames, nil
	}
}

// Job is one series preload
type Job struct {
	Series string

	paths   []string
	results []Result
	loaded  atomic.Int64
	cancel  context.CancelFunc
	done    chan struct{}
}

// Done is closed once every path is loaded or the job was cancelled
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel stops the job without waiting for it
func (j *Job) Cancel() { j.cancel() }

// Progress reports the paths finished so far
func (j *Job) Progress() (loaded, total int) {
	return int(j.loaded.Load()), len(j.paths)
}

// Wait blocks until the job ends and returns one result per path, in path order.
// Paths skipped by a cancellation carry context.Canceled.
func (j *Job) Wait() []Result {
	<-j.done
	return j.results
}

// Manager runs series preloads, one at a time
type Manager struct {
	load    Loader
	workers int

	mu      sync.Mutex
	current *Job
}

// NewManager creates a Manager decoding at most workers paths concurrently
func NewManager(load Loader, workers int) *Manager {
	if workers <= 0 {
		workers = 1
	}
	return &Manager{load: load, workers: workers}
}

// Start preloads paths as series. A running preload of the same series is returned
// as is; a preload of another series is cancelled and joined first.
func (m *Manager) Start(ctx context.Context, series string, paths []string) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	if j := m.current; j != nil {
		select {
		case <-j.done:
		default:
			if j.Series == series {
				return j
			}
			slog.DebugContext(ctx, "cancelling preload", slog.String("series", j.Series))
			j.cancel()
			<-j.done
		}
	}

	jctx, cancel := context.WithCancel(logging.AppendCtx(ctx, slog.String("series", series)))
	j := &Job{
		Series:  series,
		paths:   paths,
		results: make([]Result, len(paths)),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	m.current = j
	go m.run(jctx, j)
	return j
}

// Current returns the last started job, nil before the first Start
func (m *Manager) Current() *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Stop cancels and joins the running job, if any
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.cancel()
		<-m.current.done
	}
}

func (m *Manager) run(ctx context.Context, j *Job) {
	defer close(j.done)
	defer j.cancel()

	sem := make(chan struct{}, m.workers)
	var wg sync.WaitGroup
	for i, path := range j.paths {
		j.results[i].Path = path
		select {
		case <-ctx.Done():
			j.results[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			frames, err := m.load(ctx, path)
			j.results[i].Frames = frames
			j.results[i].Err = err
			j.loaded.Add(1)
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.WarnContext(ctx, "preload failed", slog.String("path", path), slog.Any("error", err))
			}
		}(i, path)
	}
	wg.Wait()

	loaded, total := j.Progress()
	slog.DebugContext(ctx, "preload finished",
		slog.Int("loaded", loaded),
		slog.Int("total", total),
		slog.Bool("cancelled", ctx.Err() != nil))
}
