package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/domx3d/hello-lamp/engine/scene"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// AssetState is the lifecycle of one requested asset.
type AssetState int

const (
	// StatePending means the asset is queued or being parsed.
	StatePending AssetState = iota
	// StateLoaded means the asset parsed and its completion handler ran.
	StateLoaded
	// StateFailed means reading or parsing failed. Failed assets are not retried.
	StateFailed
)

func (s AssetState) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateLoaded:
		return "Loaded"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("AssetState(%d)", int(s))
	}
}

// CompletionHandler receives a loaded subgraph on the polling goroutine. A returned error is a
// setup error: it is reported, but the asset still counts as loaded.
type CompletionHandler func(root scene.Node) error

type loadResult struct {
	url     string
	root    scene.Node
	err     error
	handler CompletionHandler
}

// LoadingManager tracks a batch of asynchronous loads.
//
// Load must be called from the same goroutine that calls Poll. Parsing runs on a worker pool;
// completion handlers and callbacks run inside Poll or Drain, one at a time, so they may touch
// the scene without locks.
type LoadingManager struct {
	loader Loader
	logger logging.Logger

	workers     int
	idleTimeout time.Duration
	pool        worker.DynamicWorkerPool
	results     chan loadResult
	nextTaskID  int

	order   []string
	states  map[string]AssetState
	loaded  int
	failed  int
	started bool
	joined  bool
	closed  bool

	onStart      func(url string, loaded, total int)
	onProgress   func(url string, loaded, total int)
	onLoad       func()
	onError      func(url string, err error)
	onSetupError func(url string, err error)
}

// NewLoadingManager creates a LoadingManager. A Loader must be supplied with WithLoader or a
// default loader rooted at the working directory is used.
//
// Parameters:
//   - options: a variadic list of LoadingManagerOption functions
//
// Returns:
//   - *LoadingManager: the manager
func NewLoadingManager(options ...LoadingManagerOption) *LoadingManager {
	m := &LoadingManager{
		workers:     2,
		idleTimeout: time.Second,
		results:     make(chan loadResult, 16),
		states:      make(map[string]AssetState),
	}
	for _, opt := range options {
		opt(m)
	}
	m.logger = logging.OrDefault(m.logger)
	if m.loader == nil {
		m.loader = NewLoader(WithLogger(m.logger))
	}
	m.pool = worker.NewDynamicWorkerPool(m.workers, 64, m.idleTimeout)
	return m
}

// Load queues an asset. The first Load of a batch fires OnStart; a batch ends once nothing is
// pending. Requesting a url that is already tracked, or loading after Close, is ignored.
//
// Parameters:
//   - url: the asset path, resolved by the Loader
//   - handler: completion handler run on the polling goroutine after a successful parse
func (m *LoadingManager) Load(url string, handler CompletionHandler) {
	if m.closed {
		m.logger.Warnf("asset %s requested after close", url)
		return
	}
	if _, ok := m.states[url]; ok {
		m.logger.Warnf("asset %s already requested", url)
		return
	}
	m.states[url] = StatePending
	m.order = append(m.order, url)
	m.joined = false

	if !m.started {
		m.started = true
		if m.onStart != nil {
			m.onStart(url, m.loaded, len(m.order))
		}
	}

	ld, results := m.loader, m.results
	m.pool.SubmitTask(worker.Task{
		ID: m.nextTaskID,
		Do: func() (any, error) {
			root, err := ld.Load(url)
			results <- loadResult{url: url, root: root, err: err, handler: handler}
			return nil, err
		},
	})
	m.nextTaskID++
}

// Poll handles every completion that has arrived without blocking.
//
// Returns:
//   - int: the number of completions handled
func (m *LoadingManager) Poll() int {
	n := 0
	for {
		select {
		case r := <-m.results:
			m.complete(r)
			n++
		default:
			return n
		}
	}
}

// Drain blocks until no asset is pending, handling completions on the calling goroutine.
//
// Parameters:
//   - ctx: bounds the wait
//
// Returns:
//   - error: ctx.Err() if the context ends first
func (m *LoadingManager) Drain(ctx context.Context) error {
	for m.Pending() > 0 {
		select {
		case r := <-m.results:
			m.complete(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (m *LoadingManager) complete(r loadResult) {
	if r.err != nil {
		m.states[r.url] = StateFailed
		m.failed++
		if m.onError != nil {
			m.onError(r.url, r.err)
		} else {
			m.logger.Errorf("There was an error loading %s: %v", r.url, r.err)
		}
		m.settle()
		return
	}

	if r.handler != nil {
		if err := r.handler(r.root); err != nil {
			if m.onSetupError != nil {
				m.onSetupError(r.url, err)
			} else {
				m.logger.Errorf("setup of %s failed: %v", r.url, err)
			}
		}
	}
	m.states[r.url] = StateLoaded
	m.loaded++

	if m.onProgress != nil {
		m.onProgress(r.url, m.loaded, len(m.order))
	}
	if m.AllLoaded() && !m.joined {
		m.joined = true
		if m.onLoad != nil {
			m.onLoad()
		}
	}
	m.settle()
}

// settle ends the batch once nothing is in flight so the next Load fires OnStart again.
func (m *LoadingManager) settle() {
	if m.Pending() == 0 {
		m.started = false
	}
}

// Close stops the worker pool. Parses already running finish and can still be polled; queued
// ones are dropped. Close is safe to call more than once.
func (m *LoadingManager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.pool.Stop()
}

// State returns the state of a requested url. Unknown urls report StatePending and false.
func (m *LoadingManager) State(url string) (AssetState, bool) {
	s, ok := m.states[url]
	return s, ok
}

// Total returns the number of requested assets.
func (m *LoadingManager) Total() int { return len(m.order) }

// Loaded returns the number of assets that reached StateLoaded.
func (m *LoadingManager) Loaded() int { return m.loaded }

// Failed returns the number of assets that reached StateFailed.
func (m *LoadingManager) Failed() int { return m.failed }

// Pending returns the number of assets still in flight.
func (m *LoadingManager) Pending() int { return len(m.order) - m.loaded - m.failed }

// AllLoaded reports whether at least one asset was requested and every one of them loaded.
func (m *LoadingManager) AllLoaded() bool {
	return len(m.order) > 0 && m.loaded == len(m.order)
}
