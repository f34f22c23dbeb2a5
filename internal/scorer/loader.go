package scorer

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"loanrisk/internal/feature"
)

// Loader owns the lifecycle of the scoring model. The artifact is loaded at
// most once, on first use; a failed load sticks until an explicit Reload so
// every request does not hammer the filesystem. Loader itself satisfies
// Scorer, delegating to the loaded model.
type Loader struct {
	path   string
	logger *zap.Logger

	mu        sync.RWMutex
	model     *Model
	attempted bool
	loadErr   error
}

func NewLoader(path string, logger *zap.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// Get returns the loaded model, loading it lazily on first call. Concurrent
// first callers are serialized; only one of them performs the load.
func (l *Loader) Get() (*Model, error) {
	l.mu.RLock()
	if l.model != nil {
		m := l.model
		l.mu.RUnlock()
		return m, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model != nil {
		return l.model, nil
	}
	if l.attempted {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, l.loadErr)
	}
	l.load()
	if l.loadErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, l.loadErr)
	}
	return l.model, nil
}

// Reload drops the current model and loads the artifact from disk again. On
// failure the previous model, if any, stays active.
func (l *Loader) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.model
	l.model = nil
	l.load()
	if l.loadErr != nil {
		l.model = prev
		return l.loadErr
	}
	return nil
}

// Loaded reports whether a usable model is in memory. It never triggers a
// load, so it is safe for readiness probes.
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.model != nil
}

// Version returns the loaded model version, or "" when none is loaded.
func (l *Loader) Version() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.model == nil {
		return ""
	}
	return l.model.Version()
}

// load runs under l.mu.
func (l *Loader) load() {
	l.attempted = true
	m, err := LoadModel(l.path)
	if err != nil {
		l.loadErr = err
		if l.logger != nil {
			l.logger.Error("load scoring model failed", zap.String("path", l.path), zap.Error(err))
		}
		return
	}
	l.model = m
	l.loadErr = nil
	if l.logger != nil {
		l.logger.Info("scoring model loaded", zap.String("path", l.path), zap.String("version", m.Version()))
	}
}

// Score implements Scorer.
func (l *Loader) Score(row feature.Row) (float64, error) {
	m, err := l.Get()
	if err != nil {
		return 0, err
	}
	return m.Score(row)
}

// ScoreBatch implements Scorer.
func (l *Loader) ScoreBatch(rows []feature.Row) ([]float64, error) {
	m, err := l.Get()
	if err != nil {
		return nil, err
	}
	return m.ScoreBatch(rows)
}
