// Package scorer loads and evaluates the trained default-risk model. The
// artifact is produced by the external training pipeline; this package only
// consumes it as an opaque scoring function with a fixed feature schema.
package scorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"loanrisk/internal/feature"
)

// ErrUnavailable marks the scoring artifact as absent or unloadable. All
// prediction calls fail with it until an explicit reload succeeds.
var ErrUnavailable = errors.New("scoring model unavailable")

// Scorer maps validated feature rows to default probabilities in [0,1].
// Implementations must be idempotent for identical rows and safe for
// concurrent callers.
type Scorer interface {
	Score(row feature.Row) (float64, error)
	ScoreBatch(rows []feature.Row) ([]float64, error)
}

type numericTerm struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Coef float64 `json:"coef"`
}

type artifact struct {
	Version     string                        `json:"version"`
	Intercept   float64                       `json:"intercept"`
	Numeric     map[string]numericTerm        `json:"numeric"`
	Categorical map[string]map[string]float64 `json:"categorical"`
}

// Model is a standardized logistic model: numeric features are z-scored and
// weighted, categorical features contribute a one-hot coefficient per level.
// Unknown levels contribute zero, the way the training encoder ignores
// unseen categories. Immutable after load, so concurrent scoring needs no
// locking.
type Model struct {
	version     string
	intercept   float64
	numeric     map[string]numericTerm
	categorical map[string]map[string]float64
}

// LoadModel reads and validates a scoring artifact. Schema coverage is
// checked here, at load time: a missing feature is a configuration error
// surfaced immediately, never a per-request one.
func LoadModel(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}
	var art artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	m := &Model{
		version:     art.Version,
		intercept:   art.Intercept,
		numeric:     art.Numeric,
		categorical: art.Categorical,
	}
	if err := m.validateSchema(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) validateSchema() error {
	for _, name := range feature.NumericFeatures {
		term, ok := m.numeric[name]
		if !ok {
			return fmt.Errorf("model artifact missing numeric feature %q", name)
		}
		if term.Std <= 0 {
			return fmt.Errorf("model artifact has non-positive std for %q", name)
		}
	}
	for _, name := range feature.CategoricalFeatures {
		if _, ok := m.categorical[name]; !ok {
			return fmt.Errorf("model artifact missing categorical feature %q", name)
		}
	}
	return nil
}

func (m *Model) Version() string {
	return m.version
}

// Score evaluates one feature row. It only errors on schema drift, which
// cannot happen for rows built by the feature contract against a validated
// artifact.
func (m *Model) Score(row feature.Row) (float64, error) {
	z := m.intercept
	for _, name := range feature.NumericFeatures {
		value, ok := row.Numeric[name]
		if !ok {
			return 0, fmt.Errorf("feature row missing numeric feature %q", name)
		}
		term := m.numeric[name]
		z += term.Coef * (value - term.Mean) / term.Std
	}
	for _, name := range feature.CategoricalFeatures {
		level, ok := row.Categorical[name]
		if !ok {
			return 0, fmt.Errorf("feature row missing categorical feature %q", name)
		}
		z += m.categorical[name][level]
	}
	return sigmoid(z), nil
}

func (m *Model) ScoreBatch(rows []feature.Row) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		p, err := m.Score(row)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
