// Package risk maps default probabilities onto LOW/MEDIUM/HIGH bands.
package risk

import (
	"fmt"
)

type Category string

const (
	CategoryLow    Category = "LOW"
	CategoryMedium Category = "MEDIUM"
	CategoryHigh   Category = "HIGH"
)

// Thresholds is the ordered (low, medium) band boundary pair. It comes from
// configuration; Validate is a startup-time check, not a per-request one.
type Thresholds struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
}

func (t Thresholds) Validate() error {
	if t.Low < 0 || t.Low > 1 {
		return fmt.Errorf("risk thresholds: low %g out of [0,1]", t.Low)
	}
	if t.Medium < 0 || t.Medium > 1 {
		return fmt.Errorf("risk thresholds: medium %g out of [0,1]", t.Medium)
	}
	if t.Medium < t.Low {
		return fmt.Errorf("risk thresholds: medium %g below low %g", t.Medium, t.Low)
	}
	return nil
}

// Categorize bands a probability. Boundary values belong to the higher band:
// a probability exactly equal to low is MEDIUM, exactly equal to medium is
// HIGH. Pure; this is the single source of truth for every consumer,
// including stats rollups.
func Categorize(probability float64, t Thresholds) Category {
	if probability < t.Low {
		return CategoryLow
	}
	if probability < t.Medium {
		return CategoryMedium
	}
	return CategoryHigh
}

// Alert reports whether a category triggers a durable alert record.
func (c Category) Alert() bool {
	return c == CategoryHigh
}
