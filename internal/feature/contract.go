// Package feature defines the input contract for a scoreable loan
// application: the fixed field set, bounds validation, and the canonical
// feature row handed to the scorer.
package feature

import (
	"fmt"
	"strings"
	"time"
)

// NumericFeatures and CategoricalFeatures are the canonical, ordered field
// lists the scoring artifact is fit on. Order matters to callers that build
// dense rows; keep in sync with the artifact schema.
var NumericFeatures = []string{
	"loan_amount",
	"interest_rate",
	"annual_income",
	"credit_score",
	"employment_length",
	"dti",
	"num_delinquencies",
	"previous_defaults",
}

var CategoricalFeatures = []string{
	"home_ownership",
	"purpose",
	"state",
}

// RawApplication is the JSON-facing shape of a loan application. Required
// fields are pointers so a missing key is distinguishable from a zero value.
type RawApplication struct {
	ApplicationID   *string    `json:"application_id,omitempty"`
	ApplicationDate *time.Time `json:"application_date,omitempty"`

	LoanAmount       *float64 `json:"loan_amount"`
	InterestRate     *float64 `json:"interest_rate"`
	AnnualIncome     *float64 `json:"annual_income"`
	CreditScore      *int     `json:"credit_score"`
	EmploymentLength *int     `json:"employment_length"`
	DTI              *float64 `json:"dti"`
	NumDelinquencies *int     `json:"num_delinquencies"`
	PreviousDefaults *int     `json:"previous_defaults"`

	HomeOwnership *string `json:"home_ownership"`
	Purpose       *string `json:"purpose"`
	State         *string `json:"state"`
}

// LoanApplication is a validated, canonicalized application. It is immutable
// once produced by Validate: categorical fields are case-folded and the DTI
// keeps whatever form (ratio or percent) the caller sent.
type LoanApplication struct {
	ApplicationID   *string    `json:"application_id"`
	ApplicationDate *time.Time `json:"application_date,omitempty"`

	LoanAmount       float64 `json:"loan_amount"`
	InterestRate     float64 `json:"interest_rate"`
	AnnualIncome     float64 `json:"annual_income"`
	CreditScore      int     `json:"credit_score"`
	EmploymentLength int     `json:"employment_length"`
	DTI              float64 `json:"dti"`
	NumDelinquencies int     `json:"num_delinquencies"`
	PreviousDefaults int     `json:"previous_defaults"`

	HomeOwnership string `json:"home_ownership"`
	Purpose       string `json:"purpose"`
	State         string `json:"state"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one structured message per offending field.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate runs the two-phase pipeline: pure structural/bounds checks first,
// then canonicalization producing the immutable LoanApplication. It never
// returns a partial object; any failure yields a *ValidationError listing
// every offending field.
func Validate(raw RawApplication) (LoanApplication, error) {
	if errs := check(raw); len(errs) > 0 {
		return LoanApplication{}, &ValidationError{Fields: errs}
	}
	return canonicalize(raw), nil
}

// check performs the structural and bounds validation. It does not mutate
// anything and collects every violation rather than stopping at the first.
func check(raw RawApplication) []FieldError {
	var errs []FieldError

	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}
	requireFloat := func(field string, v *float64, min float64) {
		if v == nil {
			add(field, "field is required")
			return
		}
		if *v < min {
			add(field, fmt.Sprintf("must be >= %g", min))
		}
	}
	requireIntRange := func(field string, v *int, min, max int) {
		if v == nil {
			add(field, "field is required")
			return
		}
		if *v < min || *v > max {
			add(field, fmt.Sprintf("must be between %d and %d", min, max))
		}
	}
	requireIntMin := func(field string, v *int, min int) {
		if v == nil {
			add(field, "field is required")
			return
		}
		if *v < min {
			add(field, fmt.Sprintf("must be >= %d", min))
		}
	}
	requireString := func(field string, v *string) {
		if v == nil || strings.TrimSpace(*v) == "" {
			add(field, "field is required")
		}
	}

	requireFloat("loan_amount", raw.LoanAmount, 0)
	requireFloat("interest_rate", raw.InterestRate, 0)
	requireFloat("annual_income", raw.AnnualIncome, 0)
	requireIntRange("credit_score", raw.CreditScore, 300, 850)
	requireIntRange("employment_length", raw.EmploymentLength, 0, 60)
	requireFloat("dti", raw.DTI, 0)
	requireIntMin("num_delinquencies", raw.NumDelinquencies, 0)
	requireIntMin("previous_defaults", raw.PreviousDefaults, 0)
	requireString("home_ownership", raw.HomeOwnership)
	requireString("purpose", raw.Purpose)
	requireString("state", raw.State)

	return errs
}

// canonicalize assumes check passed. Case folding here is irreversible for
// the validated object; everything else carries over untouched.
func canonicalize(raw RawApplication) LoanApplication {
	app := LoanApplication{
		ApplicationDate:  raw.ApplicationDate,
		LoanAmount:       *raw.LoanAmount,
		InterestRate:     *raw.InterestRate,
		AnnualIncome:     *raw.AnnualIncome,
		CreditScore:      *raw.CreditScore,
		EmploymentLength: *raw.EmploymentLength,
		DTI:              *raw.DTI,
		NumDelinquencies: *raw.NumDelinquencies,
		PreviousDefaults: *raw.PreviousDefaults,
		HomeOwnership:    strings.ToUpper(strings.TrimSpace(*raw.HomeOwnership)),
		Purpose:          strings.ToLower(strings.TrimSpace(*raw.Purpose)),
		State:            strings.ToUpper(strings.TrimSpace(*raw.State)),
	}
	if raw.ApplicationID != nil {
		id := strings.TrimSpace(*raw.ApplicationID)
		if id != "" {
			app.ApplicationID = &id
		}
	}
	return app
}

// Row is the feature row consumed by the scorer: numeric values keyed by
// feature name plus the canonicalized categorical levels.
type Row struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Flatten merges the numeric and categorical values into one map, the shape
// stored in the ledger's features column.
func (r Row) Flatten() map[string]any {
	out := make(map[string]any, len(r.Numeric)+len(r.Categorical))
	for k, v := range r.Numeric {
		out[k] = v
	}
	for k, v := range r.Categorical {
		out[k] = v
	}
	return out
}

func (a LoanApplication) Row() Row {
	return Row{
		Numeric: map[string]float64{
			"loan_amount":       a.LoanAmount,
			"interest_rate":     a.InterestRate,
			"annual_income":     a.AnnualIncome,
			"credit_score":      float64(a.CreditScore),
			"employment_length": float64(a.EmploymentLength),
			"dti":               a.DTI,
			"num_delinquencies": float64(a.NumDelinquencies),
			"previous_defaults": float64(a.PreviousDefaults),
		},
		Categorical: map[string]string{
			"home_ownership": a.HomeOwnership,
			"purpose":        a.Purpose,
			"state":          a.State,
		},
	}
}
