// Package decision applies the deterministic lending rules: approve when
// both the default risk score and the debt-to-income ratio sit strictly
// below their cutoffs, otherwise deny with an explanation naming the exact
// numbers involved.
package decision

import (
	"fmt"
	"strings"

	"loanrisk/internal/feature"
)

const (
	DefaultRiskThreshold = 0.20
	DefaultDTIThreshold  = 0.45
)

// Rules are the lending cutoffs. They are deliberately separate from the
// risk-category thresholds: category banding is reporting, these gate money.
type Rules struct {
	RiskThreshold float64
	DTIThreshold  float64
}

func DefaultRules() Rules {
	return Rules{
		RiskThreshold: DefaultRiskThreshold,
		DTIThreshold:  DefaultDTIThreshold,
	}
}

type Decision struct {
	Approved         bool    `json:"approved"`
	Decision         string  `json:"decision"`
	Reason           string  `json:"reason"`
	DefaultRiskScore float64 `json:"default_risk_score"`
}

// NormalizeDTI converts debt-to-income input to ratio form. Values at or
// below 1 are already ratios; anything larger is treated as a percentage.
func NormalizeDTI(value float64) float64 {
	if value <= 1 {
		return value
	}
	return value / 100.0
}

// Decide applies the lending rules to a scored application. Same inputs
// always produce the same decision and reason text.
func Decide(defaultRiskScore float64, app feature.LoanApplication, rules Rules) Decision {
	dtiRatio := NormalizeDTI(app.DTI)

	riskOK := defaultRiskScore < rules.RiskThreshold
	dtiOK := dtiRatio < rules.DTIThreshold

	if riskOK && dtiOK {
		return Decision{
			Approved:         true,
			Decision:         "Approved",
			Reason:           "Risk score and debt-to-income ratio are within acceptable limits.",
			DefaultRiskScore: defaultRiskScore,
		}
	}

	var reasons []string
	if !riskOK {
		reasons = append(reasons, fmt.Sprintf(
			"Default risk score (%s) exceeds the lender threshold of %s.",
			percent(defaultRiskScore), percent(rules.RiskThreshold)))
	}
	if !dtiOK {
		reasons = append(reasons, fmt.Sprintf(
			"Debt-to-income ratio (%s) is above the allowed maximum of %s.",
			percent(dtiRatio), percent(rules.DTIThreshold)))
	}

	reason := strings.Join(reasons, " ")
	if reason == "" {
		reason = "Application does not meet lending criteria."
	}

	return Decision{
		Approved:         false,
		Decision:         "Denied",
		Reason:           reason,
		DefaultRiskScore: defaultRiskScore,
	}
}

// percent renders a ratio as a whole percentage, matching the reason-string
// format callers and auditors expect (0.25 -> "25%").
func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
