package decision

import (
	"strings"
	"testing"

	"loanrisk/internal/feature"
)

func appWithDTI(dti float64) feature.LoanApplication {
	return feature.LoanApplication{
		LoanAmount:    10000,
		InterestRate:  8,
		AnnualIncome:  90000,
		CreditScore:   720,
		DTI:           dti,
		HomeOwnership: "MORTGAGE",
		Purpose:       "debt_consolidation",
		State:         "CA",
	}
}

func TestDecide_Approved(t *testing.T) {
	d := Decide(0.10, appWithDTI(0.30), DefaultRules())
	if !d.Approved || d.Decision != "Approved" {
		t.Fatalf("expected approval, got %+v", d)
	}
	if d.Reason != "Risk score and debt-to-income ratio are within acceptable limits." {
		t.Fatalf("unexpected approval reason: %q", d.Reason)
	}
	if d.DefaultRiskScore != 0.10 {
		t.Fatalf("score not echoed: %g", d.DefaultRiskScore)
	}
}

func TestDecide_RiskAtThresholdDenied(t *testing.T) {
	// Strictly-below cutoffs: a score exactly at the threshold is denied.
	d := Decide(0.20, appWithDTI(0.30), DefaultRules())
	if d.Approved {
		t.Fatalf("score at threshold should deny, got %+v", d)
	}
	want := "Default risk score (20%) exceeds the lender threshold of 20%."
	if d.Reason != want {
		t.Fatalf("reason = %q, want %q", d.Reason, want)
	}
}

func TestDecide_HighRiskOnly(t *testing.T) {
	d := Decide(0.25, appWithDTI(0.10), DefaultRules())
	if d.Approved {
		t.Fatalf("expected denial, got %+v", d)
	}
	want := "Default risk score (25%) exceeds the lender threshold of 20%."
	if d.Reason != want {
		t.Fatalf("reason = %q, want %q", d.Reason, want)
	}
}

func TestDecide_HighDTIOnly(t *testing.T) {
	d := Decide(0.10, appWithDTI(0.50), DefaultRules())
	if d.Approved {
		t.Fatalf("expected denial, got %+v", d)
	}
	want := "Debt-to-income ratio (50%) is above the allowed maximum of 45%."
	if d.Reason != want {
		t.Fatalf("reason = %q, want %q", d.Reason, want)
	}
}

func TestDecide_BothClausesJoined(t *testing.T) {
	d := Decide(0.50, appWithDTI(0.50), DefaultRules())
	if d.Approved {
		t.Fatalf("expected denial, got %+v", d)
	}
	if !strings.Contains(d.Reason, "Default risk score (50%)") {
		t.Fatalf("missing risk clause: %q", d.Reason)
	}
	if !strings.Contains(d.Reason, "Debt-to-income ratio (50%)") {
		t.Fatalf("missing dti clause: %q", d.Reason)
	}
}

func TestDecide_PercentDTIEquivalent(t *testing.T) {
	// 45 (percent form) and 0.45 (ratio form) must decide identically.
	asPercent := Decide(0.10, appWithDTI(45), DefaultRules())
	asRatio := Decide(0.10, appWithDTI(0.45), DefaultRules())
	if asPercent.Approved != asRatio.Approved || asPercent.Reason != asRatio.Reason {
		t.Fatalf("percent/ratio mismatch: %+v vs %+v", asPercent, asRatio)
	}
	if asPercent.Approved {
		t.Fatal("dti at threshold should deny")
	}
}

func TestNormalizeDTI(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0.3, 0.3},
		{1.0, 1.0},
		{30, 0.3},
		{45, 0.45},
		{100, 1.0},
	}
	for _, tc := range cases {
		if got := NormalizeDTI(tc.in); got != tc.want {
			t.Fatalf("NormalizeDTI(%g) = %g, want %g", tc.in, got, tc.want)
		}
	}
}
