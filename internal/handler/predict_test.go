package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loanrisk/internal/decision"
	"loanrisk/internal/feature"
	"loanrisk/internal/models"
	"loanrisk/internal/predictor"
	"loanrisk/internal/repository"
	"loanrisk/internal/risk"
	"loanrisk/internal/scorer"
)

// noopRepo satisfies repository.Repository; handler tests only care about
// the HTTP mapping, not persistence.
type noopRepo struct{}

func (noopRepo) InsertPrediction(ctx context.Context, p *models.PredictionLog) error { return nil }
func (noopRepo) InsertAlert(ctx context.Context, a *models.RiskAlert) error          { return nil }
func (noopRepo) ListRecentPredictions(ctx context.Context, params repository.ListPredictionsParams) ([]models.PredictionLog, int64, error) {
	return nil, 0, nil
}
func (noopRepo) ListRecentAlerts(ctx context.Context, params repository.ListAlertsParams) ([]models.RiskAlert, int64, error) {
	return nil, 0, nil
}
func (noopRepo) CollectStats(ctx context.Context, window repository.StatsWindow) (*repository.LedgerStats, error) {
	return &repository.LedgerStats{}, nil
}
func (noopRepo) UpsertDailyStats(ctx context.Context, s *models.DailyStats) error { return nil }
func (noopRepo) ListDailyStats(ctx context.Context, days int) ([]models.DailyStats, error) {
	return nil, nil
}

type fixedScorer struct {
	p   float64
	err error
}

func (s fixedScorer) Score(row feature.Row) (float64, error) { return s.p, s.err }
func (s fixedScorer) ScoreBatch(rows []feature.Row) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(rows))
	for i := range out {
		out[i] = s.p
	}
	return out, nil
}

func newEngine(t *testing.T, sc scorer.Scorer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, err := predictor.New(sc, noopRepo{}, zap.NewNop(),
		risk.Thresholds{Low: 0.25, Medium: 0.60},
		decision.DefaultRules(), nil)
	if err != nil {
		t.Fatalf("predictor: %v", err)
	}
	engine := gin.New()
	h := &PredictHandler{Service: svc, Logger: zap.NewNop()}
	h.Register(engine)
	return engine
}

const validBody = `{
	"application_id": "APP-1",
	"loan_amount": 12000,
	"interest_rate": 9.5,
	"annual_income": 85000,
	"credit_score": 710,
	"employment_length": 4,
	"dti": 0.31,
	"num_delinquencies": 0,
	"previous_defaults": 0,
	"home_ownership": "MORTGAGE",
	"purpose": "debt_consolidation",
	"state": "CA"
}`

func doPost(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestPredictEndpoint_OK(t *testing.T) {
	engine := newEngine(t, fixedScorer{p: 0.10})
	w := doPost(engine, "/api/v1/predict", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var res predictor.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.DefaultRiskScore != 0.10 || res.RiskCategory != risk.CategoryLow {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !res.Approved || res.LoanDecision != "Approved" {
		t.Fatalf("expected approval: %+v", res)
	}

	// Clients read the decision fields off the top level of the object.
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"loan_decision", "reason", "approved", "thresholds"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("body missing top-level %q: %s", key, w.Body.String())
		}
	}
}

func TestPredictEndpoint_ValidationFailure(t *testing.T) {
	engine := newEngine(t, fixedScorer{p: 0.10})
	body := strings.Replace(validBody, `"credit_score": 710`, `"credit_score": 200`, 1)
	w := doPost(engine, "/api/v1/predict", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Errors []feature.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "credit_score" {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
}

func TestPredictEndpoint_ModelUnavailable(t *testing.T) {
	engine := newEngine(t, fixedScorer{err: fmt.Errorf("%w: no artifact", scorer.ErrUnavailable)})
	w := doPost(engine, "/api/v1/predict", validBody)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestPredictEndpoint_MalformedJSON(t *testing.T) {
	engine := newEngine(t, fixedScorer{p: 0.10})
	w := doPost(engine, "/api/v1/predict", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestBatchEndpoint_AllOrNothing(t *testing.T) {
	engine := newEngine(t, fixedScorer{p: 0.10})
	bad := strings.Replace(validBody, `"credit_score": 710`, `"credit_score": 200`, 1)
	body := fmt.Sprintf(`[%s, %s]`, validBody, bad)
	w := doPost(engine, "/api/v1/predict/batch", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Items []predictor.ItemError `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Index != 1 {
		t.Fatalf("unexpected items: %+v", resp.Items)
	}
}

func TestBatchEndpoint_EmptyRejected(t *testing.T) {
	engine := newEngine(t, fixedScorer{p: 0.10})
	w := doPost(engine, "/api/v1/predict/batch", `[]`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestBatchEndpoint_OK(t *testing.T) {
	engine := newEngine(t, fixedScorer{p: 0.70})
	body := fmt.Sprintf(`[%s, %s]`, validBody, validBody)
	w := doPost(engine, "/api/v1/predict/batch", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	// Bare array in, bare array out.
	var results []predictor.Result
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	for _, r := range results {
		if r.RiskCategory != risk.CategoryHigh || !r.Alert {
			t.Fatalf("expected HIGH alerts: %+v", r)
		}
		if r.Approved {
			t.Fatalf("HIGH must be denied: %+v", r)
		}
	}
}
