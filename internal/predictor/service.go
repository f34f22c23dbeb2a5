// Package predictor orchestrates a prediction: validate the application,
// score it, categorize the risk, run the lending rules, and append the
// outcome to the ledger.
package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"loanrisk/internal/alertfeed"
	"loanrisk/internal/decision"
	"loanrisk/internal/feature"
	"loanrisk/internal/models"
	"loanrisk/internal/repository"
	"loanrisk/internal/risk"
	"loanrisk/internal/scorer"
)

// Result is the outcome of scoring a single application. The decision
// fields are flattened to the top level; consumers read loan_decision,
// reason and approved directly off the response object.
type Result struct {
	ApplicationID    string          `json:"application_id,omitempty"`
	DefaultRiskScore float64         `json:"default_risk_score"`
	RiskCategory     risk.Category   `json:"risk_category"`
	Alert            bool            `json:"alert"`
	LoanDecision     string          `json:"loan_decision"`
	Reason           string          `json:"reason"`
	Approved         bool            `json:"approved"`
	Thresholds       risk.Thresholds `json:"thresholds"`
	PredictionID     uint64          `json:"prediction_id,omitempty"`
}

// ItemError attaches a validation failure to its position in a batch.
type ItemError struct {
	Index int                      `json:"index"`
	Err   *feature.ValidationError `json:"errors"`
}

// BatchValidationError rejects a whole batch: no item is scored unless every
// item validates.
type BatchValidationError struct {
	Items []ItemError
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("batch validation failed for %d application(s)", len(e.Items))
}

// Service wires the scoring model, risk thresholds, lending rules, ledger
// and live feed into the prediction operations.
type Service struct {
	scorer     scorer.Scorer
	repo       repository.Repository
	logger     *zap.Logger
	thresholds risk.Thresholds
	rules      decision.Rules
	feed       *alertfeed.Hub
}

// New builds a Service. Thresholds are validated here so a misconfigured
// categorizer fails at startup, not per request.
func New(sc scorer.Scorer, repo repository.Repository, logger *zap.Logger, thresholds risk.Thresholds, rules decision.Rules, feed *alertfeed.Hub) (*Service, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		scorer:     sc,
		repo:       repo,
		logger:     logger,
		thresholds: thresholds,
		rules:      rules,
		feed:       feed,
	}, nil
}

// Thresholds exposes the configured risk bands, for response metadata.
func (s *Service) Thresholds() risk.Thresholds {
	return s.thresholds
}

// PredictOne validates and scores a single application. Ledger writes are
// best effort: a storage failure is logged but never fails the prediction.
func (s *Service) PredictOne(ctx context.Context, raw feature.RawApplication) (*Result, error) {
	app, err := feature.Validate(raw)
	if err != nil {
		return nil, err
	}
	p, err := s.scorer.Score(app.Row())
	if err != nil {
		return nil, err
	}
	res := s.assemble(app, p)
	s.record(ctx, app, res)
	return res, nil
}

// PredictBatch scores many applications in order. Validation is
// all-or-nothing: if any item is invalid the whole batch is rejected with
// per-index errors and nothing is scored or logged.
func (s *Service) PredictBatch(ctx context.Context, raws []feature.RawApplication) ([]Result, error) {
	apps := make([]feature.LoanApplication, len(raws))
	var invalid []ItemError
	for i, raw := range raws {
		app, err := feature.Validate(raw)
		if err != nil {
			verr, ok := err.(*feature.ValidationError)
			if !ok {
				verr = &feature.ValidationError{Fields: []feature.FieldError{{Message: err.Error()}}}
			}
			invalid = append(invalid, ItemError{Index: i, Err: verr})
			continue
		}
		apps[i] = app
	}
	if len(invalid) > 0 {
		return nil, &BatchValidationError{Items: invalid}
	}

	rows := make([]feature.Row, len(apps))
	for i := range apps {
		rows[i] = apps[i].Row()
	}
	probs, err := s.scorer.ScoreBatch(rows)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(apps))
	for i := range apps {
		res := s.assemble(apps[i], probs[i])
		s.record(ctx, apps[i], res)
		results[i] = *res
	}
	return results, nil
}

func (s *Service) assemble(app feature.LoanApplication, p float64) *Result {
	category := risk.Categorize(p, s.thresholds)
	dec := decision.Decide(p, app, s.rules)
	res := &Result{
		DefaultRiskScore: p,
		RiskCategory:     category,
		Alert:            category.Alert(),
		LoanDecision:     dec.Decision,
		Reason:           dec.Reason,
		Approved:         dec.Approved,
		Thresholds:       s.thresholds,
	}
	if app.ApplicationID != nil {
		res.ApplicationID = *app.ApplicationID
	}
	return res
}

// record appends the prediction and, for high-risk outcomes, the alert. The
// two writes are independent so a failed alert insert never loses the
// prediction entry.
func (s *Service) record(ctx context.Context, app feature.LoanApplication, res *Result) {
	payload, err := json.Marshal(app.Row().Flatten())
	if err != nil {
		s.logger.Error("encode prediction features failed", zap.Error(err))
		return
	}
	entry := &models.PredictionLog{
		ApplicationID:  app.ApplicationID,
		Features:       datatypes.JSON(payload),
		Probability:    res.DefaultRiskScore,
		RiskCategory:   string(res.RiskCategory),
		AlertTriggered: res.Alert,
	}
	if err := s.repo.InsertPrediction(ctx, entry); err != nil {
		s.logger.Error("prediction ledger write failed",
			zap.String("application_id", res.ApplicationID),
			zap.Error(err))
		return
	}
	res.PredictionID = entry.ID

	if !res.Alert {
		return
	}
	subject := res.ApplicationID
	if subject == "" {
		subject = strconv.FormatUint(entry.ID, 10)
	}
	alert := &models.RiskAlert{
		PredictionID: entry.ID,
		Message:      fmt.Sprintf("High-risk applicant %s with probability %.2f", subject, res.DefaultRiskScore),
		Severity:     "HIGH",
	}
	if err := s.repo.InsertAlert(ctx, alert); err != nil {
		s.logger.Error("alert ledger write failed",
			zap.Uint64("prediction_id", entry.ID),
			zap.Error(err))
		return
	}
	if s.feed != nil {
		s.feed.Publish(alertfeed.Event{
			PredictionID:  entry.ID,
			ApplicationID: res.ApplicationID,
			Probability:   res.DefaultRiskScore,
			RiskCategory:  string(res.RiskCategory),
			Message:       alert.Message,
			Severity:      alert.Severity,
			At:            alert.CreatedAt,
		})
	}
}
