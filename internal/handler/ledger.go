package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loanrisk/internal/repository"
)

type LedgerHandler struct {
	Repo repository.Repository
}

func (h *LedgerHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1")
	group.GET("/predictions", h.listPredictions)
	group.GET("/alerts", h.listAlerts)
}

// @Summary List recent predictions
// @Tags ledger
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Param risk_category query string false "LOW, MEDIUM or HIGH"
// @Param application_id query string false "filter by application id"
// @Param alert query bool false "filter by alert flag"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Success 200 {object} map[string]any
// @Router /api/v1/predictions [get]
func (h *LedgerHandler) listPredictions(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	since, err := timeQueryPtr(c, "since")
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	until, err := timeQueryPtr(c, "until")
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	items, total, err := h.Repo.ListRecentPredictions(c.Request.Context(), repository.ListPredictionsParams{
		ApplicationID:  strQueryPtr(c, "application_id"),
		RiskCategory:   strQueryPtr(c, "risk_category"),
		AlertTriggered: boolQueryPtr(c, "alert"),
		Since:          since,
		Until:          until,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary List recent risk alerts
// @Tags ledger
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Param severity query string false "filter by severity"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Success 200 {object} map[string]any
// @Router /api/v1/alerts [get]
func (h *LedgerHandler) listAlerts(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	since, err := timeQueryPtr(c, "since")
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	until, err := timeQueryPtr(c, "until")
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	items, total, err := h.Repo.ListRecentAlerts(c.Request.Context(), repository.ListAlertsParams{
		Severity: strQueryPtr(c, "severity"),
		Since:    since,
		Until:    until,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}
