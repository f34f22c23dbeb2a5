package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"loanrisk/internal/repository"
)

type StatsHandler struct {
	Repo repository.Repository
}

func (h *StatsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/stats")
	group.GET("", h.overview)
	group.GET("/daily", h.daily)
}

// @Summary Ledger aggregate stats
// @Tags stats
// @Produce json
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Success 200 {object} repository.LedgerStats
// @Router /api/v1/stats [get]
func (h *StatsHandler) overview(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var window repository.StatsWindow
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
	if since != nil {
		window.Since = *since
	}
	if until != nil {
		window.Until = *until
	}
	stats, err := h.Repo.CollectStats(c.Request.Context(), window)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, stats, nil)
}

// @Summary Per-day prediction snapshots
// @Tags stats
// @Produce json
// @Param days query int false "number of days, default 7"
// @Success 200 {object} map[string]any
// @Router /api/v1/stats/daily [get]
func (h *StatsHandler) daily(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	days := intQuery(c, "days", 7)
	if days <= 0 || days > 365 {
		days = 7
	}
	items, err := h.Repo.ListDailyStats(c.Request.Context(), days)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"days": days, "as_of": time.Now().UTC()})
}
