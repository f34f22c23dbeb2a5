package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loanrisk/internal/scorer"
)

type AdminHandler struct {
	Loader *scorer.Loader
	Logger *zap.Logger
}

func (h *AdminHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/admin")
	group.POST("/model/reload", h.reloadModel)
	group.GET("/model", h.modelInfo)
}

// @Summary Reload the scoring model from disk
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/v1/admin/model/reload [post]
func (h *AdminHandler) reloadModel(c *gin.Context) {
	if err := h.Loader.Reload(); err != nil {
		if h.Logger != nil {
			h.Logger.Error("model reload failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, "model reload failed: "+err.Error(), nil)
		return
	}
	Ok(c, gin.H{"reloaded": true, "version": h.Loader.Version()}, nil)
}

// @Summary Current scoring model status
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/admin/model [get]
func (h *AdminHandler) modelInfo(c *gin.Context) {
	Ok(c, gin.H{
		"loaded":  h.Loader.Loaded(),
		"version": h.Loader.Version(),
	}, nil)
}
