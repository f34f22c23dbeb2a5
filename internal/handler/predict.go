package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loanrisk/internal/feature"
	"loanrisk/internal/predictor"
	"loanrisk/internal/scorer"
)

// maxBatchSize caps one batch request; larger batches should be split by the
// caller.
const maxBatchSize = 500

type PredictHandler struct {
	Service *predictor.Service
	Logger  *zap.Logger
}

func (h *PredictHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1")
	group.POST("/predict", h.predictOne)
	group.POST("/predict/batch", h.predictBatch)
}

// @Summary Score one loan application
// @Tags predict
// @Accept json
// @Produce json
// @Param application body feature.RawApplication true "loan application"
// @Success 200 {object} predictor.Result
// @Failure 400 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /api/v1/predict [post]
func (h *PredictHandler) predictOne(c *gin.Context) {
	var raw feature.RawApplication
	if err := c.ShouldBindJSON(&raw); err != nil {
		Error(c, http.StatusBadRequest, "invalid JSON body: "+err.Error(), nil)
		return
	}
	res, err := h.Service.PredictOne(c.Request.Context(), raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Score a batch of loan applications
// @Tags predict
// @Accept json
// @Produce json
// @Param batch body []feature.RawApplication true "applications to score"
// @Success 200 {array} predictor.Result
// @Failure 400 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /api/v1/predict/batch [post]
func (h *PredictHandler) predictBatch(c *gin.Context) {
	var raws []feature.RawApplication
	if err := c.ShouldBindJSON(&raws); err != nil {
		Error(c, http.StatusBadRequest, "invalid JSON body: "+err.Error(), nil)
		return
	}
	if len(raws) == 0 {
		Error(c, http.StatusBadRequest, "batch must not be empty", nil)
		return
	}
	if len(raws) > maxBatchSize {
		Error(c, http.StatusRequestEntityTooLarge, "batch too large", map[string]any{"max": maxBatchSize})
		return
	}
	results, err := h.Service.PredictBatch(c.Request.Context(), raws)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// fail maps service errors onto status codes. Validation failures carry their
// structured detail through; everything else stays opaque to the caller.
func (h *PredictHandler) fail(c *gin.Context, err error) {
	var verr *feature.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"errors":  verr.Fields,
		})
		return
	}
	var berr *predictor.BatchValidationError
	if errors.As(err, &berr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": berr.Error(),
			"items":   berr.Items,
		})
		return
	}
	if errors.Is(err, scorer.ErrUnavailable) {
		Error(c, http.StatusServiceUnavailable, "scoring model unavailable", nil)
		return
	}
	if h.Logger != nil {
		h.Logger.Error("prediction failed", zap.Error(err))
	}
	Error(c, http.StatusInternalServerError, "internal scoring error", nil)
}
