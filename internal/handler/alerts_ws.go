package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"loanrisk/internal/alertfeed"
)

// FeedHandler streams high-risk alert events to websocket clients as they
// happen. Write-only: client frames are read and discarded.
type FeedHandler struct {
	Hub    *alertfeed.Hub
	Logger *zap.Logger
}

func (h *FeedHandler) Register(r *gin.Engine) {
	r.GET("/ws/alerts", h.stream)
}

// @Summary Live alert event stream
// @Tags ledger
// @Router /ws/alerts [get]
func (h *FeedHandler) stream(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("alert feed accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := conn.CloseRead(c.Request.Context())

	events, cancel := h.Hub.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				return
			}
		}
	}
}
