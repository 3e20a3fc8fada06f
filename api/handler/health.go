package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/aiops/api/transport"
	"github.com/fastygo/aiops/internal/infrastructure/monitor"
	"github.com/fastygo/aiops/pkg/httpcontext"
)

// StatusSource is the part of the monitor the health endpoint reads.
type StatusSource interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusSource
}

func NewHealthHandler(mon StatusSource, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp":  time.Now().UTC(),
		"last_check": status.LastCheck,
		"services": map[string]interface{}{
			"postgresql":     status.PostgreSQL,
			"redis":          status.Redis,
			"incidents_feed": status.Incidents,
			"spool": map[string]interface{}{
				"state": status.Spool,
				"size":  status.SpoolSize,
			},
		},
	}

	if !status.Degraded() {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.Envelope{
		Status: transport.StatusError,
		Code:   "DEGRADED",
		Error:  "dependencies unhealthy",
		Data:   payload,
	})
}
