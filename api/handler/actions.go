package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/aiops/api/transport"
	"github.com/fastygo/aiops/pkg/httpcontext"
	"github.com/fastygo/aiops/usecase/console"
)

type ActionsHandler struct {
	baseHandler
	uc *console.UseCase
}

func NewActionsHandler(uc *console.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ActionsHandler {
	return &ActionsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Start a runbook execution
// @Tags automation
// @Router /api/v1/automation/runbooks/{id}/run [post]
func (h *ActionsHandler) RunRunbook(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.RunRunbookRequest
	if err := h.decode(ctx, &req); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	id, _ := ctx.UserValue("id").(string)

	execution, err := h.uc.RunRunbook(stdCtx, httpcontext.UserFrom(ctx), id, req.IncidentID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusAccepted, execution)
}

// @Summary Download analytics as CSV
// @Tags analytics
// @Router /api/v1/analytics/export [get]
func (h *ActionsHandler) ExportAnalytics(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	out, err := h.uc.ExportAnalytics(stdCtx, httpcontext.UserFrom(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.Response.Header.SetContentType("text/csv; charset=utf-8")
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="aiops-analytics.csv"`)
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(out)
}

// @Summary Post a ChatOps message
// @Tags chatops
// @Router /api/v1/chatops/messages [post]
func (h *ActionsHandler) PostMessage(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.ChatMessageRequest
	if err := h.decode(ctx, &req); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	message, err := h.uc.PostMessage(stdCtx, httpcontext.UserFrom(ctx), req.Body)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, message)
}

// @Summary Inject a synthetic anomaly; an empty body injects the demo one
// @Tags admin
// @Router /api/v1/admin/anomalies [post]
func (h *ActionsHandler) InjectAnomaly(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	in := console.DemoAnomaly()
	if err := h.decode(ctx, &in); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	anomaly, err := h.uc.InjectAnomaly(stdCtx, httpcontext.UserFrom(ctx), in)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, anomaly)
}

// @Summary Inject a synthetic incident; an empty body injects the demo one
// @Tags admin
// @Router /api/v1/admin/incidents [post]
func (h *ActionsHandler) InjectIncident(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	in := console.DemoIncident()
	if err := h.decode(ctx, &in); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	incident, err := h.uc.InjectIncident(stdCtx, httpcontext.UserFrom(ctx), in)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, incident)
}
