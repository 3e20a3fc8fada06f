package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/aiops/pkg/httpcontext"
	"github.com/fastygo/aiops/usecase/console"
)

// FeedHandler serves the mock queue in the incidents-service shape, without
// the envelope, so the feed client can point at this server.
type FeedHandler struct {
	baseHandler
	uc *console.UseCase
}

func NewFeedHandler(uc *console.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Incident summary feed
// @Tags feed
// @Router /api/v1/feed/incidents [get]
func (h *FeedHandler) Incidents(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	feed, err := h.uc.Feed(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	body, err := json.Marshal(feed)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(body)
}
