package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/aiops/pkg/httpcontext"
	"github.com/fastygo/aiops/usecase/access"
	"github.com/fastygo/aiops/usecase/views"
)

type ViewsHandler struct {
	baseHandler
	registry *views.Registry
}

func NewViewsHandler(registry *views.Registry, adapter *httpcontext.Adapter, logger *zap.Logger) *ViewsHandler {
	return &ViewsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		registry:    registry,
	}
}

// @Summary Render a console view for the signed-in user
// @Tags views
// @Router /api/v1/views/{name} [get]
func (h *ViewsHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	name, _ := ctx.UserValue("name").(string)
	params := make(map[string]string)
	ctx.QueryArgs().VisitAll(func(key, value []byte) {
		params[string(key)] = string(value)
	})

	data, err := h.registry.Execute(stdCtx, name, views.Request{User: httpcontext.UserFrom(ctx), Params: params})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, data)
}

// @Summary Views the signed-in user may open
// @Tags views
// @Router /api/v1/views [get]
func (h *ViewsHandler) List(ctx *fasthttp.RequestCtx) {
	user := httpcontext.UserFrom(ctx)
	names := []string{}
	if user != nil {
		if visible := h.registry.Visible(user.Role); visible != nil {
			names = visible
		}
	}
	h.respondSuccess(ctx, http.StatusOK, names)
}

// @Summary Role-filtered navigation
// @Tags views
// @Router /api/v1/navigation [get]
func (h *ViewsHandler) Navigation(ctx *fasthttp.RequestCtx) {
	groups := []access.NavGroup{}
	if user := httpcontext.UserFrom(ctx); user != nil {
		if nav := access.Navigation(user.Role); nav != nil {
			groups = nav
		}
	}
	h.respondSuccess(ctx, http.StatusOK, groups)
}
