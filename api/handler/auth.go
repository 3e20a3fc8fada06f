package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/aiops/api/transport"
	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/pkg/httpcontext"
	"github.com/fastygo/aiops/usecase/access"
	authUC "github.com/fastygo/aiops/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Sign in with a demo account
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.LoginRequest
	if err := h.decode(ctx, &req); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondError(ctx, stdCtx, domain.ErrInvalidCredentials)
		return
	}

	result, err := h.uc.Login(stdCtx, httpcontext.BearerToken(ctx), req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary Sign out; idempotent
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.uc.Logout(stdCtx, httpcontext.BearerToken(ctx))
	ctx.SetStatusCode(http.StatusNoContent)
}

// @Summary Current session state
// @Tags auth
// @Router /api/v1/auth/session [get]
func (h *AuthHandler) Session(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session := h.uc.Resolve(stdCtx, httpcontext.BearerToken(ctx))
	resp := transport.SessionResponse{
		State:       string(session.State()),
		Decision:    access.AuthGate(session).String(),
		Permissions: authUC.Permissions(session),
	}
	if session.User != nil {
		resp.User = session.User
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}
