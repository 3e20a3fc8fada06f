package middleware

import (
	"net/http"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/aiops/api/transport"
	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/pkg/httpcontext"
	"github.com/fastygo/aiops/usecase/access"
)

// RequireRole lets through only users whose role is in allow. It expects
// Session to have run first.
func RequireRole(allow ...domain.Role) Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if !access.RequireRole(httpcontext.UserFrom(ctx), allow...) {
				reject(ctx, http.StatusForbidden, domain.ErrForbidden, nil)
				return
			}
			next(ctx)
		}
	}
}

// Can lets through only users holding permission.
func Can(permission domain.Permission) Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if !access.Can(httpcontext.UserFrom(ctx), permission) {
				reject(ctx, http.StatusForbidden, domain.ErrForbidden, transport.MissingPermission(permission))
				return
			}
			next(ctx)
		}
	}
}

// Chain applies middlewares so the first one runs outermost.
func Chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
