package middleware

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/aiops/api/transport"
	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/pkg/httpcontext"
	"github.com/fastygo/aiops/usecase/access"
)

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// SessionResolver turns a bearer token into a session snapshot.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) domain.Session
}

// Session resolves the caller's session and applies the authentication gate.
// Only Render reaches next, with the session stored on the request.
func Session(resolver SessionResolver, adapter *httpcontext.Adapter, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			stdCtx, cancel := adapter.Attach(ctx)
			session := resolver.Resolve(stdCtx, httpcontext.BearerToken(ctx))
			cancel()

			httpcontext.SetSession(ctx, session)

			switch access.AuthGate(session) {
			case access.Suspend:
				ctx.Response.Header.Set("Retry-After", "1")
				reject(ctx, http.StatusServiceUnavailable, domain.ErrSessionPending, nil)
			case access.Redirect:
				reject(ctx, http.StatusUnauthorized, domain.ErrNotAuthenticated, transport.RedirectTo(access.LoginPath))
			default:
				next(ctx)
			}
		}
	}
}

func reject(ctx *fasthttp.RequestCtx, status int, err *domain.Error, meta transport.Meta) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(transport.FromError(err, meta).Bytes())
}
