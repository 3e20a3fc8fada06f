package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/aiops/domain"
	appLogger "github.com/fastygo/aiops/pkg/logger"
)

type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"

	sessionValue = "aiops.session"
)

// Adapter turns a fasthttp.RequestCtx into a stdlib context with a deadline
// and request metadata.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

func (a *Adapter) Timeout() time.Duration {
	return a.timeout
}

func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := requestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if session, ok := SessionFrom(ctx); ok && session.ID != "" {
		stdCtx = appLogger.ContextWithSessionID(stdCtx, session.ID)
	}
	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	return stdCtx, cancel
}

// SetSession stores the resolved session on the request.
func SetSession(ctx *fasthttp.RequestCtx, session domain.Session) {
	ctx.SetUserValue(sessionValue, session)
}

// SessionFrom returns the session stored by SetSession.
func SessionFrom(ctx *fasthttp.RequestCtx) (domain.Session, bool) {
	if ctx == nil {
		return domain.Session{}, false
	}
	session, ok := ctx.UserValue(sessionValue).(domain.Session)
	return session, ok
}

// UserFrom returns the signed-in user of the request, or nil.
func UserFrom(ctx *fasthttp.RequestCtx) *domain.User {
	session, ok := SessionFrom(ctx)
	if !ok {
		return nil
	}
	return session.User
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
		return header
	}
	return uuid.NewString()
}
