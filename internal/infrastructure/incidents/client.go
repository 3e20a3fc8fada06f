package incidents

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/aiops/domain"
)

// Client reads the incident summary from the incidents service. It sends no
// credentials, never retries and does not paginate.
type Client struct {
	url    string
	http   *fasthttp.Client
	logger *zap.Logger
}

// NewClient builds a feed client. A nil httpClient gets a default fasthttp client.
func NewClient(url string, httpClient *fasthttp.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "aiops-console",
			MaxIdleConnDuration: time.Minute,
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{url: url, http: httpClient, logger: logger}
}

func (c *Client) URL() string {
	return c.url
}

// Fetch performs one GET. Any transport failure, non-2xx status or
// undecodable body comes back as *domain.FetchError. The context deadline,
// when present, bounds the call.
func (c *Client) Fetch(ctx context.Context) (*domain.IncidentFeed, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Err: err}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else {
		err = c.http.Do(req, resp)
	}
	if err != nil {
		c.logger.Warn("incidents request failed", zap.String("url", c.url), zap.Error(err))
		return nil, &domain.FetchError{Err: err}
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		c.logger.Warn("incidents request returned error status", zap.String("url", c.url), zap.Int("status", status))
		return nil, &domain.FetchError{StatusCode: status}
	}

	var feed domain.IncidentFeed
	if err := json.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, &domain.FetchError{StatusCode: status, Err: err}
	}
	return &feed, nil
}

// Ping reports whether the feed answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Fetch(ctx)
	return err
}
