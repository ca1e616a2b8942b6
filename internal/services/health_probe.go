package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"chitchats/internal/infrastructure/logging"
)

// HealthChecker reports whether the backend answers its readiness endpoint
type HealthChecker interface {
	Poll(ctx context.Context) bool
}

// HealthProbe performs a single HTTP GET against the backend health endpoint.
// It is stateless and never retries; callers own the retry budget.
type HealthProbe struct {
	client *resty.Client
	url    string
	logger logging.Logger
}

// NewHealthProbe creates a probe for url with a per-request timeout
func NewHealthProbe(url string, timeout time.Duration, logger logging.Logger) *HealthProbe {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", "ChitChats-Shell/1.0").
		SetLogger(restyLogger{logger: logger})

	return &HealthProbe{
		client: client,
		url:    url,
		logger: logger,
	}
}

// URL returns the probed endpoint
func (p *HealthProbe) URL() string {
	return p.url
}

// Poll returns true only when the endpoint answers with a 2xx status
func (p *HealthProbe) Poll(ctx context.Context) bool {
	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		p.logger.Debug("Health probe failed", "url", p.url, "error", err.Error())
		return false
	}
	if !resp.IsSuccess() {
		p.logger.Debug("Health probe returned non-success status", "url", p.url, "status", resp.StatusCode())
		return false
	}
	return true
}

// restyLogger routes resty's internal messages into the structured logger
type restyLogger struct {
	logger logging.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), "source", "resty")
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...), "source", "resty")
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "source", "resty")
}
