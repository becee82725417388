package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/logging"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/resilience"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/usecase"
)

const maxWebhookResponseBody = 4096

// WebhookConfig wires the downstream scores-updated webhook.
type WebhookConfig struct {
	Endpoint       string
	Token          string
	Timeout        time.Duration
	Retries        int
	CircuitEnabled bool
	Circuit        resilience.CircuitBreakerConfig
}

// WebhookPublisher delivers scores-updated events to a configured HTTP
// endpoint. Delivery is best effort: callers already treat notification
// failures as non-fatal, so the publisher's job is to fail fast and loudly.
type WebhookPublisher struct {
	client   *http.Client
	endpoint string
	token    string
	retries  int
	breaker  *resilience.CircuitBreaker
	logger   *logging.Logger
}

func NewWebhookPublisher(cfg WebhookConfig, logger *logging.Logger) *WebhookPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	var breaker *resilience.CircuitBreaker
	if cfg.CircuitEnabled {
		breaker = resilience.NewCircuitBreaker(cfg.Circuit)
	}

	return &WebhookPublisher{
		client:   &http.Client{Timeout: timeout},
		endpoint: strings.TrimSpace(cfg.Endpoint),
		token:    strings.TrimSpace(cfg.Token),
		retries:  retries,
		breaker:  breaker,
		logger:   logger,
	}
}

func (p *WebhookPublisher) PublishScoresUpdated(ctx context.Context, evt usecase.ScoresUpdatedEvent) error {
	if p.endpoint == "" {
		return errors.New("webhook endpoint is not configured")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encoded, err := sonic.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "marshal scores updated event")
	}
	_, _ = buf.Write(encoded)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.endpoint", p.endpoint),
			attribute.String("webhook.reason", evt.Reason),
			attribute.Int("webhook.episode", evt.Episode),
		)
	}

	deliver := func() error {
		var lastErr error
		for attempt := 0; attempt <= p.retries; attempt++ {
			lastErr = p.post(ctx, buf.B)
			if lastErr == nil {
				return nil
			}
			if ctx.Err() != nil {
				return lastErr
			}
		}
		return lastErr
	}

	if p.breaker != nil {
		err = p.breaker.Do(deliver)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return fmt.Errorf("%w: webhook circuit open", usecase.ErrDependencyUnavailable)
		}
	} else {
		err = deliver()
	}
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "scores updated event published",
		"season", evt.Season, "episode", evt.Episode, "reason", evt.Reason)
	return nil
}

func (p *WebhookPublisher) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "deliver webhook")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxWebhookResponseBody))
		return errors.Newf("webhook delivery status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return nil
}
