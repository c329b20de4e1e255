package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmehdipour/phone-engine/internal/config"
	"github.com/jmehdipour/phone-engine/internal/model"
)

// Sink is a downstream system notified about contact actions.
type Sink interface {
	Name() string
	Ready() bool
	Acquire() bool
	Deliver(ctx context.Context, env model.Envelope) error
}

// HTTPSink posts the envelope as JSON to BaseURL+Path. The action id is
// sent as Idempotency-Key so receivers can drop redeliveries.
type HTTPSink struct {
	name   string
	url    string
	client *http.Client
	br     *Breaker
}

var _ Sink = (*HTTPSink)(nil)

func NewHTTPSink(name, baseURL, path string, timeoutMs, failThreshold, openForMs int) *HTTPSink {
	if timeoutMs <= 0 {
		timeoutMs = 3000
	}
	return &HTTPSink{
		name:   name,
		url:    strings.TrimRight(baseURL, "/") + path,
		client: &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		br:     NewBreaker(failThreshold, time.Duration(openForMs)*time.Millisecond),
	}
}

// SinksFromConfig builds one HTTPSink per enabled webhook.
func SinksFromConfig(hooks []config.WebhookConfig) []Sink {
	var sinks []Sink
	for _, h := range hooks {
		if !h.Enabled || strings.TrimSpace(h.BaseURL) == "" {
			continue
		}
		sinks = append(sinks, NewHTTPSink(
			h.Name, h.BaseURL, h.Path, h.TimeoutMs,
			h.Breaker.FailThreshold, h.Breaker.OpenForMs,
		))
	}
	return sinks
}

func (s *HTTPSink) Name() string  { return s.name }
func (s *HTTPSink) Ready() bool   { return s.br.Ready() }
func (s *HTTPSink) Acquire() bool { return s.br.Acquire() }

func (s *HTTPSink) Deliver(ctx context.Context, env model.Envelope) error {
	if err := s.post(ctx, env); err != nil {
		s.br.OnFailure()
		return err
	}
	s.br.OnSuccess()
	return nil
}

func (s *HTTPSink) post(ctx context.Context, env model.Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", env.ID)

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("sink=%s status=%d", s.name, res.StatusCode)
	}
	return nil
}
