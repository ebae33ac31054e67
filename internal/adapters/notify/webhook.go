// Package notify posts deal announcements to a chat webhook
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	maxBackoff       = 30 * time.Second
)

// Options configures the Webhook
type Options struct {
	// URL is the incoming webhook; empty disables delivery
	URL     string
	Timeout time.Duration

	// Retry config for transport errors, 429 and 5xx
	MaxRetries int
	RetryBase  time.Duration
}

// Webhook delivers plain text messages as {"text": ...}
type Webhook struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New creates a Webhook with defaults applied
func New(o Options) *Webhook {
	o.URL = strings.TrimSpace(o.URL)
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Webhook{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("notify"),
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// Enabled reports whether a webhook URL is configured
func (w *Webhook) Enabled() bool { return w != nil && w.opts.URL != "" }

type payload struct {
	Text string `json:"text"`
}

// Notify posts text to the webhook, retrying transient failures
// A disabled webhook is a no-op
func (w *Webhook) Notify(ctx context.Context, text string) error {
	if !w.Enabled() {
		return nil
	}
	body, err := json.Marshal(payload{Text: text})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "notify encode failed")
	}

	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.opts.URL, bytes.NewReader(body))
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "notify new request failed")
		}
		req.Header.Set("Content-Type", "application/json")

		start := w.now()
		resp, err := w.http.Do(req)
		lat := w.now().Sub(start)

		if err != nil {
			if attempts >= w.opts.MaxRetries {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "notify post failed")
			}
			back := w.backoff(attempts)
			w.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).Msg("notify transport error retrying")
			if err := w.sleep(ctx, back); err != nil {
				return err
			}
			attempts++
			continue
		}

		w.log.Debug().Int("status", resp.StatusCode).Int("attempt", attempts).Dur("latency", lat).Msg("notify http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			_ = drainAndClose(resp.Body)
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			wait := min(retryAfter(resp.Header), maxBackoff)
			if wait <= 0 {
				wait = w.backoff(attempts)
			}
			_ = drainAndClose(resp.Body)
			if attempts >= w.opts.MaxRetries {
				code := perr.ErrorCodeUnavailable
				if resp.StatusCode == http.StatusTooManyRequests {
					code = perr.ErrorCodeTooManyRequests
				}
				return perr.Newf(code, "notify gave up after %d attempts status %d", attempts+1, resp.StatusCode)
			}
			w.log.Warn().Int("status", resp.StatusCode).Dur("retry_in", wait).Msg("notify transient error retrying")
			if err := w.sleep(ctx, wait); err != nil {
				return err
			}
			attempts++
			continue
		default:
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			return perr.Newf(perr.ErrorCodeUpstream, "notify unexpected status %d body %s", resp.StatusCode, string(tail))
		}
	}
}

// backoff is exponential from RetryBase, capped
func (w *Webhook) backoff(attempt int) time.Duration {
	if attempt > 16 {
		return maxBackoff
	}
	d := w.opts.RetryBase << uint(attempt)
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
