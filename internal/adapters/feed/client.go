// Package feed fetches raw hotel and availability payloads from provider
// feed gateways. All network concerns live here; the core only ever sees
// decoded maps.
package feed

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API (tries modern endpoints first, falls back to legacy variants) ----

func (c *Client) ListHotels(ctx context.Context, provider, city string) ([]map[string]any, error) {
	candidates := []string{
		fmt.Sprintf("%s/providers/%s/cities/%s/hotels", c.base, provider, city), // preferred
		fmt.Sprintf("%s/feeds/%s/hotels?city=%s", c.base, provider, city),
		fmt.Sprintf("%s/%s/hotels/%s", c.base, provider, city), // legacy
	}
	return c.listFirst(ctx, candidates, "hotels")
}

func (c *Client) ListSnapshots(ctx context.Context, provider, city string) ([]map[string]any, error) {
	candidates := []string{
		fmt.Sprintf("%s/providers/%s/cities/%s/availability", c.base, provider, city), // preferred
		fmt.Sprintf("%s/feeds/%s/availability?city=%s", c.base, provider, city),
		fmt.Sprintf("%s/%s/availability/%s", c.base, provider, city), // legacy
	}
	return c.listFirst(ctx, candidates, "snapshots")
}

// ---- Internals ----

var (
	ErrNotFound     = errors.New("feed: not found")
	ErrUnauthorized = errors.New("feed: unauthorized")
	ErrForbidden    = errors.New("feed: forbidden")
)

// listFirst walks the candidate URLs and decodes the first hit. Gateways
// return either a bare array or the list wrapped under a named key / "data".
func (c *Client) listFirst(ctx context.Context, urls []string, wrapKey string) ([]map[string]any, error) {
	var last error
	for _, u := range urls {
		var raw json.RawMessage
		if err := c.get(ctx, u, &raw); err != nil {
			if errors.Is(err, ErrNotFound) {
				last = err
				continue // try next pattern
			}
			return nil, err // non-404: stop early
		}
		return decodeList(raw, wrapKey)
	}
	if last != nil {
		return nil, last
	}
	return nil, errors.New("no candidate URL succeeded")
}

func decodeList(raw json.RawMessage, wrapKey string) ([]map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err == nil {
		return out, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("feed: undecodable payload: %w", err)
	}
	for _, k := range []string{wrapKey, "data", "items", "results"} {
		if inner, ok := wrapped[k]; ok {
			if err := json.Unmarshal(inner, &out); err != nil {
				return nil, fmt.Errorf("feed: undecodable %q list: %w", k, err)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("feed: payload has no %q list", wrapKey)
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, url string, out any) error {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "labbaik-intel/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			// network error or context canceled
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			// context-aware sleep before retry
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			// no more retries or context canceled
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			// decode then close
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNoContent:
			// success, empty body
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	// seconds form
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	// HTTP-date form
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	// concurrency-safe jitter using crypto/rand
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0                  // 0..1
	j := time.Duration(0.5 * f * float64(base)) // up to +50%
	return base + j
}
