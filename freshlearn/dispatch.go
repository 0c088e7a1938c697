package freshlearn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"
)

// Do sends a request to path and classifies the outcome into a Response.
//
// Every HTTP response, whatever its status or body, is returned as a
// Response with a nil error. An error is returned only when no response was
// obtained: the request could not be built, the transport failed, or the
// call was cancelled or timed out.
func Do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (*Response[T], error) {
	ro := buildRequestOptions(opts)
	url := c.baseURL + path

	var reader io.Reader
	if hasBody(method, body) {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	ctx, release := withCallTimeout(ctx, ro.timeout)
	defer release.cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Direct assignment keeps header names exactly as given.
	for name, value := range c.mergeHeaders(ro.headers) {
		req.Header[name] = []string{value}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	release.settle()
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			err = cause
		}
		c.logger.Debug().
			Err(err).
			Str("method", method).
			Str("url", url).
			Dur("duration", time.Since(start)).
			Msg("Freshlearn request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Freshlearn request completed")

	return handleResponse[T](resp), nil
}

// handleResponse reads the body according to its content type and builds the envelope.
func handleResponse[T any](resp *http.Response) *Response[T] {
	payload := readPayload(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, ok := payload.Message()
		if !ok {
			msg = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}
		return &Response[T]{
			Success:    false,
			Data:       narrow[T](payload),
			Error:      msg,
			StatusCode: resp.StatusCode,
			Body:       payload,
		}
	}

	return &Response[T]{
		Success:    true,
		Data:       narrow[T](payload),
		StatusCode: resp.StatusCode,
		Body:       payload,
	}
}

// readPayload never fails: an unreadable or malformed body is an empty payload.
func readPayload(resp *http.Response) Payload {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Payload{}
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		return JSONPayload(raw)
	}
	return TextPayload(string(raw))
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// hasBody reports whether a request body should be sent.
// Only POST and PUT carry one, and only when a value was supplied.
func hasBody(method string, body any) bool {
	if method != http.MethodPost && method != http.MethodPut {
		return false
	}
	if body == nil {
		return false
	}
	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return !v.IsNil()
	}
	return true
}

// callScope ties a per-call timeout to the lifetime of one request.
type callScope struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

// withCallTimeout derives a context that is aborted once timeout elapses.
// settle must be called when the transport returns so a late timer cannot
// abort a response that already arrived; cancel releases the context.
func withCallTimeout(ctx context.Context, timeout time.Duration) (context.Context, *callScope) {
	if timeout <= 0 {
		return ctx, &callScope{cancel: func() {}}
	}

	ctx, cancel := context.WithCancelCause(ctx)
	scope := &callScope{
		cancel: func() { cancel(nil) },
	}
	scope.timer = time.AfterFunc(timeout, func() {
		cancel(fmt.Errorf("request timed out after %s: %w", timeout, context.DeadlineExceeded))
	})
	return ctx, scope
}

func (s *callScope) settle() {
	if s.timer != nil {
		s.timer.Stop()
	}
}
