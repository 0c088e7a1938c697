package freshlearn

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDoer captures the outgoing request and replies with a canned response.
type recordingDoer struct {
	req    *http.Request
	body   []byte
	status int
	ctype  string
	reply  string
	err    error
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.req = req
	d.body = nil
	if req.Body != nil {
		d.body, _ = io.ReadAll(req.Body)
	}
	if d.err != nil {
		return nil, d.err
	}

	header := http.Header{}
	if d.ctype != "" {
		header.Set("Content-Type", d.ctype)
	}
	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(d.reply)),
		Request:    req,
	}, nil
}

func newRecordingClient(t *testing.T, doer *recordingDoer) *Client {
	t.Helper()
	client, err := NewClient("test-key", WithBaseURL("https://api.example.com/v1"), WithHTTPClient(doer))
	require.NoError(t, err)
	return client
}

func TestDoResponseClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		ctype       string
		reply       string
		wantSuccess bool
		wantError   string
		wantKind    PayloadKind
		wantBody    string
	}{
		{
			name:        "success with json object",
			status:      200,
			ctype:       "application/json",
			reply:       `{"id":"123","email":"a@example.com"}`,
			wantSuccess: true,
			wantKind:    PayloadJSON,
			wantBody:    `{"id":"123","email":"a@example.com"}`,
		},
		{
			name:        "created with charset parameter",
			status:      201,
			ctype:       "application/json; charset=utf-8",
			reply:       `{"ok":true}`,
			wantSuccess: true,
			wantKind:    PayloadJSON,
			wantBody:    `{"ok":true}`,
		},
		{
			name:        "success with text body",
			status:      200,
			ctype:       "text/plain",
			reply:       "OK",
			wantSuccess: true,
			wantKind:    PayloadText,
			wantBody:    "OK",
		},
		{
			name:        "success with malformed json",
			status:      200,
			ctype:       "application/json",
			reply:       `{"id":`,
			wantSuccess: true,
			wantKind:    PayloadNone,
		},
		{
			name:        "success with empty json body",
			status:      204,
			ctype:       "application/json",
			reply:       "",
			wantSuccess: true,
			wantKind:    PayloadNone,
		},
		{
			name:        "error with message",
			status:      400,
			ctype:       "application/json",
			reply:       `{"message":"Bad Request"}`,
			wantError:   "Bad Request",
			wantKind:    PayloadJSON,
			wantBody:    `{"message":"Bad Request"}`,
		},
		{
			name:      "error without message",
			status:    404,
			ctype:     "application/json",
			reply:     `{"error":"not here"}`,
			wantError: "Request failed with status 404",
			wantKind:  PayloadJSON,
			wantBody:  `{"error":"not here"}`,
		},
		{
			name:      "error with null message",
			status:    422,
			ctype:     "application/json",
			reply:     `{"message":null}`,
			wantError: "Request failed with status 422",
			wantKind:  PayloadJSON,
			wantBody:  `{"message":null}`,
		},
		{
			name:      "error with non-string message",
			status:    409,
			ctype:     "application/json",
			reply:     `{"message":{"code":7}}`,
			wantError: `{"code":7}`,
			wantKind:  PayloadJSON,
			wantBody:  `{"message":{"code":7}}`,
		},
		{
			name:      "error with json array",
			status:    400,
			ctype:     "application/json",
			reply:     `[{"message":"nested"}]`,
			wantError: "Request failed with status 400",
			wantKind:  PayloadJSON,
			wantBody:  `[{"message":"nested"}]`,
		},
		{
			name:      "error with malformed json",
			status:    502,
			ctype:     "application/json",
			reply:     "<html>bad gateway</html>",
			wantError: "Request failed with status 502",
			wantKind:  PayloadNone,
		},
		{
			name:      "error with text body",
			status:    500,
			ctype:     "text/plain",
			reply:     "Internal Server Error",
			wantError: "Request failed with status 500",
			wantKind:  PayloadText,
			wantBody:  "Internal Server Error",
		},
		{
			name:      "error with text body that looks like json",
			status:    400,
			ctype:     "text/html",
			reply:     `{"message":"ignored"}`,
			wantError: "Request failed with status 400",
			wantKind:  PayloadText,
			wantBody:  `{"message":"ignored"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &recordingDoer{status: tt.status, ctype: tt.ctype, reply: tt.reply}
			client := newRecordingClient(t, doer)

			resp, err := Do[Payload](context.Background(), client, http.MethodGet, "/thing", nil)
			require.NoError(t, err)
			require.NotNil(t, resp)

			assert.Equal(t, tt.wantSuccess, resp.Success)
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.wantKind, resp.Body.Kind())
			assert.Equal(t, tt.wantBody, resp.Body.String())
			assert.Equal(t, resp.Body, resp.Data)
		})
	}
}

func TestDoTypedData(t *testing.T) {
	t.Run("json narrowed into result type", func(t *testing.T) {
		doer := &recordingDoer{ctype: "application/json", reply: `{"id":"1","email":"a@example.com","fullName":"A","source":"api"}`}
		client := newRecordingClient(t, doer)

		resp, err := Do[Member](context.Background(), client, http.MethodGet, "/member", nil)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, Member{ID: "1", Email: "a@example.com", FullName: "A", Source: "api"}, resp.Data)
	})

	t.Run("failure still carries body as data", func(t *testing.T) {
		doer := &recordingDoer{status: 400, ctype: "application/json", reply: `{"message":"Bad Request","email":"dup@example.com"}`}
		client := newRecordingClient(t, doer)

		resp, err := Do[Member](context.Background(), client, http.MethodPost, "/member", CreateMemberRequest{Email: "dup@example.com"})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "Bad Request", resp.Error)
		assert.Equal(t, "dup@example.com", resp.Data.Email)
	})

	t.Run("shape mismatch leaves zero data", func(t *testing.T) {
		doer := &recordingDoer{ctype: "application/json", reply: `{"not":"a list"}`}
		client := newRecordingClient(t, doer)

		resp, err := Do[[]Member](context.Background(), client, http.MethodGet, "/member", nil)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Data)
		assert.True(t, resp.Body.IsObject())
	})

	t.Run("text narrowed into string", func(t *testing.T) {
		doer := &recordingDoer{status: 500, ctype: "text/plain", reply: "Internal Server Error"}
		client := newRecordingClient(t, doer)

		resp, err := Do[string](context.Background(), client, http.MethodGet, "/member", nil)
		require.NoError(t, err)
		assert.Equal(t, "Internal Server Error", resp.Data)
	})

	t.Run("text is not narrowed into a struct", func(t *testing.T) {
		doer := &recordingDoer{ctype: "text/plain", reply: "hello"}
		client := newRecordingClient(t, doer)

		resp, err := Do[Member](context.Background(), client, http.MethodGet, "/member", nil)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, Member{}, resp.Data)
		assert.Equal(t, "hello", resp.Body.Text())
	})
}

func TestDoRequestConstruction(t *testing.T) {
	t.Run("url is base plus path verbatim", func(t *testing.T) {
		doer := &recordingDoer{ctype: "application/json", reply: `[]`}
		client, err := NewClient("test-key", WithBaseURL("https://api.example.com/v1/"), WithHTTPClient(doer))
		require.NoError(t, err)

		_, err = Do[Payload](context.Background(), client, http.MethodGet, "/integration/member", nil)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/v1//integration/member", doer.req.URL.String())
	})

	t.Run("header names keep their casing", func(t *testing.T) {
		doer := &recordingDoer{ctype: "application/json", reply: `[]`}
		client := newRecordingClient(t, doer)

		_, err := Do[Payload](context.Background(), client, http.MethodGet, "/x", nil, WithHeader("x-Custom-trace", "abc"))
		require.NoError(t, err)

		assert.Equal(t, []string{"test-key"}, doer.req.Header["api-key"])
		assert.Equal(t, []string{"application/json"}, doer.req.Header["Content-Type"])
		assert.Equal(t, []string{"application/json"}, doer.req.Header["Accept"])
		assert.Equal(t, []string{"abc"}, doer.req.Header["x-Custom-trace"])
		assert.NotContains(t, doer.req.Header, "Api-Key")
	})

	t.Run("overrides replace defaults", func(t *testing.T) {
		doer := &recordingDoer{ctype: "application/json", reply: `[]`}
		client := newRecordingClient(t, doer)

		_, err := Do[Payload](context.Background(), client, http.MethodGet, "/x", nil,
			WithHeaders(map[string]string{"api-key": "other-key", "Accept": "text/plain"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"other-key"}, doer.req.Header["api-key"])
		assert.Equal(t, []string{"text/plain"}, doer.req.Header["Accept"])
	})

	t.Run("override differing only in case is sent alongside default", func(t *testing.T) {
		doer := &recordingDoer{ctype: "application/json", reply: `[]`}
		client := newRecordingClient(t, doer)

		_, err := Do[Payload](context.Background(), client, http.MethodGet, "/x", nil,
			WithHeaders(map[string]string{"API-KEY": "other-key", "content-type": "text/plain"}))
		require.NoError(t, err)

		assert.Equal(t, []string{"test-key"}, doer.req.Header["api-key"])
		assert.Equal(t, []string{"other-key"}, doer.req.Header["API-KEY"])
		assert.Equal(t, []string{"application/json"}, doer.req.Header["Content-Type"])
		assert.Equal(t, []string{"text/plain"}, doer.req.Header["content-type"])
	})

	t.Run("body only for POST and PUT", func(t *testing.T) {
		payload := map[string]string{"email": "a@example.com"}
		tests := []struct {
			method   string
			wantBody string
		}{
			{http.MethodGet, ""},
			{http.MethodDelete, ""},
			{http.MethodPost, `{"email":"a@example.com"}`},
			{http.MethodPut, `{"email":"a@example.com"}`},
		}

		for _, tt := range tests {
			t.Run(tt.method, func(t *testing.T) {
				doer := &recordingDoer{ctype: "application/json", reply: `{}`}
				client := newRecordingClient(t, doer)

				_, err := Do[Payload](context.Background(), client, tt.method, "/x", payload)
				require.NoError(t, err)
				assert.Equal(t, tt.wantBody, string(doer.body))
				assert.Equal(t, tt.method, doer.req.Method)
			})
		}
	})

	t.Run("nil bodies are not sent", func(t *testing.T) {
		var member *CreateMemberRequest
		for _, body := range []any{nil, member} {
			doer := &recordingDoer{ctype: "application/json", reply: `{}`}
			client := newRecordingClient(t, doer)

			_, err := Do[Payload](context.Background(), client, http.MethodPost, "/x", body)
			require.NoError(t, err)
			assert.Empty(t, doer.body)
		}
	})

	t.Run("unencodable body", func(t *testing.T) {
		doer := &recordingDoer{}
		client := newRecordingClient(t, doer)

		_, err := Do[Payload](context.Background(), client, http.MethodPost, "/x", map[string]any{"ch": make(chan int)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to encode request body")
		assert.Nil(t, doer.req)
	})
}

func TestDoTransportFailure(t *testing.T) {
	t.Run("network error is returned", func(t *testing.T) {
		netErr := errors.New("connection refused")
		doer := &recordingDoer{err: netErr}
		client := newRecordingClient(t, doer)

		resp, err := Do[Payload](context.Background(), client, http.MethodGet, "/x", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, netErr)
		assert.Contains(t, err.Error(), "request failed")
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		client, err := NewClient("test-key", WithBaseURL(server.URL))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		resp, err := Do[Payload](ctx, client, http.MethodGet, "/x", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDoTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(2 * time.Second):
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	t.Run("response before deadline", func(t *testing.T) {
		resp, err := Do[Payload](context.Background(), client, http.MethodGet, "/fast", nil, WithTimeoutMillis(1000))
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.JSONEq(t, `{"ok":true}`, resp.Body.String())
	})

	t.Run("deadline elapses first", func(t *testing.T) {
		start := time.Now()
		resp, err := Do[Payload](context.Background(), client, http.MethodGet, "/slow", nil, WithTimeout(50*time.Millisecond))
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestCallScope(t *testing.T) {
	t.Run("settled call is not aborted later", func(t *testing.T) {
		ctx, scope := withCallTimeout(context.Background(), 20*time.Millisecond)
		scope.settle()

		time.Sleep(60 * time.Millisecond)
		assert.NoError(t, ctx.Err())

		scope.cancel()
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("unsettled call is aborted", func(t *testing.T) {
		ctx, scope := withCallTimeout(context.Background(), 10*time.Millisecond)
		defer scope.cancel()

		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("timeout did not fire")
		}
		assert.ErrorIs(t, context.Cause(ctx), context.DeadlineExceeded)
	})

	t.Run("no timeout returns parent", func(t *testing.T) {
		parent := context.Background()
		ctx, scope := withCallTimeout(parent, 0)
		assert.Equal(t, parent, ctx)
		scope.settle()
		scope.cancel()
	})
}

func TestResponseErr(t *testing.T) {
	ok := &Response[Payload]{Success: true, StatusCode: 200}
	assert.NoError(t, ok.Err())

	var missing *Response[Payload]
	assert.NoError(t, missing.Err())

	failed := &Response[Payload]{Success: false, Error: "Not Found", StatusCode: 404, Body: JSONPayload([]byte(`{"message":"Not Found"}`))}
	err := failed.Err()
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.True(t, apiErr.IsNotFound())
	assert.False(t, apiErr.IsUnauthorized())
	assert.Equal(t, "freshlearn API error: status 404: Not Found", err.Error())
}
