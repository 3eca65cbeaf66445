package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	apperrors "github.com/go-tangra/go-tangra-advisor/internal/errors"
)

type headerCarrier http.Header

func (h headerCarrier) Get(key string) string      { return http.Header(h).Get(key) }
func (h headerCarrier) Set(key, value string)      { http.Header(h).Set(key, value) }
func (h headerCarrier) Add(key, value string)      { http.Header(h).Add(key, value) }
func (h headerCarrier) Values(key string) []string { return http.Header(h).Values(key) }
func (h headerCarrier) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}

type fakeTransport struct {
	operation string
	header    headerCarrier
}

func (t *fakeTransport) Kind() transport.Kind            { return transport.KindHTTP }
func (t *fakeTransport) Endpoint() string                { return "" }
func (t *fakeTransport) Operation() string               { return t.operation }
func (t *fakeTransport) RequestHeader() transport.Header { return t.header }
func (t *fakeTransport) ReplyHeader() transport.Header   { return headerCarrier{} }

func serverCtx(operation, apiKey string) context.Context {
	h := headerCarrier{}
	if apiKey != "" {
		h.Set("X-API-Key", apiKey)
	}
	return transport.NewServerContext(context.Background(), &fakeTransport{operation: operation, header: h})
}

func okHandler(context.Context, any) (any, error) { return "ok", nil }

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		key      string
		noTr     bool
		wantCode int
	}{
		{name: "disabled", secret: "", key: ""},
		{name: "valid", secret: "s3cret", key: "s3cret"},
		{name: "missing", secret: "s3cret", key: "", wantCode: 401},
		{name: "wrong", secret: "s3cret", key: "guess", wantCode: 401},
		{name: "no transport", secret: "s3cret", noTr: true, wantCode: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := serverCtx(OperationGetCatalog, tt.key)
			if tt.noTr {
				ctx = context.Background()
			}

			out, err := APIKeyMiddleware(tt.secret)(okHandler)(ctx, nil)
			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.Equal(t, "ok", out)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, kerrors.Code(err))
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	h := RateLimitMiddleware(limiter, OperationCreateScan)(okHandler)

	_, err := h(serverCtx(OperationCreateScan, ""), nil)
	require.NoError(t, err)

	_, err = h(serverCtx(OperationCreateScan, ""), nil)
	require.Error(t, err)
	assert.Equal(t, 429, kerrors.Code(err))

	_, err = h(serverCtx(OperationGetCatalog, ""), nil)
	assert.NoError(t, err, "other operations are not limited")
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	h := RateLimitMiddleware(nil, OperationCreateScan)(okHandler)
	for range 5 {
		_, err := h(serverCtx(OperationCreateScan, ""), nil)
		require.NoError(t, err)
	}
	assert.Nil(t, scanLimiter(0))
	assert.NotNil(t, scanLimiter(6))
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		code apperrors.ErrorCode
		want int
	}{
		{apperrors.ErrCodeNotFound, 404},
		{apperrors.ErrCodeInvalidRequest, 400},
		{apperrors.ErrCodeUnauthorized, 401},
		{apperrors.ErrCodeRateLimitExceeded, 429},
		{apperrors.ErrCodeTimeout, 504},
		{apperrors.ErrCodeUnavailable, 503},
		{apperrors.ErrCodeInternal, 500},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := toHTTPError(apperrors.New(tt.code, "boom"))
			assert.Equal(t, tt.want, kerrors.Code(err))
			assert.Equal(t, string(tt.code), kerrors.Reason(err))
		})
	}

	assert.NoError(t, toHTTPError(nil))
	passthrough := kerrors.Forbidden("NOPE", "nope")
	assert.Equal(t, 403, kerrors.Code(toHTTPError(passthrough)))
}
