package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Header = r.Header.Clone()

		var body []byte
		if r.Body != nil {
			buf := make([]byte, 1<<16)
			n, _ := r.Body.Read(buf)
			body = buf[:n]
		}
		captured.Body = body

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	return server, captured
}

func TestDoSetsIdempotencyAndCorrelationHeaders(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{"ok": true}`)
	client := NewRestClient(server.URL, nil, nil)

	raw, err := client.Do(context.Background(), http.MethodPost, "/v2/evm/swaps", "idem-1", map[string]string{"network": "base"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/v2/evm/swaps", captured.Path)
	assert.Equal(t, "idem-1", captured.Header.Get(HeaderIdempotencyKey))
	assert.NotEmpty(t, captured.Header.Get(HeaderCorrelationID))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(captured.Body, &body))
	assert.Equal(t, "base", body["network"])
}

func TestDoOmitsIdempotencyHeaderWhenEmpty(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{}`)
	client := NewRestClient(server.URL, nil, nil)

	_, err := client.Do(context.Background(), http.MethodGet, "/v2/evm/swaps/price", "", nil)
	require.NoError(t, err)

	_, present := captured.Header[HeaderIdempotencyKey]
	assert.False(t, present)
}

func TestDoConcurrentRequestsShareOneClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	t.Cleanup(server.Close)

	client := NewRestClient(server.URL, nil, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 16*50)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := client.Do(context.Background(), http.MethodGet, "/v2/evm/swaps/price", "", nil); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Do failed: %v", err)
	}
}

func TestDoDecodesAPIError(t *testing.T) {
	server, _ := newTestServer(t, http.StatusBadRequest, `{
		"errorType": "invalid_request",
		"errorMessage": "fromAmount must be positive",
		"correlationId": "corr-123"
	}`)
	client := NewRestClient(server.URL, nil, nil)

	_, err := client.Do(context.Background(), http.MethodPost, "/v2/evm/swaps", "", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_request", apiErr.ErrorType)
	assert.Equal(t, "fromAmount must be positive", apiErr.ErrorMessage)
	assert.Equal(t, "corr-123", apiErr.CorrelationID)
	assert.Contains(t, apiErr.Error(), "invalid_request")
}

func TestDoNonJSONErrorBodyStillYieldsStatus(t *testing.T) {
	server, _ := newTestServer(t, http.StatusBadGateway, "<html>bad gateway</html>")
	client := NewRestClient(server.URL, nil, nil)

	_, err := client.Do(context.Background(), http.MethodGet, "/v2/evm/swaps/price", "", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.CorrelationID, "falls back to the request id")
}

func TestDoAttachesBearerToken(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{}`)

	secret, _ := generateTestKeyPEM(t)
	auth, err := NewAuthKey("test-key-id", secret)
	require.NoError(t, err)

	client := NewRestClient(server.URL, auth, nil)

	_, err = client.Do(context.Background(), http.MethodGet, "/v2/evm/swaps/price", "", nil)
	require.NoError(t, err)

	authz := captured.Header.Get("Authorization")
	assert.Contains(t, authz, "Bearer ")
}
