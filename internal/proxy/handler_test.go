package proxy_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellate-proxy/splitcache/internal/cacheconfig"
	"github.com/stellate-proxy/splitcache/internal/proxy"
)

// fakeOrigin serves a canned response keyed by a substring of the incoming
// query, so a test can give each split bucket a distinct, recognizable
// reply without standing up a real GraphQL server.
func fakeOrigin(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.Unmarshal(body, &req))

		for substr, resp := range responses {
			if strings.Contains(req.Query, substr) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(resp))
				return
			}
		}
		t.Fatalf("no fake response configured for query %q", req.Query)
	}))
}

func newHandler(t *testing.T, origin *httptest.Server) *proxy.Handler {
	t.Helper()
	sch, err := cacheconfig.DefaultSchema()
	require.NoError(t, err)
	man, err := cacheconfig.DefaultManifest()
	require.NoError(t, err)
	return proxy.NewHandler(sch, man, proxy.NewOriginClient(origin.URL))
}

func TestHandlerSplitsAndMergesAcrossBuckets(t *testing.T) {
	origin := fakeOrigin(t, map[string]string{
		"lowMaxAge":  `{"data":{"lowMaxAge":42}}`,
		"highMaxAge": `{"data":{"highMaxAge":7}}`,
	})
	defer origin.Close()

	h := newHandler(t, origin)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(
		`{"query":"{ lowMaxAge highMaxAge }"}`,
	))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PASS", rec.Header().Get("gcdn-cache"))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	data := got["data"].(map[string]interface{})
	assert.Equal(t, float64(42), data["lowMaxAge"])
	assert.Equal(t, float64(7), data["highMaxAge"])
}

func TestHandlerOptionsRequestIsCORSPreflight(t *testing.T) {
	h := newHandler(t, fakeOrigin(t, nil))

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("access-control-allow-origin"))
	assert.Equal(t, "3600", rec.Header().Get("access-control-max-age"))
}

func TestHandlerBadBodyReturnsError(t *testing.T) {
	h := newHandler(t, fakeOrigin(t, nil))

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotNil(t, got["errors"])
}

func TestHandlerManifestHeaderOverride(t *testing.T) {
	origin := fakeOrigin(t, map[string]string{
		"lowMaxAge": `{"data":{"lowMaxAge":1}}`,
	})
	defer origin.Close()

	h := newHandler(t, origin)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(
		`{"query":"{ lowMaxAge }"}`,
	))
	req.Header.Set(proxy.ManifestHeader, `{"cacheConfig":{"Query":{"fields":{"lowMaxAge":{"cacheControl":{"maxAge":1}}}}}}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
