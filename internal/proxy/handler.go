// Package proxy is the HTTP edge: it accepts a GraphQL-over-HTTP POST,
// runs it through the split pipeline, fans the resulting per-age-bucket
// documents out to the origin concurrently, and merges the origin
// responses back into one envelope before replying.
package proxy

import (
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/stellate-proxy/splitcache/internal/arena"
	"github.com/stellate-proxy/splitcache/internal/logging"
	"github.com/stellate-proxy/splitcache/internal/manifest"
	"github.com/stellate-proxy/splitcache/internal/printer"
	"github.com/stellate-proxy/splitcache/internal/respmerge"
	"github.com/stellate-proxy/splitcache/internal/schema"
	"github.com/stellate-proxy/splitcache/internal/split"
)

// ManifestHeader is the request header carrying a per-request
// cache-policy manifest override; absent or unparseable, the Handler
// falls back to its configured default.
const ManifestHeader = "stellate-manifest"

// Handler serves the split/merge pipeline over HTTP. Schema is fixed at
// construction (the origin's schema never varies per-request, unlike its
// cache manifest); DefaultManifest is used when a request carries no
// stellate-manifest header, or one that fails to parse.
type Handler struct {
	Schema          *schema.Schema
	DefaultManifest *manifest.Manifest
	Origin          *OriginClient
	Logger          logging.Logger
}

// NewHandler builds a Handler with logging.Nop; set Logger afterward to
// observe request diagnostics.
func NewHandler(sch *schema.Schema, defaultManifest *manifest.Manifest, origin *OriginClient) *Handler {
	return &Handler{Schema: sch, DefaultManifest: defaultManifest, Origin: origin, Logger: logging.Nop}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeCORSPreflight(w)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	a := arena.New()
	input, err := ParseInput(a, body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	man := h.resolveManifest(r.Header.Get(ManifestHeader))

	results, err := split.Split(input.Document, h.Schema, man, input.OperationName)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	type bucketResult struct {
		query  string
		body   []byte
		status int
		header http.Header
	}
	buckets := make([]bucketResult, len(results))

	g, gctx := errgroup.WithContext(r.Context())
	for i, result := range results {
		i, result := i, result
		g.Go(func() error {
			reqBody, err := input.Body(result.Document)
			if err != nil {
				return err
			}
			data, status, hdr, err := h.Origin.Send(gctx, r.Header, reqBody)
			if err != nil {
				return err
			}
			buckets[i] = bucketResult{query: printer.Print(result.Document), body: data, status: status, header: hdr}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.writeError(w, http.StatusBadGateway, err)
		return
	}

	status := http.StatusOK
	headers := http.Header{}
	parts := make([]respmerge.PartialQuery, len(buckets))
	for i, b := range buckets {
		parts[i] = respmerge.PartialQuery{Query: b.query, Response: b.body}
		if b.status > status {
			status = b.status
		}
		for key, values := range b.header {
			for _, v := range values {
				headers.Add(key, v)
			}
		}
	}

	merged, err := respmerge.Merge(input.Document, input.OperationName, parts)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	for key, values := range headers {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.Header().Set("gcdn-cache", "PASS")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(merged)
}

func (h *Handler) resolveManifest(header string) *manifest.Manifest {
	if header == "" {
		return h.DefaultManifest
	}
	m, err := manifest.Parse([]byte(header))
	if err != nil {
		h.Logger.Warn("failed to parse stellate-manifest header, using default", "error", err)
		return h.DefaultManifest
	}
	return m
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.Logger.Error("request failed", "error", err)
	body, marshalErr := json.Marshal(map[string]interface{}{
		"errors": []map[string]string{{"message": err.Error()}},
	})
	if marshalErr != nil {
		body = []byte(`{"errors":[{"message":"internal error"}]}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeCORSPreflight(w http.ResponseWriter) {
	h := w.Header()
	h.Set("access-control-allow-credentials", "true")
	h.Set("access-control-allow-headers", "*")
	h.Set("access-control-allow-methods", "GET, POST, OPTIONS")
	h.Set("access-control-allow-origin", "*")
	h.Set("access-control-expose-headers", "*")
	h.Set("access-control-max-age", "3600")
	w.WriteHeader(http.StatusNoContent)
}
