// Command splitproxy runs the cache-aware GraphQL query splitting edge
// proxy: it accepts a client query, cuts it into one document per
// cache-age bucket using the configured manifest, forwards each bucket to
// the origin, and merges the responses back into one envelope.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/stellate-proxy/splitcache/internal/cacheconfig"
	"github.com/stellate-proxy/splitcache/internal/logging"
	"github.com/stellate-proxy/splitcache/internal/proxy"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	originURL := flag.String("origin", "", "origin GraphQL endpoint to forward split requests to")
	flag.Parse()

	logger := logging.New()

	if *originURL == "" {
		logger.Error("missing required -origin flag")
		os.Exit(1)
	}

	sch, err := cacheconfig.DefaultSchema()
	if err != nil {
		logger.Error("failed to build default schema", "error", err)
		os.Exit(1)
	}

	man, err := cacheconfig.DefaultManifest()
	if err != nil {
		logger.Error("failed to parse default manifest", "error", err)
		os.Exit(1)
	}

	handler := proxy.NewHandler(sch, man, proxy.NewOriginClient(*originURL))
	handler.Logger = logger

	http.Handle("/graphql", handler)

	logger.Info("listening", "addr", *addr, "origin", *originURL)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
