// Package cacheconfig carries the default schema introspection document
// and cache-policy manifest the proxy falls back to when a request omits
// the stellate-manifest header override, embedded directly into the
// binary so a deploy never depends on a side-channel config fetch.
package cacheconfig

import (
	_ "embed"

	"github.com/stellate-proxy/splitcache/internal/manifest"
	"github.com/stellate-proxy/splitcache/internal/schema"
)

//go:embed default_schema.json
var defaultSchemaJSON []byte

//go:embed default_manifest.json
var defaultManifestJSON []byte

// DefaultSchema builds the client schema baked into the binary.
func DefaultSchema() (*schema.Schema, error) {
	return schema.BuildClientSchema(defaultSchemaJSON)
}

// DefaultManifest parses the cache-policy manifest baked into the binary.
func DefaultManifest() (*manifest.Manifest, error) {
	return manifest.Parse(defaultManifestJSON)
}
