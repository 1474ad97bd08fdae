package cacheconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellate-proxy/splitcache/internal/cacheconfig"
)

func TestDefaultSchemaParses(t *testing.T) {
	sch, err := cacheconfig.DefaultSchema()
	require.NoError(t, err)

	assert.Equal(t, "Query", sch.QueryType)
	todo := sch.Type("Todo")
	require.NotNil(t, todo)
	assert.Contains(t, todo.Interfaces, "Node")
}

func TestDefaultManifestParses(t *testing.T) {
	man, err := cacheconfig.DefaultManifest()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"id"}, man.KeyFieldNames("Todo"))
	require.NotNil(t, man.FieldMaxAge("Todo", "authors"))
	assert.Equal(t, uint64(900), *man.FieldMaxAge("Todo", "authors"))
}
