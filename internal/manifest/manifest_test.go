package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellate-proxy/splitcache/internal/manifest"
)

func u64(v uint64) *uint64 { return &v }

func TestTypeMaxAge(t *testing.T) {
	m, err := manifest.Parse([]byte(`{
		"cacheConfig": {
			"Query": { "cacheControl": { "maxAge": 60 } }
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, u64(60), m.TypeMaxAge("Query"))
	assert.Nil(t, m.TypeMaxAge("Unknown"))
}

func TestFieldMaxAge(t *testing.T) {
	m, err := manifest.Parse([]byte(`{
		"cacheConfig": {
			"Query": {
				"cacheControl": { "maxAge": 60 },
				"fields": {
					"highMaxAge": { "cacheControl": { "maxAge": 200 } }
				}
			}
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, u64(200), m.FieldMaxAge("Query", "highMaxAge"))
	assert.Nil(t, m.FieldMaxAge("Query", "lowMaxAge"))
	assert.Nil(t, m.FieldMaxAge("Unknown", "highMaxAge"))
}

func TestKeyFieldNamesFallsBackToDefault(t *testing.T) {
	m, err := manifest.Parse([]byte(`{ "cacheConfig": { "Todo": { "keyFields": { "id": true } } } }`))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"id"}, m.KeyFieldNames("Todo"))
	assert.ElementsMatch(t, manifest.DefaultKeyFieldNames, m.KeyFieldNames("Author"))
}

func TestParseAppliesDefaultKeyFieldsWhenAbsent(t *testing.T) {
	m, err := manifest.Parse([]byte(`{}`))
	require.NoError(t, err)

	assert.ElementsMatch(t, manifest.DefaultKeyFieldNames, m.DefaultKeyFields.Keys())
}
