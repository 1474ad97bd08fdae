// Package manifest models the cache-policy document that drives the query
// splitter: per-type and per-field max-age/stale-while-revalidate settings,
// the key fields used to re-align split-off partials, and the auth scopes
// a field's cache entry can be keyed by.
package manifest

import "encoding/json"

// DefaultKeyFieldNames is used whenever a type has no explicit KeyFields
// entry of its own.
var DefaultKeyFieldNames = []string{"id", "_id", "key"}

// Manifest is the top-level cache-policy document, keyed by GraphQL type
// name. It is parsed fresh from the "stellate-manifest" request header (or
// falls back to the embedded default) on every request.
type Manifest struct {
	CacheConfig      map[string]CacheConfigType `json:"cacheConfig"`
	Scopes           map[string]ConfigScope     `json:"scopes"`
	DefaultKeyFields CacheKeyFields             `json:"defaultKeyFields"`
}

// CacheConfigType is one type's cache policy: its own cache control, the
// key fields used to address its instances, and any per-field overrides.
type CacheConfigType struct {
	CacheControl *CacheControl              `json:"cacheControl"`
	KeyFields    *CacheKeyFields            `json:"keyFields"`
	Fields       map[string]CacheConfigField `json:"fields"`
}

// CacheConfigField is one field's cache control override within a type.
type CacheConfigField struct {
	CacheControl *CacheControl `json:"cacheControl"`
}

// CacheControl is a max-age/swr/scope triple. MaxAge is the value the
// query splitter buckets selections by.
type CacheControl struct {
	MaxAge *uint64 `json:"maxAge"`
	SWR    *uint64 `json:"swr"`
	Scope  *string `json:"scope"`
}

// CacheKeyFields is the set of field names that uniquely address an
// instance of a type, used to re-request the instance in every age bucket
// a split produces.
type CacheKeyFields map[string]bool

// UnmarshalJSON accepts either an object of field-name -> bool (the wire
// format) or is left as the zero value when absent, in which case Keys
// falls back to DefaultKeyFieldNames.
func (k *CacheKeyFields) UnmarshalJSON(data []byte) error {
	m := make(map[string]bool)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*k = m
	return nil
}

// Keys returns the field names in k, or DefaultKeyFieldNames if k is empty.
func (k CacheKeyFields) Keys() []string {
	if len(k) == 0 {
		return DefaultKeyFieldNames
	}
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	return names
}

// ConfigScope names the headers/cookies/JWT claim a scoped cache entry
// varies by.
type ConfigScope struct {
	Header []string      `json:"header"`
	Cookie []string      `json:"cookie"`
	JWT    *JwtDefinition `json:"jwt"`
}

// JwtDefinition names the claim, algorithm, and secret used to validate
// and key a JWT-scoped cache entry.
type JwtDefinition struct {
	Claim     string       `json:"claim"`
	Algorithm JwtAlgorithm `json:"algorithm"`
	Secret    string       `json:"secret"`
}

// JwtAlgorithm is one of the JWT signing algorithms a scope may require.
type JwtAlgorithm string

const (
	HS256  JwtAlgorithm = "HS256"
	HS384  JwtAlgorithm = "HS384"
	HS512  JwtAlgorithm = "HS512"
	RS256  JwtAlgorithm = "RS256"
	RS384  JwtAlgorithm = "RS384"
	RS512  JwtAlgorithm = "RS512"
	ES256  JwtAlgorithm = "ES256"
	ES384  JwtAlgorithm = "ES384"
	ES256K JwtAlgorithm = "ES256k"
	EdDSA  JwtAlgorithm = "EdDSA"
	PS256  JwtAlgorithm = "PS256"
	PS384  JwtAlgorithm = "PS384"
	PS512  JwtAlgorithm = "PS512"
)

// Parse decodes a Manifest from its JSON wire format, applying the default
// key-field set when DefaultKeyFields is absent.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	if len(m.DefaultKeyFields) == 0 {
		kf := make(CacheKeyFields, len(DefaultKeyFieldNames))
		for _, name := range DefaultKeyFieldNames {
			kf[name] = true
		}
		m.DefaultKeyFields = kf
	}
	return m, nil
}

// TypeMaxAge returns the max-age configured directly on typeName, if any.
func (m *Manifest) TypeMaxAge(typeName string) *uint64 {
	tc, ok := m.CacheConfig[typeName]
	if !ok || tc.CacheControl == nil {
		return nil
	}
	return tc.CacheControl.MaxAge
}

// FieldMaxAge returns the max-age configured on typeName.fieldName, if any.
func (m *Manifest) FieldMaxAge(typeName, fieldName string) *uint64 {
	tc, ok := m.CacheConfig[typeName]
	if !ok {
		return nil
	}
	fc, ok := tc.Fields[fieldName]
	if !ok || fc.CacheControl == nil {
		return nil
	}
	return fc.CacheControl.MaxAge
}

// KeyFieldNames returns the key-field set configured for typeName, falling
// back to m's DefaultKeyFields when typeName has none of its own.
func (m *Manifest) KeyFieldNames(typeName string) []string {
	tc, ok := m.CacheConfig[typeName]
	if ok && tc.KeyFields != nil {
		return tc.KeyFields.Keys()
	}
	return m.DefaultKeyFields.Keys()
}
