package httpsig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAuthorization(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantScheme string
		wantFields map[string]string
	}{
		{
			name:       "scheme only",
			value:      "Signature",
			wantScheme: "Signature",
			wantFields: map[string]string{},
		},
		{
			name:       "single quoted parameter",
			value:      `Signature keyId="some-key"`,
			wantScheme: "Signature",
			wantFields: map[string]string{"keyid": "some-key"},
		},
		{
			name:       "full parameter set",
			value:      `Signature keyId="some-key",algorithm="hmac-sha256",signature="dGVzdA=="`,
			wantScheme: "Signature",
			wantFields: map[string]string{
				"keyid":     "some-key",
				"algorithm": "hmac-sha256",
				"signature": "dGVzdA==",
			},
		},
		{
			name:       "keys are case folded",
			value:      `Signature KeyId="k",Algorithm="a",SIGNATURE="s"`,
			wantScheme: "Signature",
			wantFields: map[string]string{"keyid": "k", "algorithm": "a", "signature": "s"},
		},
		{
			name:       "unquoted values",
			value:      `Signature keyId=some-key,algorithm=hmac-sha256`,
			wantScheme: "Signature",
			wantFields: map[string]string{"keyid": "some-key", "algorithm": "hmac-sha256"},
		},
		{
			name:       "escaped quotes inside value",
			value:      `Signature keyId="quo\"ted",algorithm="hmac-sha256"`,
			wantScheme: "Signature",
			wantFields: map[string]string{"keyid": `quo"ted`, "algorithm": "hmac-sha256"},
		},
		{
			name:       "escaped backslash inside value",
			value:      `Signature keyId="back\\slash"`,
			wantScheme: "Signature",
			wantFields: map[string]string{"keyid": `back\slash`},
		},
		{
			name:       "comma inside quoted value",
			value:      `Signature keyId="a,b",algorithm="hmac-sha256"`,
			wantScheme: "Signature",
			wantFields: map[string]string{"keyid": "a,b", "algorithm": "hmac-sha256"},
		},
		{
			name:       "whitespace around pairs",
			value:      `Signature keyId="k" , algorithm="a"`,
			wantScheme: "Signature",
			wantFields: map[string]string{"keyid": "k", "algorithm": "a"},
		},
		{
			name:       "headers parameter with spaces",
			value:      `Signature keyId="k",headers="(request-target) date host"`,
			wantScheme: "Signature",
			wantFields: map[string]string{"keyid": "k", "headers": "(request-target) date host"},
		},
		{
			name:       "foreign scheme",
			value:      "Bearer abc123",
			wantScheme: "Bearer",
			wantFields: map[string]string{},
		},
		{
			name:       "tab separates scheme from parameters",
			value:      "Signature\tkeyId=\"k\"",
			wantScheme: "Signature",
			wantFields: map[string]string{"keyid": "k"},
		},
		{
			name:       "unterminated quote yields empty map",
			value:      `Signature keyId="some-key`,
			wantScheme: "Signature",
			wantFields: map[string]string{},
		},
		{
			name:       "pair without equals yields empty map",
			value:      `Signature keyId="k",garbage`,
			wantScheme: "Signature",
			wantFields: map[string]string{},
		},
		{
			name:       "empty key yields empty map",
			value:      `Signature ="value"`,
			wantScheme: "Signature",
			wantFields: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheme, fields := parseAuthorization(tt.value)
			assert.Equal(t, tt.wantScheme, scheme)
			assert.Equal(t, len(tt.wantFields), fields.len())

			for key, want := range tt.wantFields {
				got, ok := fields.get(key)
				assert.True(t, ok, "missing field %q", key)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestParamsOrdering(t *testing.T) {
	_, fields := parseAuthorization(`Signature c="3",a="1",b="2"`)
	assert.Equal(t, []string{"c", "a", "b"}, fields.keys)
}

func TestParamsLookupIsCaseInsensitive(t *testing.T) {
	p := newParams()
	p.set("KeyId", "some-key")

	got, ok := p.get("KEYID")
	assert.True(t, ok)
	assert.Equal(t, "some-key", got)
}

func TestParamsDuplicateKeyKeepsLastValue(t *testing.T) {
	_, fields := parseAuthorization(`Signature keyId="first",keyid="second"`)
	assert.Equal(t, 1, fields.len())

	got, _ := fields.get("keyid")
	assert.Equal(t, "second", got)
}
