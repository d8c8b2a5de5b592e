package keystore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/cavage/httpsig"
)

// The store must satisfy the authenticator's resolver contract.
var _ httpsig.Resolver = (*Store)(nil)

func TestStoreWithAuthenticator(t *testing.T) {
	store, err := Parse([]byte(storeYAML))
	require.NoError(t, err)

	auth, err := httpsig.NewAuthenticator(httpsig.Config{Resolver: store})
	require.NoError(t, err)

	sign := func(req *http.Request, keyID, secret string) {
		base := fmt.Sprintf("(request-target): get %s\ndate: %s",
			req.URL.RequestURI(), req.Header.Get("Date"))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(base))
		signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		req.Header.Set("Authorization", fmt.Sprintf(
			"Signature keyId=%q,algorithm=%q,headers=%q,signature=%q",
			keyID, "hmac-sha256", "(request-target) date", signature))
	}

	t.Run("stored credential authenticates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://localhost:8000/packages/measures/", nil)
		req.Header.Set("Date", "Mon, 17 Feb 2014 06:11:05 GMT")
		sign(req, "some-key", "my secret string")

		identity, err := auth.Authenticate(req)
		require.NoError(t, err)
		require.NotNil(t, identity)
		assert.Equal(t, "alice", identity.Principal)
		assert.Equal(t, "some-key", identity.KeyID)
	})

	t.Run("disabled credential rejects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://localhost:8000/packages/measures/", nil)
		req.Header.Set("Date", "Mon, 17 Feb 2014 06:11:05 GMT")
		sign(req, "retired-key", "retired secret")

		identity, err := auth.Authenticate(req)
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, httpsig.ErrInvalidSignature)
	})

	t.Run("stored user can be impersonated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://localhost:8000/packages/measures/", nil)
		req.Header.Set("Date", "Mon, 17 Feb 2014 06:11:05 GMT")
		req.Header.Set("On-Behalf-Of", "bob")
		sign(req, "some-key", "my secret string")

		identity, err := auth.Authenticate(req)
		require.NoError(t, err)
		require.NotNil(t, identity)

		user, ok := identity.Principal.(User)
		require.True(t, ok)
		assert.Equal(t, "bob", user.ID)
		assert.Empty(t, identity.KeyID)
	})
}
