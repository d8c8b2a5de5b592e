// Package httpsig authenticates HTTP requests signed under the legacy
// HTTP Signatures scheme (draft-cavage-http-signatures), where signature
// parameters travel in the Authorization header:
//
//	Authorization: Signature keyId="some-key",algorithm="hmac-sha256",
//	    headers="(request-target) date",signature="Base64(...)"
//
// The successor scheme, HTTP Message Signatures per RFC 9421, is
// implemented by github.com/vitalvas/kasper/httpsig. This package exists
// for APIs that still speak the draft wire format.
//
// # Verifying Requests
//
// The Authenticator reconstructs the canonical signing string from the
// request and the declared header list, resolves the key identifier
// through an application-supplied Resolver, and checks the signature:
//
//	auth, err := httpsig.NewAuthenticator(httpsig.Config{
//	    Resolver: myResolver,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	identity, err := auth.Authenticate(req)
//
// Authenticate returns a three-way verdict:
//
//   - (nil, nil): the request carried no Signature credential. Another
//     authenticator may handle it.
//   - (nil, err): the request carried a Signature credential that did
//     not verify.
//   - (identity, nil): the request is authenticated as identity.
//
// # Resolvers
//
// Applications implement the Resolver interface to supply key lookups.
// Both arguments to ResolveCredential are attacker-controlled; the
// implementation decides whether to trust the algorithm hint:
//
//	type Resolver interface {
//	    ResolveCredential(keyID, algorithm string) (principal any, secret []byte, err error)
//	    ResolveImpersonation(id string) (principal any, err error)
//	}
//
// The companion keystore package provides a static, YAML-loadable
// Resolver for simple deployments.
//
// # Failure Model
//
// Every verification failure (malformed parameters, unknown key, bad
// signature, expired request) surfaces as the same pre-allocated
// ErrInvalidSignature value. Callers and clients cannot distinguish why
// a request was rejected, so valid key identifiers cannot be enumerated
// through error responses. The single exception is
// ErrOnBehalfOfNotFound, which is only reachable after a signature has
// already verified.
//
// # Signed Headers
//
// The client declares which headers it signed in the headers parameter,
// defaulting to the server's required list when absent. The canonical
// string concatenates "name: value" lines in declared order. Two
// pseudo-headers are recognized: (request-target) resolves to the
// lowercased method and the path with query string, and (expires)
// carries an epoch-seconds expiry that is checked after the signature
// verifies.
//
// # Impersonation
//
// A request carrying an On-Behalf-Of header swaps the authenticated
// principal for the one named by the header, resolved through
// ResolveImpersonation. The returned Identity has an empty KeyID in
// that case.
//
// # Server Middleware
//
// Middleware wraps an http.Handler and rejects requests that fail
// verification with 401 Unauthorized and a WWW-Authenticate challenge.
// It is signature-compatible with kasper/mux and gorilla/mux Use:
//
//	mw, err := httpsig.Middleware(httpsig.MiddlewareConfig{
//	    Config: httpsig.Config{Resolver: myResolver},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router.Use(mw)
//
// Handlers read the authenticated identity from the request context:
//
//	identity := httpsig.IdentityFromContext(r.Context())
package httpsig
