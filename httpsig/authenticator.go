package httpsig

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

// Scheme is the Authorization scheme token this package handles.
const Scheme = "Signature"

// onBehalfOfHeader names the impersonation request header.
const onBehalfOfHeader = "On-Behalf-Of"

// Mandatory signature parameters. A Signature credential missing any of
// these is rejected.
var requiredFields = []string{"keyid", "algorithm", "signature"}

// defaultRequiredHeaders is the required header list used when
// Config.RequiredHeaders is empty. It doubles as the default signed
// header list when a request omits the headers parameter.
var defaultRequiredHeaders = []string{headerRequestTarget, "date"}

// defaultRealm is the realm advertised in challenges when Config.Realm
// is empty.
const defaultRealm = "api"

// Resolver supplies the application-side lookups an Authenticator needs.
//
// Both arguments to ResolveCredential arrive verbatim from the client and
// must be treated as adversarial; in particular the algorithm hint is
// whatever the client declared, and the implementation decides whether
// to honor it.
type Resolver interface {
	// ResolveCredential returns the principal and secret material for
	// the given key identifier. A nil principal, empty secret, or
	// non-nil error all mean "no such credential"; implementations
	// should not distinguish why.
	//
	// For HMAC algorithms the secret is the shared key. For asymmetric
	// algorithms it is a PEM-encoded public key.
	ResolveCredential(keyID, algorithm string) (principal any, secret []byte, err error)

	// ResolveImpersonation returns the principal named by an
	// On-Behalf-Of header value, or a nil principal when there is none.
	ResolveImpersonation(id string) (principal any, err error)
}

// Identity is the outcome of a successful authentication.
type Identity struct {
	// Principal is the application value returned by the Resolver.
	Principal any

	// KeyID is the key identifier the request was signed with. It is
	// empty when the request was authenticated on behalf of another
	// principal.
	KeyID string
}

// Config configures an Authenticator.
type Config struct {
	// Resolver supplies credential and impersonation lookups. Required.
	Resolver Resolver

	// Realm is advertised in the WWW-Authenticate challenge.
	// Defaults to "api" when empty.
	Realm string

	// RequiredHeaders lists the header names every signature must cover,
	// in canonical-string order. It is also the signed header list
	// assumed when a request omits the headers parameter, and the list
	// advertised in challenges. Defaults to ["(request-target)", "date"]
	// when empty.
	RequiredHeaders []string

	// Now returns the current time for (expires) checks. Defaults to
	// time.Now. Replace it in tests to freeze the clock.
	Now func() time.Time
}

// Authenticator verifies HTTP Signature credentials on incoming requests.
// It is stateless apart from its read-only configuration and safe for
// concurrent use.
type Authenticator struct {
	resolver        Resolver
	requiredHeaders []string
	challenge       string
	now             func() time.Time
}

// NewAuthenticator validates cfg and creates an Authenticator.
//
// It returns ErrNoResolver when cfg.Resolver is nil, and
// ErrInvalidHeaderName when a required header is neither a parenthesized
// pseudo-header nor a valid header field name.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if cfg.Resolver == nil {
		return nil, ErrNoResolver
	}

	realm := cfg.Realm
	if realm == "" {
		realm = defaultRealm
	}

	required := cfg.RequiredHeaders
	if len(required) == 0 {
		required = defaultRequiredHeaders
	}

	headers := make([]string, 0, len(required))
	for _, name := range required {
		name = strings.ToLower(strings.TrimSpace(name))

		if !validSignedHeaderName(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeaderName, name)
		}

		headers = append(headers, name)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Authenticator{
		resolver:        cfg.Resolver,
		requiredHeaders: headers,
		challenge:       fmt.Sprintf("%s realm=%q,headers=%q", Scheme, realm, strings.Join(headers, " ")),
		now:             now,
	}, nil
}

// validSignedHeaderName reports whether name may appear in a signed
// header list: either a parenthesized pseudo-header or a valid HTTP
// header field name.
func validSignedHeaderName(name string) bool {
	if len(name) > 2 && name[0] == '(' && name[len(name)-1] == ')' {
		return true
	}

	return httpguts.ValidHeaderFieldName(name)
}

// Challenge returns the WWW-Authenticate value advertising this
// authenticator's realm and required header list:
//
//	Signature realm="api",headers="(request-target) date"
func (a *Authenticator) Challenge() string {
	return a.challenge
}

// Authenticate verifies the request's Signature credential.
//
// A request with no Authorization header, or with a credential for a
// different scheme, returns (nil, nil) so another authenticator may
// handle it. A Signature credential that fails verification for any
// reason returns (nil, ErrInvalidSignature), except a failed
// On-Behalf-Of lookup, which returns (nil, ErrOnBehalfOfNotFound).
func (a *Authenticator) Authenticate(r *http.Request) (*Identity, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	scheme, fields := parseAuthorization(authHeader)

	// Ignore foreign Authorization schemes.
	if !strings.EqualFold(scheme, Scheme) {
		return nil, nil
	}

	if fields.len() == 0 {
		return nil, ErrInvalidSignature
	}

	for _, name := range requiredFields {
		if _, ok := fields.get(name); !ok {
			return nil, ErrInvalidSignature
		}
	}

	keyID, _ := fields.get("keyid")
	algorithm, _ := fields.get("algorithm")

	principal, secret, err := a.resolver.ResolveCredential(keyID, algorithm)
	if err != nil || principal == nil || len(secret) == 0 {
		return nil, ErrInvalidSignature
	}

	if err := a.verify(r, fields, secret); err != nil {
		return nil, ErrInvalidSignature
	}

	if a.expired(r) {
		return nil, ErrInvalidSignature
	}

	if onBehalfOf := r.Header.Get(onBehalfOfHeader); onBehalfOf != "" {
		impersonated, err := a.resolver.ResolveImpersonation(onBehalfOf)
		if err != nil || impersonated == nil {
			return nil, ErrOnBehalfOfNotFound
		}

		return &Identity{Principal: impersonated}, nil
	}

	return &Identity{Principal: principal, KeyID: keyID}, nil
}

// verify reconstructs the canonical signing string and checks the
// supplied signature against it.
func (a *Authenticator) verify(r *http.Request, fields *params, secret []byte) error {
	signed := a.requiredHeaders
	if declared, ok := fields.get("headers"); ok {
		signed = strings.Fields(strings.ToLower(declared))
	}

	// Every required header must be covered by the signature.
	for _, name := range a.requiredHeaders {
		if !slices.Contains(signed, name) {
			return ErrMissingHeader
		}
	}

	base, err := buildSignatureString(r, signed)
	if err != nil {
		return err
	}

	rawSig, _ := fields.get("signature")

	signature, err := base64.StdEncoding.DecodeString(rawSig)
	if err != nil {
		return fmt.Errorf("%w: invalid base64 in signature", ErrSignatureMismatch)
	}

	algorithm, _ := fields.get("algorithm")

	return verifySignature(Algorithm(algorithm), secret, []byte(base), signature)
}

// expired reports whether the request carries an (expires) value in the
// past. The value is only trusted after signature verification, since a
// signed (expires) is part of the canonical string. Absent or
// non-numeric values mean no expiry.
func (a *Authenticator) expired(r *http.Request) bool {
	raw, err := headerValue(r, headerExpires)
	if err != nil {
		return false
	}

	expires, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return false
	}

	return expires < a.now().Unix()
}
