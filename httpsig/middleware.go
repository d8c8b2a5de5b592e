package httpsig

import (
	"context"
	"net/http"
)

// MiddlewareFunc wraps an http.Handler. It matches the middleware shape
// used by kasper/mux and gorilla/mux, so the returned value can be passed
// straight to their Use methods.
type MiddlewareFunc func(http.Handler) http.Handler

type identityKey struct{}

// IdentityFromContext returns the Identity stored in the context by
// Middleware. Returns nil when the request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return identity
	}

	return nil
}

// MiddlewareConfig configures the server-side verification middleware.
type MiddlewareConfig struct {
	// Config configures the underlying Authenticator.
	Config Config

	// AllowAnonymous, when true, passes requests that carry no
	// Signature credential through to the next handler without an
	// Identity in the context. When false, such requests are rejected
	// with a challenge like any failed verification.
	AllowAnonymous bool

	// OnError is called when verification fails. When nil, a 401
	// Unauthorized response with a WWW-Authenticate challenge and the
	// error message is sent.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware returns a MiddlewareFunc that verifies HTTP Signature
// credentials on incoming requests. Authenticated requests proceed with
// the Identity stored in the request context.
//
// It returns the Config validation errors of NewAuthenticator.
func Middleware(cfg MiddlewareConfig) (MiddlewareFunc, error) {
	auth, err := NewAuthenticator(cfg.Config)
	if err != nil {
		return nil, err
	}

	onError := cfg.OnError
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("WWW-Authenticate", auth.Challenge())
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}

	allowAnonymous := cfg.AllowAnonymous

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := auth.Authenticate(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			if identity == nil {
				if allowAnonymous {
					next.ServeHTTP(w, r)
					return
				}

				onError(w, r, ErrInvalidSignature)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}
