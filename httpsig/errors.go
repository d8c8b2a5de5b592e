package httpsig

import "errors"

// Verdict errors. Both values are allocated once at package init and
// returned by reference on every failure. Reusing one identical value for
// every verification failure keeps the response free of anything an
// attacker could use to probe for valid key identifiers, and avoids
// allocating an error per request under attack traffic.
var (
	// ErrInvalidSignature is returned for every verification failure:
	// missing or malformed signature parameters, unknown credentials,
	// signature mismatch, or an expired request. The message is the only
	// detail a client ever sees. Never wrap or annotate it.
	ErrInvalidSignature = errors.New("Invalid signature.")

	// ErrOnBehalfOfNotFound is returned when the On-Behalf-Of lookup
	// fails. It carries a distinct message because it is only reachable
	// after the request has already proven possession of a valid
	// signing credential.
	ErrOnBehalfOfNotFound = errors.New("On behalf of user was not found.")
)

// Configuration errors.
var (
	// ErrNoResolver is returned when Config has no Resolver set.
	ErrNoResolver = errors.New("httpsig: resolver must not be nil")

	// ErrInvalidHeaderName is returned when Config.RequiredHeaders
	// contains a name that is neither a parenthesized pseudo-header nor
	// a valid HTTP header field name.
	ErrInvalidHeaderName = errors.New("httpsig: invalid required header name")
)

// Verification primitive errors. These never reach callers of
// Authenticate; the orchestrator folds them into ErrInvalidSignature.
var (
	// ErrUnsupportedAlgorithm is returned when the declared algorithm is
	// not in the draft-cavage registry subset this package implements.
	ErrUnsupportedAlgorithm = errors.New("httpsig: unsupported signature algorithm")

	// ErrInvalidKey is returned when key material cannot be parsed or
	// does not match the declared algorithm.
	ErrInvalidKey = errors.New("httpsig: invalid key material")

	// ErrSignatureMismatch is returned when the signature does not match
	// the reconstructed signing string.
	ErrSignatureMismatch = errors.New("httpsig: signature mismatch")

	// ErrMissingHeader is returned when a declared signed header is not
	// present on the request.
	ErrMissingHeader = errors.New("httpsig: signed header not present")
)
