package httpsig

import (
	"fmt"
	"net/http"
	"strings"
)

// Pseudo-header names recognized in signed header lists. Pseudo-headers
// are parenthesized and resolved from request state rather than the wire
// headers, except (expires), which clients send as a literal header.
const (
	headerRequestTarget = "(request-target)"
	headerExpires       = "(expires)"
)

// buildSignatureString constructs the draft-cavage canonical signing
// string for the request: one "name: value" line per entry of headers, in
// the order given by headers, joined with "\n" and no trailing newline.
//
// (request-target) resolves to "<lowercased method> <path?query>". Every
// other name, parenthesized or not, resolves from the request headers
// with case-insensitive lookup; multiple values are joined with ", ".
// A name that resolves to nothing fails the whole string.
func buildSignatureString(r *http.Request, headers []string) (string, error) {
	var base strings.Builder

	for i, name := range headers {
		name = strings.ToLower(name)

		value, err := signedHeaderValue(r, name)
		if err != nil {
			return "", err
		}

		if i > 0 {
			base.WriteByte('\n')
		}

		base.WriteString(name)
		base.WriteString(": ")
		base.WriteString(value)
	}

	return base.String(), nil
}

// signedHeaderValue resolves one signed header name against the request.
func signedHeaderValue(r *http.Request, name string) (string, error) {
	if name == headerRequestTarget {
		return requestTarget(r), nil
	}

	return headerValue(r, name)
}

// requestTarget renders the (request-target) pseudo-header value:
// the lowercased method, a space, and the path with query string.
func requestTarget(r *http.Request) string {
	target := r.URL.RequestURI()
	if target == "" {
		target = "/"
	}

	return strings.ToLower(r.Method) + " " + target
}

// headerValue looks up a request header by name, case-insensitively.
// Multiple values are joined with ", ".
//
// The "host" header is special-cased because net/http stores it in
// Request.Host rather than in the header map. Names that canonicalize
// differently from their stored form (pseudo-headers contain characters
// net/http leaves uncanonicalized) fall back to a scan over the map.
func headerValue(r *http.Request, name string) (string, error) {
	canon := http.CanonicalHeaderKey(name)

	values := r.Header[canon]
	if len(values) == 0 {
		values = headerScan(r.Header, name)
	}

	if len(values) == 0 && strings.EqualFold(name, "host") && r.Host != "" {
		return r.Host, nil
	}

	if len(values) == 0 {
		return "", fmt.Errorf("%w: %q", ErrMissingHeader, name)
	}

	return strings.Join(values, ", "), nil
}

// headerScan finds header values whose stored key differs from the
// canonical form of name, e.g. "(expires)" injected as-is.
func headerScan(h http.Header, name string) []string {
	for key, values := range h {
		if strings.EqualFold(key, name) {
			return values
		}
	}

	return nil
}
