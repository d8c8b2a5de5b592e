package httpsig

import (
	"strings"
)

// params is an ordered mapping of signature parameter names to raw string
// values. Names are case-folded to lowercase on insertion; insertion order
// is preserved because the declared header list is order-sensitive.
type params struct {
	keys   []string
	values map[string]string
}

func newParams() *params {
	return &params{values: make(map[string]string)}
}

func (p *params) set(key, value string) {
	key = strings.ToLower(key)
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}

	p.values[key] = value
}

func (p *params) get(key string) (string, bool) {
	v, ok := p.values[strings.ToLower(key)]
	return v, ok
}

func (p *params) len() int {
	return len(p.keys)
}

// parseAuthorization splits an Authorization header value into its scheme
// token and parsed signature parameters.
//
// The value is split on the first whitespace run. The remainder, when
// non-empty, is parsed as a comma-separated list of key=value or
// key="value" pairs. Values may contain backslash-escaped quotes.
// Malformed pair syntax (missing '=', unterminated quote) yields an empty
// parameter map rather than an error; field policy rejects that case.
func parseAuthorization(value string) (string, *params) {
	value = strings.TrimSpace(value)

	scheme := value
	rest := ""

	if idx := strings.IndexAny(value, " \t"); idx >= 0 {
		scheme = value[:idx]
		rest = strings.TrimLeft(value[idx:], " \t")
	}

	fields := newParams()
	if rest == "" {
		return scheme, fields
	}

	pairs, ok := splitQuoteAware(rest, ',')
	if !ok {
		return scheme, newParams()
	}

	for _, pair := range pairs {
		key, raw, found := strings.Cut(pair, "=")
		if !found {
			return scheme, newParams()
		}

		key = strings.TrimSpace(key)
		raw = strings.TrimSpace(raw)

		if key == "" {
			return scheme, newParams()
		}

		fields.set(key, unquote(raw))
	}

	return scheme, fields
}

// splitQuoteAware splits s on delim while respecting "..." quoted regions.
// Backslash-escaped quotes (\") inside quoted strings are handled. Each
// resulting part is trimmed of whitespace and empty parts are skipped.
// Returns false when a quoted region is left unterminated.
func splitQuoteAware(s string, delim byte) ([]string, bool) {
	var result []string
	var part strings.Builder
	inQuote := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inQuote {
			if ch == '\\' && i+1 < len(s) {
				part.WriteByte(ch)
				i++
				part.WriteByte(s[i])
				continue
			}

			if ch == '"' {
				inQuote = false
			}

			part.WriteByte(ch)
			continue
		}

		if ch == '"' {
			inQuote = true
			part.WriteByte(ch)
			continue
		}

		if ch == delim {
			p := strings.TrimSpace(part.String())
			if p != "" {
				result = append(result, p)
			}

			part.Reset()
			continue
		}

		part.WriteByte(ch)
	}

	if inQuote {
		return nil, false
	}

	if p := strings.TrimSpace(part.String()); p != "" {
		result = append(result, p)
	}

	return result, true
}

// unquote removes surrounding double quotes and unescapes backslash
// sequences (\\ to \ and \" to ") inside the quoted value. Unquoted
// values are returned as-is.
func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}

	s = s[1 : len(s)-1]

	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			b.WriteByte(s[i])

			continue
		}

		b.WriteByte(s[i])
	}

	return b.String()
}
