package otp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// secretKey is the query parameter carrying the shared secret.
const secretKey = "secret"

// Param is a single query parameter of a provisioning URI.
type Param struct {
	Key   string
	Value string
}

// URI is a decomposed otpauth provisioning URI. It is immutable once parsed.
type URI struct {
	scheme string
	host   string
	path   string
	secret string
	query  *orderedmap.OrderedMap[string, string]
}

// ParseURI splits raw into scheme, host, path and query parameters.
//
// The scheme keeps its original case. The path is returned still
// percent-encoded. Query parameters keep the order in which they first
// appear; when a key is repeated the last value wins. The secret parameter
// is removed from the query and served by Secret.
func ParseURI(raw string) (*URI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		// url.Error repeats the input, which carries the secret.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedURI, err)
	}

	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: missing scheme", ErrMalformedURI)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrMalformedURI)
	}
	if u.Path == "" {
		return nil, fmt.Errorf("%w: missing path", ErrMalformedURI)
	}

	// url.Parse lowercases the scheme; keep what the caller wrote.
	scheme := u.Scheme
	if len(raw) >= len(scheme) && strings.EqualFold(raw[:len(scheme)], scheme) {
		scheme = raw[:len(scheme)]
	}

	query, err := parseQuery(u.RawQuery)
	if err != nil {
		return nil, err
	}

	secret, _ := query.Get(secretKey)
	query.Delete(secretKey)

	return &URI{
		scheme: scheme,
		host:   u.Host,
		path:   u.EscapedPath(),
		secret: secret,
		query:  query,
	}, nil
}

// parseQuery decodes a raw query string preserving key order.
func parseQuery(raw string) (*orderedmap.OrderedMap[string, string], error) {
	query := orderedmap.New[string, string]()
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid query key %q: %v", ErrMalformedURI, k, err)
		}
		if key == "" {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid value for %q: %v", ErrMalformedURI, key, err)
		}
		query.Set(key, value)
	}
	return query, nil
}

// Scheme returns the uri scheme as written.
func (u *URI) Scheme() string {
	return u.scheme
}

// Host returns the uri host, which names the credential type.
func (u *URI) Host() string {
	return u.host
}

// Path returns the percent-encoded path including the leading slash.
func (u *URI) Path() string {
	return u.path
}

// Query returns the query parameters, without the secret, in order.
func (u *URI) Query() []Param {
	params := make([]Param, 0, u.query.Len())
	for pair := u.query.Oldest(); pair != nil; pair = pair.Next() {
		params = append(params, Param{Key: pair.Key, Value: pair.Value})
	}
	return params
}

// Secret returns the shared secret or ErrMissingSecret when none was given.
func (u *URI) Secret() (string, error) {
	if u.secret == "" {
		return "", ErrMissingSecret
	}
	return u.secret, nil
}
