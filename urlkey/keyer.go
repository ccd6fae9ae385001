// Package urlkey builds deterministic cache keys from URLs.
//
// Keys are a pure function of the logical resource identity: two URLs that
// differ only in query-parameter order or in tracking parameters collide to
// the same key, while distinct resources never share one.
package urlkey

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for key construction.
var (
	ErrInvalidURL = errors.New("urlkey: url is invalid")
	ErrInvalidKey = errors.New("urlkey: key is invalid")
	ErrKeyTooLong = errors.New("urlkey: key exceeds max length")
)

// trackingParam matches query parameters that carry campaign or click
// tracking noise rather than resource identity.
var trackingParam = regexp.MustCompile(`(?i)^(utm_|gclid|fbclid|yclid|_hs|mc_|sc_)`)

// collapseSlashes folds runs of slashes in a path into one.
var collapseSlashes = regexp.MustCompile(`/+`)

// Keyer generates deterministic cache keys from raw URLs.
//
// Contract:
// - Determinism: same logical resource must produce the same key,
//   regardless of parameter order or tracking parameters.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key builds a cache key for the given kind, policy version, optional
	// strategy discriminator (e.g. "mobile"), and raw URL.
	Key(kind string, version int, strategy, rawURL string) (string, error)
}

// Normalized is the canonical decomposition of a URL.
type Normalized struct {
	// Origin is the lowercased scheme and host, e.g. "https://example.com".
	Origin string

	// Path is the URL path with slash runs collapsed; never empty.
	Path string

	// Query is the sorted, tracking-stripped, percent-encoded query string
	// without a leading "?". Empty when no identifying parameters remain.
	Query string
}

// Normalize parses and canonicalizes a raw URL.
func Normalize(raw string) (Normalized, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Normalized{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Normalized{}, fmt.Errorf("%w: missing scheme or host: %q", ErrInvalidURL, raw)
	}

	path := collapseSlashes.ReplaceAllString(u.EscapedPath(), "/")
	if path == "" {
		path = "/"
	}

	return Normalized{
		Origin: strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host),
		Path:   path,
		Query:  normalizeQuery(u.Query()),
	}, nil
}

// normalizeQuery drops tracking parameters, sorts the remainder
// lexicographically by key, and re-encodes the pairs.
func normalizeQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if trackingParam.MatchString(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// String renders the normalized resource identity.
func (n Normalized) String() string {
	if n.Query == "" {
		return n.Origin + n.Path
	}
	return n.Origin + n.Path + "?" + n.Query
}

// Builder is the default Keyer.
type Builder struct{}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Key builds a deterministic cache key.
// Format: <kind>:v<version>:[<strategy>:]<origin><path>?<query>
func (b *Builder) Key(kind string, version int, strategy, rawURL string) (string, error) {
	if kind == "" {
		return "", fmt.Errorf("%w: kind is required", ErrInvalidKey)
	}
	if version <= 0 {
		version = 1
	}

	n, err := Normalize(rawURL)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(kind)
	sb.WriteString(":v")
	fmt.Fprintf(&sb, "%d", version)
	sb.WriteByte(':')
	if strategy != "" {
		sb.WriteString(strategy)
		sb.WriteByte(':')
	}
	sb.WriteString(n.String())

	key := sb.String()
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// Ensure Builder implements Keyer.
var _ Keyer = (*Builder)(nil)
