package urlkey

import (
	"errors"
	"strings"
	"testing"
)

// TestKey_Determinism verifies two URLs naming the same logical resource
// collide to the same key.
func TestKey_Determinism(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name string
		a    string
		b    string
	}{
		{
			"query parameter order",
			"https://example.com/page?b=2&a=1",
			"https://example.com/page?a=1&b=2",
		},
		{
			"tracking parameters stripped",
			"https://example.com/page?a=1&utm_source=mail&gclid=xyz",
			"https://example.com/page?a=1",
		},
		{
			"tracking parameters case-insensitive",
			"https://example.com/page?a=1&UTM_Campaign=spring&FBCLID=abc",
			"https://example.com/page?a=1",
		},
		{
			"host case",
			"https://EXAMPLE.com/page",
			"https://example.com/page",
		},
		{
			"scheme case",
			"HTTPS://example.com/page",
			"https://example.com/page",
		},
		{
			"slash runs collapsed",
			"https://example.com//deep///page",
			"https://example.com/deep/page",
		},
		{
			"empty path normalized to root",
			"https://example.com",
			"https://example.com/",
		},
		{
			"hubspot and mailchimp noise",
			"https://example.com/?_hsenc=x&mc_cid=y&sc_channel=z",
			"https://example.com/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyA, err := b.Key("pagespeed", 1, "", tt.a)
			if err != nil {
				t.Fatalf("Key(%q): %v", tt.a, err)
			}
			keyB, err := b.Key("pagespeed", 1, "", tt.b)
			if err != nil {
				t.Fatalf("Key(%q): %v", tt.b, err)
			}
			if keyA != keyB {
				t.Errorf("keys differ:\n  %q -> %q\n  %q -> %q", tt.a, keyA, tt.b, keyB)
			}
		})
	}
}

// TestKey_DistinctResources verifies distinct resources never collide.
func TestKey_DistinctResources(t *testing.T) {
	b := NewBuilder()

	pairs := []struct {
		name string
		a    string
		b    string
	}{
		{"different path", "https://example.com/a", "https://example.com/b"},
		{"different host", "https://a.example.com/", "https://b.example.com/"},
		{"different query value", "https://example.com/?q=1", "https://example.com/?q=2"},
		{"identifying parameter present vs absent", "https://example.com/?q=1", "https://example.com/"},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			keyA, err := b.Key("pagespeed", 1, "", tt.a)
			if err != nil {
				t.Fatal(err)
			}
			keyB, err := b.Key("pagespeed", 1, "", tt.b)
			if err != nil {
				t.Fatal(err)
			}
			if keyA == keyB {
				t.Errorf("distinct resources collided: %q and %q -> %q", tt.a, tt.b, keyA)
			}
		})
	}
}

// TestKey_Format verifies the composed key layout.
func TestKey_Format(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name     string
		kind     string
		version  int
		strategy string
		url      string
		want     string
	}{
		{
			"plain",
			"pagespeed", 1, "",
			"https://example.com/page?a=1",
			"pagespeed:v1:https://example.com/page?a=1",
		},
		{
			"with strategy",
			"pagespeed", 2, "mobile",
			"https://example.com/",
			"pagespeed:v2:mobile:https://example.com/",
		},
		{
			"zero version defaults to 1",
			"linkanalyzer", 0, "",
			"https://example.com/",
			"linkanalyzer:v1:https://example.com/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Key(tt.kind, tt.version, tt.strategy, tt.url)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Key = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestKey_Invalid covers rejection of unusable inputs.
func TestKey_Invalid(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name    string
		kind    string
		url     string
		wantErr error
	}{
		{"missing kind", "", "https://example.com/", ErrInvalidKey},
		{"relative url", "pagespeed", "/just/a/path", ErrInvalidURL},
		{"empty url", "pagespeed", "", ErrInvalidURL},
		{"garbage url", "pagespeed", "http://exa mple.com/%zz", ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Key(tt.kind, 1, "", tt.url)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Key error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestNormalize_Query verifies value ordering and encoding within the
// normalized query.
func TestNormalize_Query(t *testing.T) {
	n, err := Normalize("https://example.com/search?z=last&a=first&a=second&name=a b")
	if err != nil {
		t.Fatal(err)
	}
	want := "a=first&a=second&name=a+b&z=last"
	if n.Query != want {
		t.Errorf("Query = %q, want %q", n.Query, want)
	}
}

// TestValidateKey covers the key validity rules.
func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"valid", "pagespeed:v1:https://example.com/", nil},
		{"empty", "", ErrInvalidKey},
		{"whitespace only", "   ", ErrInvalidKey},
		{"newline", "k\ney", ErrInvalidKey},
		{"carriage return", "k\rey", ErrInvalidKey},
		{"too long", strings.Repeat("x", MaxKeyLength+1), ErrKeyTooLong},
		{"max length exactly", strings.Repeat("x", MaxKeyLength), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateKey(%q) = %v, want nil", tt.key, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, err, tt.wantErr)
			}
		})
	}
}
