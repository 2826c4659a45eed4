package service

import "testing"

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"example.com", "example.com"},
		{"EXAMPLE.COM", "example.com"},
		{"https://example.com", "example.com"},
		{"http://www.example.com", "example.com"},
		{"https://www.example.com/pricing?utm=x", "example.com"},
		{"example.com:8080", "example.com"},
		{"  example.com/  ", "example.com"},
		{"www.sub.example.com", "sub.example.com"},
	}

	for _, tc := range cases {
		if got := NormalizeDomain(tc.in); got != tc.want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
