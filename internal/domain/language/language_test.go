package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"grc", "grc-cls"},
		{"grc-cls", "grc-cls"},
		{"la", "lat"},
		{"lat", "lat"},
		{"xx-unknown", "xx-unknown"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
