package auth

import (
	"strings"
	"testing"
)

func TestRandomTokenSource_Generate(t *testing.T) {
	source := RandomTokenSource{}

	for range 100 {
		token, err := source.Generate(TokenAlphabet, TokenLength)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(token) != TokenLength {
			t.Fatalf("token %q: got length %d, want %d", token, len(token), TokenLength)
		}
		for _, c := range token {
			if !strings.ContainsRune(TokenAlphabet, c) {
				t.Fatalf("token %q contains %q, not in alphabet", token, c)
			}
		}
	}
}

func TestRandomTokenSource_CustomAlphabet(t *testing.T) {
	source := RandomTokenSource{}

	token, err := source.Generate("ab", 16)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(token) != 16 {
		t.Fatalf("got length %d, want 16", len(token))
	}
	for _, c := range token {
		if c != 'a' && c != 'b' {
			t.Fatalf("token %q contains %q outside the custom alphabet", token, c)
		}
	}
}

func TestValidToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid mixed", "Ab3dE9xZ", true},
		{"valid digits", "12345678", true},
		{"empty", "", false},
		{"too short", "Ab3dE9x", false},
		{"too long", "Ab3dE9xZZ", false},
		{"punctuation", "Ab3dE9x!", false},
		{"space", "Ab3dE 9x", false},
		{"non-ascii", "Ab3dE9xß", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidToken(tt.token, TokenLength); got != tt.want {
				t.Errorf("ValidToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}
