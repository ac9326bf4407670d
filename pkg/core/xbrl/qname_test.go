package xbrl

import "testing"

func TestLocalName(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want string
	}{
		{"qualified", "{http://fasb.org/us-gaap/2023}Assets", "Assets"},
		{"no namespace", "Assets", "Assets"},
		{"empty local", "{http://example.com}", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocalName(tt.tag); got != tt.want {
				t.Errorf("LocalName(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestLocatorToken(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"standard locator", "loc_us-gaap_Assets_0a1b", "Assets"},
		{"arc locator", "loc_us-gaap_CashAndCashEquivalents_12", "CashAndCashEquivalents"},
		{"single underscore", "loc_Assets", "Assets"},
		{"no underscore", "Assets", "Assets"},
		{"trailing underscore", "loc_Assets_", "Assets"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocatorToken(tt.ref); got != tt.want {
				t.Errorf("LocatorToken(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
