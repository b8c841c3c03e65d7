package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"leading and trailing", "  Tel Aviv  ", "Tel Aviv"},
		{"internal runs", "Tel\t\tAviv   North", "Tel Aviv North"},
		{"newlines", "Tel\nAviv", "Tel Aviv"},
		{"already clean", "Tel Aviv", "Tel Aviv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeSearchTerm(t *testing.T) {
	if got := NormalizeSearchTerm("  Toyota  COROLLA "); got != "toyota corolla" {
		t.Errorf("NormalizeSearchTerm = %q, want %q", got, "toyota corolla")
	}
}
