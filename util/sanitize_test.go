package util

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Alice", "Alice"},
		{"trims", "  Alice  ", "Alice"},
		{"script block", "<script>alert(1)</script>Alice", "Alice"},
		{"script with attributes", `<SCRIPT type="text/javascript">x()</SCRIPT>Bob`, "Bob"},
		{"javascript scheme", "javascript:alert(1)", "alert(1)"},
		{"event handler", `<img onerror=alert(1)>`, "<img alert(1)>"},
		{"mixed case handler", "OnClick=go", "go"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.input); got != tc.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeValue(t *testing.T) {
	if got := SanitizeValue(" x "); got != "x" {
		t.Errorf("SanitizeValue string = %v, want x", got)
	}
	if got := SanitizeValue(42); got != 42 {
		t.Errorf("SanitizeValue int = %v, want 42", got)
	}
	if got := SanitizeValue(nil); got != nil {
		t.Errorf("SanitizeValue nil = %v, want nil", got)
	}
}

func TestContainsMarkup(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Alice", false},
		{"<script", true},
		{"<ScRiPt src=x>", true},
		{"JavaScript:void(0)", true},
		{"onload=x", true},
		{"one two", false},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ContainsMarkup(tc.input); got != tc.want {
				t.Errorf("ContainsMarkup(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestContainsSQLKeyword(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Alice", false},
		{"DROP TABLE users", true},
		{"x union y", true},
		{"Selena", false},
		{"Mr Selecta", true},
		{"Executive", true},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ContainsSQLKeyword(tc.input); got != tc.want {
				t.Errorf("ContainsSQLKeyword(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
