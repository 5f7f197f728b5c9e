package sanitize

import "testing"

func TestText_StripsHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "leaky kitchen tap", "leaky kitchen tap"},
		{"tags removed", "<b>urgent</b> repair", "urgent repair"},
		{"encoded tags removed", "&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
		{"whitespace trimmed", "  some notes  ", "some notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTextPtr_NilPassesThrough(t *testing.T) {
	if got := TextPtr(nil); got != nil {
		t.Fatalf("expected nil, got %q", *got)
	}

	value := "<i>notes</i>"
	got := TextPtr(&value)
	if got == nil || *got != "notes" {
		t.Fatalf("expected sanitized value, got %v", got)
	}
}

func TestOrEmpty(t *testing.T) {
	// Optional fields bind into NOT NULL columns; nil must become the empty
	// string, never SQL NULL.
	if got := OrEmpty(nil); got != "" {
		t.Fatalf("expected empty string for nil, got %q", got)
	}

	value := "second floor, ring twice"
	if got := OrEmpty(&value); got != value {
		t.Fatalf("expected %q, got %q", value, got)
	}
}
