package security

import (
	"strings"
	"testing"
)

func TestContentSanitizer_StripsMarkup(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "今日の一枚", "今日の一枚"},
		{"script tag", `hello <script>alert("x")</script>world`, "hello world"},
		{"img tag", `look <img src="x" onerror="steal()">here`, "look here"},
		{"nested tags", "<div><p><b>bold</b></p></div>", "bold"},
		{"trims whitespace", "  spaced  ", "spaced"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SanitizeText(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContentSanitizer_NoTagSurvives(t *testing.T) {
	s := NewContentSanitizer()

	out := s.SanitizeText(`<a href="javascript:alert(1)">click</a><iframe src="evil"></iframe>`)
	if strings.ContainsAny(out, "<>") {
		t.Errorf("markup survived sanitization: %q", out)
	}
}
