package utils

import (
	"strings"
	"testing"
)

func TestSmartParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain json", `{"revenue": 100, "industry": "Retail"}`},
		{"code fence", "```json\n{\"revenue\": 100, \"industry\": \"Retail\"}\n```"},
		{"trailing comma", `{"revenue": 100, "industry": "Retail",}`},
		{"single quotes", `{'revenue': 100, 'industry': 'Retail'}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out map[string]interface{}
			if _, err := SmartParse(tt.input, &out); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out["revenue"] != float64(100) {
				t.Errorf("expected revenue 100, got %v", out["revenue"])
			}
			if out["industry"] != "Retail" {
				t.Errorf("expected industry Retail, got %v", out["industry"])
			}
		})
	}
}

func TestParseHJSON(t *testing.T) {
	out, err := ParseHJSON("{\n  # comment\n  revenue: 100\n  industry: Retail\n}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"industry":"Retail"`) {
		t.Errorf("unexpected conversion: %s", out)
	}
}

func TestStripCodeFence(t *testing.T) {
	if got := StripCodeFence("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Errorf("unexpected strip result: %q", got)
	}
	if got := StripCodeFence(`{"a":1}`); got != `{"a":1}` {
		t.Errorf("unfenced input should be unchanged, got %q", got)
	}
}

func TestCleanMarkdown(t *testing.T) {
	if got := CleanMarkdown("```markdown\n# Title\n```"); got != "# Title" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestMarkdownToHTML_Table(t *testing.T) {
	md := "# ROI\n\n| Metric | Value |\n|---|---|\n| Revenue | $1 |\n"
	out, err := MarkdownToHTML(md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"<h1", "<table>", "<td>Revenue</td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
}

func TestEscapeMarkdown(t *testing.T) {
	if got := EscapeMarkdown("A|B *C*"); got != `A\|B \*C\*` {
		t.Errorf("unexpected escape: %q", got)
	}

	out, err := MarkdownToHTML("| Company |\n|---|\n| " + EscapeMarkdown("Pipe|Co <b>") + " |\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Pipe|Co &lt;b&gt;") {
		t.Errorf("escaped label should render literally, got %s", out)
	}
}
