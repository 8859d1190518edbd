package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	// Disable color for tests
	color.NoColor = true
}

// capture redirects output into a buffer for the duration of f
func capture(f func()) string {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	f()
	return buf.String()
}

func TestJSON(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		type entry struct {
			Domain string `json:"domain"`
			Link   bool   `json:"link"`
		}

		output := capture(func() {
			_ = JSON(entry{Domain: "example.com", Link: true})
		})

		var result entry
		if err := json.Unmarshal([]byte(output), &result); err != nil {
			t.Fatalf("JSON output is invalid: %v", err)
		}
		if result.Domain != "example.com" || !result.Link {
			t.Errorf("unexpected result %+v", result)
		}
		if !strings.Contains(output, "\n  \"domain\"") {
			t.Errorf("expected indented output, got %s", output)
		}
	})

	t.Run("empty slice", func(t *testing.T) {
		output := capture(func() {
			_ = JSON([]string{})
		})
		if strings.TrimSpace(output) != "[]" {
			t.Errorf("expected [], got %s", output)
		}
	})
}

func TestTable(t *testing.T) {
	t.Run("basic table", func(t *testing.T) {
		output := capture(func() {
			Table([]string{"DOMAIN", "STATUS"}, [][]string{
				{"example.com", "enabled"},
				{"a.com", "missing"},
			})
		})

		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), output)
		}
		if lines[0] != "DOMAIN       STATUS" {
			t.Errorf("unexpected header %q", lines[0])
		}
		if lines[1] != "-----------  -------" {
			t.Errorf("unexpected separator %q", lines[1])
		}
		if lines[3] != "a.com        missing" {
			t.Errorf("unexpected row %q", lines[3])
		}
	})

	t.Run("empty headers", func(t *testing.T) {
		output := capture(func() {
			Table(nil, [][]string{{"data"}})
		})
		if output != "" {
			t.Errorf("expected no output for empty headers, got %s", output)
		}
	})

	t.Run("short rows", func(t *testing.T) {
		output := capture(func() {
			Table([]string{"A", "B", "C"}, [][]string{{"1"}})
		})
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 || lines[2] != "1" {
			t.Errorf("short rows should be padded, got %q", lines)
		}
	})
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string, ...interface{})
		want string
	}{
		{"success", Success, "✓ reloaded example.com\n"},
		{"error", Error, "✗ reloaded example.com\n"},
		{"warn", Warn, "! reloaded example.com\n"},
		{"info", Info, "→ reloaded example.com\n"},
		{"step", Step, "  reloaded example.com\n"},
		{"print", Print, "reloaded example.com\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := capture(func() {
				tt.fn("reloaded %s", "example.com")
			})
			if output != tt.want {
				t.Errorf("expected %q, got %q", tt.want, output)
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	output := capture(func() {
		Prompt("Remove %d vhosts? [y/N]: ", 2)
	})
	if output != "Remove 2 vhosts? [y/N]: " {
		t.Errorf("unexpected prompt %q", output)
	}
}
