package logger

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

// capture routes the global logger into a buffer at level and restores
// the defaults when the test ends.
func capture(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetFormat(FormatConsole)
		SetOutput(nil)
		SetLevel(LevelWarn)
	})
	return &buf
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	Init(true)
	if GetLevel() != LevelDebug {
		t.Errorf("Init(true) level = %v, want DEBUG", GetLevel())
	}
	Init(false)
	if GetLevel() != LevelWarn {
		t.Errorf("Init(false) level = %v, want WARN", GetLevel())
	}
}

func TestLevelNames(t *testing.T) {
	names := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(42):  "UNKNOWN",
	}
	for level, want := range names {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", int(level), got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"error", LevelError},
		{"", LevelWarn},
		{"trace", LevelWarn},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestThreshold(t *testing.T) {
	emit := map[Level]func(string, ...interface{}){
		LevelDebug: Debug,
		LevelInfo:  Info,
		LevelWarn:  Warn,
		LevelError: Error,
	}

	for _, threshold := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		t.Run(threshold.String(), func(t *testing.T) {
			buf := capture(t, threshold)
			for level, fn := range emit {
				buf.Reset()
				fn("unlinking %s", "example.com.vhost")
				if shown := buf.Len() > 0; shown != (level >= threshold) {
					t.Errorf("%v message at %v threshold: shown=%v", level, threshold, shown)
				}
			}
		})
	}
}

func TestConsoleLine(t *testing.T) {
	buf := capture(t, LevelDebug)

	Debug("writing %s (%d bytes)", "shop.local.vhost", 512)
	line := strings.TrimSpace(buf.String())

	if !strings.HasPrefix(line, "[DEBUG]") {
		t.Errorf("missing level prefix: %q", line)
	}
	if !strings.HasSuffix(line, "writing shop.local.vhost (512 bytes)") {
		t.Errorf("message should close the line: %q", line)
	}
}

func TestFields(t *testing.T) {
	buf := capture(t, LevelDebug)

	WarnFields("live key missing", map[string]interface{}{
		"run_id":    "r1",
		"domain":    "example.com",
		"domain_id": 7,
	})
	line := buf.String()

	for _, want := range []string{"[WARN]", "live key missing", "domain=example.com", "domain_id=7", "run_id=r1"} {
		if !strings.Contains(line, want) {
			t.Errorf("missing %q in %q", want, line)
		}
	}
	if strings.Index(line, "domain=") > strings.Index(line, "run_id=") {
		t.Errorf("fields should be sorted: %q", line)
	}
}

func TestFieldsEmpty(t *testing.T) {
	buf := capture(t, LevelDebug)

	InfoFields("nothing to reconcile", nil)
	line := strings.TrimRight(buf.String(), "\n")

	if !strings.HasSuffix(line, "nothing to reconcile") {
		t.Errorf("unexpected trailing content: %q", line)
	}
}

func TestFieldHelpers(t *testing.T) {
	buf := capture(t, LevelDebug)

	DebugFields("probe", map[string]interface{}{"step": 1})
	InfoFields("write", map[string]interface{}{"step": 2})
	ErrorFields("reload", map[string]interface{}{"step": 3})

	out := buf.String()
	for _, want := range []string{"[DEBUG]", "step=1", "[INFO]", "step=2", "[ERROR]", "step=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestLogError(t *testing.T) {
	buf := capture(t, LevelError)

	LogError(nil, "reload")
	if buf.Len() != 0 {
		t.Fatalf("nil error should not log, got %q", buf.String())
	}

	LogError(errors.New("exit status 1"), "reload failed")
	out := buf.String()
	if !strings.Contains(out, "[ERROR]") || !strings.Contains(out, "reload failed: exit status 1") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	buf := capture(t, LevelInfo)
	SetFormat(FormatJSON)

	InfoFields("reload issued", map[string]interface{}{"run_id": "abc"})
	out := buf.String()

	for _, want := range []string{`"level":"info"`, `"run_id":"abc"`, `"message":"reload issued"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}

func TestConcurrentLogging(t *testing.T) {
	buf := capture(t, LevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Debug("domain %d planned", n)
			InfoFields("domain applied", map[string]interface{}{"n": n})
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Fatalf("got %d lines, want 100", len(lines))
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "[DEBUG]") && !strings.HasPrefix(line, "[INFO]") {
			t.Errorf("line %d interleaved: %q", i, line)
		}
	}
}
