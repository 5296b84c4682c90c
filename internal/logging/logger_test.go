package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(WarnLevel, &buf)

	l.Info("should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}

	l.Warn("header mismatch", String("field", "magic"), Int("offset", 0))
	out := buf.String()
	if !strings.Contains(out, "[warn]") || !strings.Contains(out, "header mismatch") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "field=magic") || !strings.Contains(out, "offset=0") {
		t.Fatalf("missing fields in output: %q", out)
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	base := New(DebugLevel, &buf)
	derived := base.With(String("packet_type", "battle_chat_message"))
	derived.Debug("decoded")

	if !strings.Contains(buf.String(), "packet_type=battle_chat_message") {
		t.Fatalf("expected carried field, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": DebugLevel,
		"":      InfoLevel,
		"WARN":  WarnLevel,
		"error": ErrorLevel,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, err := ParseLevel("bogus"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
