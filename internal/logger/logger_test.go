package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestVerboseGating(t *testing.T) {
	verbose := false
	var buf bytes.Buffer
	log := NewWithCallback("api", func() bool { return verbose }).WithWriter(&buf)

	log.Debug("hidden %d", 1)
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("Debug/Info written without verbose: %q", buf.String())
	}

	log.Warn("shown")
	log.Error("shown too")
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", got, buf.String())
	}

	verbose = true
	buf.Reset()
	log.Info("now visible")
	if !strings.Contains(buf.String(), "INFO [api] now visible") {
		t.Errorf("unexpected line %q", buf.String())
	}
}

func TestFieldsFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New("upload", nil).WithWriter(&buf)

	log.ErrorWithFields("request failed", []Field{Status(500), Path("/api/predict"), Error(errors.New("boom"))})

	line := buf.String()
	for _, want := range []string{"ERROR [upload] request failed", "[status=500 path=/api/predict error=boom]"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestMessageWithPercentAndNoArgs(t *testing.T) {
	var buf bytes.Buffer
	log := New("", nil).WithWriter(&buf)

	log.Warn("100% done")
	if !strings.Contains(buf.String(), "WARN [main] 100% done") {
		t.Errorf("unexpected line %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	base := New("cli", nil).WithWriter(&buf)

	base.WithComponent("chat").Warn("x")
	if !strings.Contains(buf.String(), "[chat]") {
		t.Errorf("component not applied: %q", buf.String())
	}
}
