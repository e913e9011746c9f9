package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("hidden")
	logger.Info("shown", "devices", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "devices=3") {
		t.Errorf("expected info message with fields, got %q", out)
	}
	if !regexp.MustCompile(`\d{2}:\d{2}:\d{2}\.\d{2}`).MatchString(out) {
		t.Errorf("expected HH:MM:SS.ms timestamp, got %q", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug message after SetLogLevel, got %q", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))

	p.done("Settled 2 devices")

	if !regexp.MustCompile(`Settled 2 devices \(\d+(\.\d+)?[µnm]?s\)`).MatchString(buf.String()) {
		t.Errorf("expected message with elapsed time, got %q", buf.String())
	}
}
