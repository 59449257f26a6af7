package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.LogLevel
	}{
		{"debug", logger.DEBUG},
		{"INFO", logger.INFO},
		{"warn", logger.WARNING},
		{"warning", logger.WARNING},
		{"error", logger.ERROR},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := parseLogLevel(tc.in); got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
			if err := ValidateLogLevel(tc.in); err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}

	t.Run("Invalid", func(t *testing.T) {
		for _, in := range []string{"verbose", "", "critical"} {
			err := ValidateLogLevel(in)
			if err == nil {
				t.Errorf("Expected error for invalid level %q", in)
				continue
			}
			if !strings.Contains(err.Error(), "must be one of debug, info, warn, error") {
				t.Errorf("Expected list of valid levels, got %v", err)
			}
			if _, ok := lookupLogLevel(in); ok {
				t.Errorf("Expected %q to be unknown", in)
			}
		}
	})

	t.Run("ParsePanicsOnInvalid", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Expected panic for invalid level")
			}
		}()
		parseLogLevel("verbose")
	})
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("test", &buf)
	l.SetLevel(logger.WARNING)

	l.Infof("hidden %d", 1)
	l.Warningf("shown %d", 2)
	l.Errorf("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "WARN  | test            | shown 2") {
		t.Errorf("Expected formatted warning, got %q", out)
	}
	if !strings.Contains(out, "ERROR | test            | shown 3") {
		t.Errorf("Expected formatted error, got %q", out)
	}
}

func TestConfigString(t *testing.T) {
	c := &Config{Codec: "proto", LogLevel: "info"}
	out := c.String()

	for _, want := range []string{
		"ENCODING",
		"  Codec                 : proto",
		"  Data Directory        : (working directory)",
		"  Log Level             : info",
		"  Metrics               : false",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}
