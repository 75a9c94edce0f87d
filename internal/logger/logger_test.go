package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO, false)

	l.logf(DEBUG, "test debug message")
	l.logf(INFO, "test info message")
	l.logf(ERROR, "test error %d", 42)

	logContent := buf.String()
	if strings.Contains(logContent, "test debug message") {
		t.Error("Debug message should be filtered at INFO level")
	}
	if !strings.Contains(logContent, "[INFO] test info message") {
		t.Errorf("Info message not found in output: %q", logContent)
	}
	if !strings.Contains(logContent, "[ERROR] test error 42") {
		t.Errorf("Error message not found in output: %q", logContent)
	}
	if strings.Contains(logContent, "\033[") {
		t.Error("Output contains ANSI color codes with color disabled")
	}
}

func TestColorOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG, true)

	l.logf(WARN, "careful")

	want := levelColors[WARN] + "[WARN]" + colorReset + " careful"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("Expected colored output %q, got %q", want, buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{" warn ", WARN, false},
		{"warning", WARN, false},
		{"error", ERROR, false},
		{"fatal", INFO, true},
		{"verbose", INFO, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	Init("info")
	t.Cleanup(func() {
		SetLevel(WARN)
		SetColorEnable(false)
	})

	Debugf("hidden")
	Infof("shown %s", "here")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("Debug message should be filtered")
	}
	if !strings.Contains(buf.String(), "shown here") {
		t.Errorf("Info message not found in output: %q", buf.String())
	}

	buf.Reset()
	Init("bogus")
	Infof("fallback")
	if !strings.Contains(buf.String(), "fallback") {
		t.Error("Unknown level names should fall back to INFO")
	}
}

func TestLevelString(t *testing.T) {
	if DEBUG.String() != "DEBUG" {
		t.Errorf("DEBUG.String() = %q", DEBUG.String())
	}
	if Level(99).String() != "Level(99)" {
		t.Errorf("Level(99).String() = %q", Level(99).String())
	}
}
