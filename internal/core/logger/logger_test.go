package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupLogger(t *testing.T) {
	defer SetupLogger("warn")
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"info":    logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"verbose": logrus.WarnLevel,
	}
	for level, want := range tests {
		SetupLogger(level)
		if got := GetLogger().GetLevel(); got != want {
			t.Errorf("SetupLogger(%q) level = %v, want %v", level, got, want)
		}
	}
}

func TestSetOutput(t *testing.T) {
	defer SetOutput(os.Stderr)
	var buf bytes.Buffer
	SetOutput(&buf)
	GetLogger().Warn("Could not retrieve URL http://jira.local/: Timeout")
	out := buf.String()
	if !strings.Contains(out, "Could not retrieve URL") {
		t.Errorf("log line missing: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("file output should not be coloured")
	}
}
