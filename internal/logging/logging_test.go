package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log/level"
)

func TestLevelFilter(t *testing.T) {
	tests := []struct {
		lvl       string
		wantDebug bool
		wantInfo  bool
		wantError bool
	}{
		{"debug", true, true, true},
		{"", false, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.lvl, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.lvl)

			level.Debug(logger).Log("msg", "d")
			level.Info(logger).Log("msg", "i")
			level.Error(logger).Log("msg", "e")

			out := buf.String()
			if strings.Contains(out, "msg=d") != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v", !tt.wantDebug, tt.wantDebug)
			}
			if strings.Contains(out, "msg=i") != tt.wantInfo {
				t.Errorf("info line present = %v, want %v", !tt.wantInfo, tt.wantInfo)
			}
			if strings.Contains(out, "msg=e") != tt.wantError {
				t.Errorf("error line present = %v, want %v", !tt.wantError, tt.wantError)
			}
		})
	}
}

func TestNewFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gpgdesk.log")

	logger, closer, err := NewFile(path, "info")
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	level.Info(logger).Log("msg", "first")
	closer.Close()

	logger, closer, err = NewFile(path, "info")
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	level.Info(logger).Log("msg", "second")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=first") || !strings.Contains(string(data), "msg=second") {
		t.Errorf("log file = %q", data)
	}
}
