package log

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j0lvera/tgrelay/internal/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		want  zerolog.Level
	}{
		{name: "info by default", debug: false, want: zerolog.InfoLevel},
		{name: "debug when enabled", debug: true, want: zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(&hookRecorder{}, &config.Config{Debug: tt.debug})
			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("GetLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false)

	logger.Debug().Msg("hidden")
	logger.Info().Int64("chat_id", 42).Msg("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	for _, key := range []string{"time", "caller", "level", "message", "chat_id"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("log entry missing %q: %v", key, entry)
		}
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.log")
	lc := &hookRecorder{}
	logger := NewLogger(lc, &config.Config{LogFile: path})

	logger.Info().Str("user", "Maria").Msg("message received")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"user":"Maria"`) {
		t.Errorf("log file missing entry: %q", data)
	}

	if len(lc.hooks) != 1 || lc.hooks[0].OnStop == nil {
		t.Fatalf("hooks = %d, want one OnStop closing the file", len(lc.hooks))
	}
	if !openFile(t, path) {
		t.Fatal("log file should be open before stop")
	}
	if err := lc.hooks[0].OnStop(context.Background()); err != nil {
		t.Errorf("OnStop() error = %v", err)
	}
	if openFile(t, path) {
		t.Error("log file still open after stop")
	}
}

func TestNewLogger_NoFileNoHooks(t *testing.T) {
	lc := &hookRecorder{}
	NewLogger(lc, &config.Config{})

	if len(lc.hooks) != 0 {
		t.Errorf("hooks = %d, want 0 without a log file", len(lc.hooks))
	}
}

type hookRecorder struct {
	hooks []fx.Hook
}

func (r *hookRecorder) Append(h fx.Hook) {
	r.hooks = append(r.hooks, h)
}

// openFile reports whether this process holds a descriptor for path.
func openFile(t *testing.T, path string) bool {
	t.Helper()
	fds, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("no /proc/self/fd on this platform")
	}
	want, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("resolve %s: %v", path, err)
	}

	for _, fd := range fds {
		target, err := os.Readlink(filepath.Join("/proc/self/fd", fd.Name()))
		if err == nil && target == want {
			return true
		}
	}
	return false
}
