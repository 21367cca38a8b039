package log

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOptions(t *testing.T) {
	tests := []struct {
		name    string
		options *Options
		wantErr bool
	}{
		{name: "nil options", options: nil, wantErr: true},
		{name: "default console output", options: &Options{Level: "info"}},
		{name: "empty level uses info", options: &Options{}},
		{
			name: "json to stderr",
			options: &Options{
				Level:  "debug",
				Format: "json",
				Output: OutputOptions{Type: "console", Target: "stderr"},
			},
		},
		{name: "invalid level", options: &Options{Level: "invalid"}, wantErr: true},
		{name: "invalid format", options: &Options{Level: "info", Format: "xml"}, wantErr: true},
		{name: "invalid output", options: &Options{Output: OutputOptions{Type: "kafka"}}, wantErr: true},
		{name: "file without path", options: &Options{Output: OutputOptions{Type: "file"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewWithOptions(tt.options)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"DEBUG", slog.LevelDebug, false},
		{"invalid", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			lv, err := ParseLevel(tt.level)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, lv)
		})
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := NewWithOptions(&Options{
		Level:      "info",
		Format:     "json",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     OutputOptions{Type: "file", Path: path},
		Fields:     map[string]any{"service": "awesome"},
	})
	require.NoError(t, err)

	l.Debug("hidden")
	l.With("table", "users").InfoContext(context.Background(), "query done", "rows", 1)
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.NotContains(t, text, "hidden")
	assert.Contains(t, text, `"msg":"query done"`)
	assert.Contains(t, text, `"service":"awesome"`)
	assert.Contains(t, text, `"table":"users"`)
	assert.Equal(t, 1, strings.Count(text, "\n"))
}

func TestSetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewWithOptions(&Options{Level: "warn", Output: OutputOptions{Type: "file", Path: path}})
	require.NoError(t, err)
	defer l.Close()

	child := l.WithGroup("orm")
	child.Info("before")
	require.NoError(t, l.SetLevel("debug"))
	assert.Equal(t, slog.LevelDebug, l.Level())
	child.Debug("after")
	assert.Error(t, l.SetLevel("verbose"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "before")
	assert.Contains(t, string(content), "after")
}

func TestDefault(t *testing.T) {
	assert.NotNil(t, Default())

	d := Discard()
	d.Error("dropped")
	SetDefault(nil)
	assert.NotNil(t, Default())
}
