package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// One decoded JSON line per log record
func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	var res []map[string]any
	for line := range strings.Lines(buf.String()) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line is not json: %s", line)
		res = append(res, entry)
	}
	return res
}

func TestLogger(t *testing.T) {
	t.Run("environment picks the format", func(t *testing.T) {
		tests := []struct {
			env  string
			json bool
		}{
			{EnvDevelopment, false},
			{"DEV", false},
			{EnvProduction, true},
			{"Prod", true},
		}

		for _, tt := range tests {
			t.Run(tt.env, func(t *testing.T) {
				var buf bytes.Buffer
				l, err := newEnvLogger(&buf, tt.env, LevelInfo)
				require.NoError(t, err)

				l.Info("Purchase flow completed", "balance_div", 25)

				require.Equal(t, tt.json, json.Valid(buf.Bytes()), "output: %s", buf.String())
				require.Contains(t, buf.String(), "Purchase flow completed")
			})
		}
	})

	t.Run("unknown environment", func(t *testing.T) {
		_, err := New("staging", LevelInfo)

		require.ErrorContains(t, err, `unknown environment "staging"`)
	})

	t.Run("unknown level", func(t *testing.T) {
		for _, level := range []string{"", "verbose", "trace"} {
			_, err := New(EnvProduction, level)
			require.Error(t, err, "level %q", level)

			_, err = NewTextLogger(level)
			require.Error(t, err, "level %q", level)
		}
	})

	t.Run("text record", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := newLogger(&buf, formatText, LevelDebug)
		require.NoError(t, err)

		l.Debug("Purchase flow processing", "request_key", "req-1", "delay", "1.5s")

		out := buf.String()
		require.Contains(t, out, "level=DEBUG")
		require.Contains(t, out, `msg="Purchase flow processing"`)
		require.Contains(t, out, "request_key=req-1")
		require.Contains(t, out, "source=logger_test.go:", "caller of the wrapper with the directory trimmed")
	})

	t.Run("json record", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := newLogger(&buf, formatJSON, LevelInfo)
		require.NoError(t, err)

		l.Warn("Purchase flows not finished before shutdown", "pending", 2)

		got := entries(t, &buf)
		require.Len(t, got, 1)
		require.Equal(t, "WARN", got[0]["level"])
		require.Equal(t, "Purchase flows not finished before shutdown", got[0]["msg"])
		require.Equal(t, float64(2), got[0]["pending"])

		source, ok := got[0]["source"].(map[string]any)
		require.True(t, ok, "source has to be attached")
		require.Equal(t, "logger_test.go", source["file"])
	})

	t.Run("With and WithGroup", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := newLogger(&buf, formatJSON, LevelInfo)
		require.NoError(t, err)

		flowLog := l.With("request_key", "req-7", "kind", "topup")
		flowLog.Info("Purchase flow submitted")
		flowLog.WithGroup("quote").Info("Top up quoted", "units", 3, "currency", "MXN")

		got := entries(t, &buf)
		require.Len(t, got, 2)
		for _, entry := range got {
			require.Equal(t, "req-7", entry["request_key"])
			require.Equal(t, "topup", entry["kind"])
		}
		require.Equal(t, map[string]any{"units": float64(3), "currency": "MXN"}, got[1]["quote"])
		require.NotContains(t, got[1], "units", "grouped attrs stay in the group")
	})

	t.Run("level threshold", func(t *testing.T) {
		log := func(l Logger) {
			l.Debug("debug")
			l.Info("info")
			l.Warn("warn")
			l.Error("error")
		}

		tests := []struct {
			level string
			want  []string
		}{
			{LevelDebug, []string{"debug", "info", "warn", "error"}},
			{"INFO", []string{"info", "warn", "error"}},
			{LevelWarn, []string{"warn", "error"}},
			{"Error", []string{"error"}},
		}

		for _, tt := range tests {
			t.Run(tt.level, func(t *testing.T) {
				var buf bytes.Buffer
				l, err := newLogger(&buf, formatJSON, tt.level)
				require.NoError(t, err)

				log(l)

				msgs := make([]string, 0, len(tt.want))
				for _, entry := range entries(t, &buf) {
					msgs = append(msgs, entry["msg"].(string))
				}
				require.Equal(t, tt.want, msgs)
			})
		}
	})

	t.Run("noop discards everything", func(t *testing.T) {
		l := NewNoOpLogger().With("request_key", "req-1").WithGroup("flow")

		require.NotPanics(t, func() {
			l.Error("Purchase flow failed", "error", "boom")
		})
	})

	t.Run("parseLevel", func(t *testing.T) {
		level, err := parseLevel("WARN")
		require.NoError(t, err)
		require.Equal(t, slog.LevelWarn, level)

		_, err = parseLevel("fatal")
		require.ErrorContains(t, err, `unknown log level "fatal"`)
	})
}
