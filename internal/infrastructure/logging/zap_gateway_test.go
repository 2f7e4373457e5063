package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"fyrxlab.net/solvermotd/internal/application/ports"
)

func newObserved(t *testing.T, level zapcore.Level) (*ZapGateway, *observer.ObservedLogs) {
	t.Helper()
	atomic := zap.NewAtomicLevelAt(level)
	core, logs := observer.New(atomic)
	return NewFromLogger(zap.New(core), atomic), logs
}

func TestZapGateway_Log(t *testing.T) {
	g, logs := newObserved(t, zapcore.InfoLevel)

	g.Log(ports.LogLevelDebug, "hidden", nil)
	g.Log(ports.LogLevelInfo, "shown", map[string]interface{}{"b": 2, "a": "x"})
	g.Log(ports.LogLevelWarn, "warned", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "shown", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, map[string]interface{}{"a": "x", "b": int64(2)}, entries[0].ContextMap())
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestZapGateway_LogError(t *testing.T) {
	g, logs := newObserved(t, zapcore.InfoLevel)

	g.LogError(errors.New("boom"), "failed", map[string]interface{}{"path": "config.yml"})

	entries := logs.FilterMessage("failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
	assert.Equal(t, "config.yml", entries[0].ContextMap()["path"])
}

func TestZapGateway_SetLogLevel(t *testing.T) {
	g, logs := newObserved(t, zapcore.InfoLevel)
	assert.Equal(t, ports.LogLevelInfo, g.GetLogLevel())

	g.SetLogLevel(ports.LogLevelDebug)
	assert.Equal(t, ports.LogLevelDebug, g.GetLogLevel())
	g.Log(ports.LogLevelDebug, "now visible", nil)
	assert.Equal(t, 1, logs.FilterMessage("now visible").Len())

	g.SetLogLevel("bogus")
	assert.Equal(t, ports.LogLevelDebug, g.GetLogLevel())
}

func TestNewZapGateway_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	g, err := NewZapGateway(Options{Level: ports.LogLevelInfo, Format: FormatJSON, Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	g.Log(ports.LogLevelInfo, "hello", map[string]interface{}{"document": "config"})
	require.NoError(t, g.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "config", entry["document"])
}

func TestNewZapGateway_ConfigureFormat(t *testing.T) {
	var buf bytes.Buffer
	g, err := NewZapGateway(Options{Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	require.NoError(t, g.ConfigureLogging(&ports.LoggingConfig{Level: ports.LogLevelWarn, Format: FormatJSON}))
	assert.Equal(t, ports.LogLevelWarn, g.GetLogLevel())

	g.Log(ports.LogLevelInfo, "dropped", nil)
	g.Log(ports.LogLevelWarn, "kept", nil)

	out := strings.TrimSpace(buf.String())
	assert.NotContains(t, out, "dropped")
	assert.True(t, strings.HasPrefix(out, "{"), out)
	assert.Contains(t, out, `"msg":"kept"`)
}

func TestNewZapGateway_Invalid(t *testing.T) {
	_, err := NewZapGateway(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = NewZapGateway(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    ports.LogLevel
		wantErr bool
	}{
		{in: "DEBUG", want: ports.LogLevelDebug},
		{in: " warn ", want: ports.LogLevelWarn},
		{in: "error", want: ports.LogLevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
