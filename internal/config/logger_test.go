package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerTo(t *testing.T) {
	tests := []struct {
		name       string
		cfg        LoggerConfig
		wantDebug  bool
		wantInfo   bool
		wantCaller bool
	}{
		{name: "debug level", cfg: LoggerConfig{Level: "debug", Format: "json"}, wantDebug: true, wantInfo: true, wantCaller: true},
		{name: "info level", cfg: LoggerConfig{Level: "info", Format: "json"}, wantInfo: true},
		{name: "error level", cfg: LoggerConfig{Level: "error", Format: "json"}},
		{name: "unknown level falls back to info", cfg: LoggerConfig{Level: "verbose", Format: "json"}, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerTo(tt.cfg, &buf)

			logger.Debug().Msg("debug line")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))

			buf.Reset()
			logger.Info().Msg("info line")
			if !tt.wantInfo {
				assert.Zero(t, buf.Len())
				return
			}

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, "info line", line["message"])
			assert.Equal(t, ServiceName, line["service"])
			assert.Contains(t, line, "time")
			_, hasCaller := line["caller"]
			assert.Equal(t, tt.wantCaller, hasCaller)
		})
	}
}

func TestNewLoggerTo_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(LoggerConfig{Level: "info", Format: "console"}, &buf)

	logger.Info().Str("barcode", "3017620422003").Msg("product found")

	out := buf.String()
	assert.Contains(t, out, "product found")
	assert.Contains(t, out, "barcode")
	assert.Contains(t, out, "3017620422003")
	assert.False(t, json.Valid(buf.Bytes()))
}
