package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
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

func TestNew_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	log, err := New(Options{Level: "info", Out: &buf})
	require.NoError(t, err)

	log.Info("issued", "namespace", "ns1")
	log.V(1).Info("hidden")
	log.Error(errors.New("boom"), "failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "issued", entry["msg"])
	assert.Equal(t, "ns1", entry["namespace"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "boom", entry["error"])
}

func TestNew_DebugShowsVerbose(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	log, err := New(Options{Level: "debug", Development: true, Out: &buf})
	require.NoError(t, err)

	log.V(1).Info("invoking certificate tool")

	assert.Contains(t, buf.String(), "invoking certificate tool")
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}
