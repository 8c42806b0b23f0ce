package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{name: "debug", input: "debug", want: zerolog.DebugLevel},
		{name: "info", input: "info", want: zerolog.InfoLevel},
		{name: "warn", input: "warn", want: zerolog.WarnLevel},
		{name: "error", input: "error", want: zerolog.ErrorLevel},
		{name: "uppercase", input: "DEBUG", want: zerolog.DebugLevel},
		{name: "padded", input: " info ", want: zerolog.InfoLevel},
		{name: "empty defaults to info", input: "", want: zerolog.InfoLevel},
		{name: "unknown", input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestNewWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.WarnLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug event", nil)
	logger.Info(ctx, "info event", nil)
	logger.Warn(ctx, "warn event", map[string]interface{}{"node": "generate"})
	logger.Error(ctx, "error event", nil)

	out := buf.String()
	assert.NotContains(t, out, "debug event")
	assert.NotContains(t, out, "info event")
	assert.Contains(t, out, "warn event")
	assert.Contains(t, out, "error event")
	assert.Contains(t, out, `"node":"generate"`)
}

func TestWith_AttachesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel).With(map[string]interface{}{"use_case": "news"})

	logger.Info(context.Background(), "run started", nil)

	assert.Contains(t, buf.String(), `"use_case":"news"`)
}
