package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"ERROR":   LogLevelError,
		"warn":    LogLevelWarn,
		" DEBUG ": LogLevelDebug,
		"TRACE":   LogLevelTrace,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestNamedKeepsLevel(t *testing.T) {
	l := NewLogger(LogLevelDebug, "console").Named("pipeline")
	assert.Equal(t, LogLevelDebug, l.GetLevel())

	nop := NewNopLogger()
	nop.Error("dropped %d", 1)
	assert.Equal(t, LogLevelError, nop.GetLevel())
}
