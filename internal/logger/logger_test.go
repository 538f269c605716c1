package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLevel verifies mapping from strings to zapcore.Level and handling
// of unknown values.
func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"WARN":  zapcore.WarnLevel,
		" info": zapcore.InfoLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLevel(s)
		require.True(t, ok, "level %q", s)
		require.Equal(t, lvl, got, "level %q", s)
	}

	_, ok := ParseLevel("unknown")
	require.False(t, ok)
}
