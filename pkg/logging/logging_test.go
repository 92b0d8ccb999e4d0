package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want slog.Level
	}{
		{name: "Empty", in: "", want: slog.LevelInfo},
		{name: "Debug", in: "debug", want: slog.LevelDebug},
		{name: "UpperWarn", in: "WARN", want: slog.LevelWarn},
		{name: "Warning", in: " warning ", want: slog.LevelWarn},
		{name: "Error", in: "error", want: slog.LevelError},
		{name: "Unknown", in: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestCommonLogger(t *testing.T) {
	l, err := CommonLogger(NewConfig(`tests`))
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = CommonLogger(nil)
	require.Error(t, err)
}
