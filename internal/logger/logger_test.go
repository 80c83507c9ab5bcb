package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "console default", opts: Options{}, wantLevel: zapcore.InfoLevel},
		{name: "json debug", opts: Options{JSON: true, Level: "debug"}, wantLevel: zapcore.DebugLevel},
		{name: "console warn", opts: Options{Level: "warn"}, wantLevel: zapcore.WarnLevel},
		{name: "bad level", opts: Options{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.opts)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid log level")
				return
			}

			require.NoError(t, err)
			require.NotNil(t, l)
			assert.True(t, l.Core().Enabled(tt.wantLevel))
			assert.False(t, l.Core().Enabled(tt.wantLevel-1))
		})
	}
}
