package logger

import (
	"testing"

	"github.com/lshigami/behavio/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		level string
		want  zerolog.Level
	}{
		{"debug mode without level", "debug", "", zerolog.DebugLevel},
		{"release mode without level", "release", "", zerolog.InfoLevel},
		{"explicit level wins in debug mode", "debug", "warn", zerolog.WarnLevel},
		{"explicit level in release mode", "release", "error", zerolog.ErrorLevel},
		{"explicit trace level", "release", "trace", zerolog.TraceLevel},
		{"unknown level", "debug", "loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Server: config.Server{Mode: tt.mode}, Log: config.Log{Level: tt.level}}
			assert.Equal(t, tt.want, Level(cfg))
		})
	}
}
