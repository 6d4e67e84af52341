package cmd

import (
	"log/slog"
	"testing"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		verbose bool
		want    slog.Level
	}{
		{false, slog.LevelInfo},
		{true, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := logLevel(tt.verbose); got != tt.want {
			t.Errorf("logLevel(%v) = %v, want %v", tt.verbose, got, tt.want)
		}
	}
}
