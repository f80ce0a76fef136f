package cli

import (
	"context"
	"log/slog"
	"testing"

	"saldo/internal/config"
	"saldo/internal/log"
)

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"error", "error", slog.LevelError},
		{"unknown falls back to info", "loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := SetupLogger(&config.Config{LogLevel: tt.level, LogFormat: "json"}, log.ComponentWorker)
			if logger.Component() != log.ComponentWorker {
				t.Fatalf("component = %q", logger.Component())
			}
			if !logger.Enabled(context.Background(), tt.want) {
				t.Fatalf("level %v should be enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && logger.Enabled(context.Background(), tt.want-4) {
				t.Fatalf("level below %v should be disabled", tt.want)
			}
		})
	}
}
