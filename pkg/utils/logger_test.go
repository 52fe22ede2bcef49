package utils

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		debug     bool
		wantDebug bool
	}{
		{debug: true, wantDebug: true},
		{debug: false, wantDebug: false},
	}
	for _, tt := range tests {
		logger, err := NewLogger(tt.debug)
		if err != nil {
			t.Fatalf("NewLogger(%v) error: %v", tt.debug, err)
		}
		if logger.Name() != LoggerName {
			t.Errorf("NewLogger(%v) name = %q, want %q", tt.debug, logger.Name(), LoggerName)
		}
		if got := logger.Core().Enabled(zap.DebugLevel); got != tt.wantDebug {
			t.Errorf("NewLogger(%v) debug enabled = %v, want %v", tt.debug, got, tt.wantDebug)
		}
		_ = logger.Sync()
	}
}
