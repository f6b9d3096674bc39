package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		DebugLevel: zapcore.DebugLevel,
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		"verbose":  zapcore.InfoLevel,
		"":         zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Fatalf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestComponentOnNilLogger(t *testing.T) {
	var l *Logger
	if l.Component("x") == nil {
		t.Fatal("expected a usable logger from a nil receiver")
	}
}

func TestGetIsSingleton(t *testing.T) {
	a := Get(WarnLevel)
	b := Get(DebugLevel)
	if a != b {
		t.Fatal("expected the same instance")
	}
}
