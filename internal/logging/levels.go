package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// TraceLevel is a custom level below Debug for wire-level detail such as
// full request and response envelopes. Almost always filtered.
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses a level name, case-insensitively, supporting
// "trace". An empty string is info.
func LevelFromString(level string) (zapcore.Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if normalized == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(normalized)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}
