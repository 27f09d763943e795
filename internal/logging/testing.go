package logging

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger records every entry at trace level and above in memory.
// Tool handlers, the HTTP server and the CLI take a *Logger, so tests pass
// TestLogger.Logger and inspect what was written.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
	secrets  []*regexp.Regexp
}

// NewTestLogger returns a TestLogger. AssertNoSecrets checks entries against
// the same keys and patterns the production encoder redacts.
func NewTestLogger() *TestLogger {
	core, observed := observer.New(TraceLevel)
	cfg := NewDefaultConfig()

	secrets := make([]*regexp.Regexp, 0, len(cfg.Redaction.Patterns))
	for _, p := range cfg.Redaction.Patterns {
		secrets = append(secrets, regexp.MustCompile(p))
	}

	return &TestLogger{
		Logger:   &Logger{zap: zap.New(core), config: cfg},
		observed: observed,
		secrets:  secrets,
	}
}

// All returns the recorded entries in order.
func (t *TestLogger) All() []observer.LoggedEntry {
	return t.observed.All()
}

// FilterMessage returns entries whose message equals msg exactly.
func (t *TestLogger) FilterMessage(msg string) *observer.ObservedLogs {
	return t.observed.FilterMessage(msg)
}

// Reset drops everything recorded so far.
func (t *TestLogger) Reset() {
	t.observed.TakeAll()
}

func (t *TestLogger) matching(level zapcore.Level, substr string) []observer.LoggedEntry {
	var out []observer.LoggedEntry
	for _, e := range t.observed.All() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			out = append(out, e)
		}
	}
	return out
}

// AssertLogged fails tb unless an entry at level has a message containing substr.
func (t *TestLogger) AssertLogged(tb testing.TB, level zapcore.Level, substr string) {
	tb.Helper()
	if len(t.matching(level, substr)) == 0 {
		tb.Errorf("no %s entry containing %q in %d entries", level, substr, t.observed.Len())
	}
}

// AssertNotLogged fails tb if an entry at level has a message containing substr.
func (t *TestLogger) AssertNotLogged(tb testing.TB, level zapcore.Level, substr string) {
	tb.Helper()
	if n := len(t.matching(level, substr)); n > 0 {
		tb.Errorf("found %d unexpected %s entries containing %q", n, level, substr)
	}
}

// AssertField fails tb unless an entry with message msg carries key=want.
// Values are compared after zap encoding, so an int matches an int64 field.
func (t *TestLogger) AssertField(tb testing.TB, msg, key string, want any) {
	tb.Helper()
	for _, e := range t.observed.FilterMessage(msg).All() {
		got, ok := e.ContextMap()[key]
		if !ok {
			continue
		}
		if reflect.DeepEqual(got, want) || fmt.Sprint(got) == fmt.Sprint(want) {
			return
		}
	}
	tb.Errorf("no %q entry with %s=%v", msg, key, want)
}

// AssertNoSecrets fails tb if a sensitive key carries an unredacted string, or
// a message or string value matches a redaction pattern.
func (t *TestLogger) AssertNoSecrets(tb testing.TB) {
	tb.Helper()
	for _, e := range t.observed.All() {
		if re := t.secretIn(e.Message); re != nil {
			tb.Errorf("message %q matches %s", e.Message, re)
		}
		for _, f := range e.Context {
			if f.Type != zapcore.StringType {
				continue
			}
			if t.sensitiveKey(f.Key) && f.String != "" && !strings.HasPrefix(f.String, "[REDACTED") {
				tb.Errorf("field %q not redacted", f.Key)
			}
			if re := t.secretIn(f.String); re != nil {
				tb.Errorf("field %q matches %s", f.Key, re)
			}
		}
	}
}

func (t *TestLogger) secretIn(s string) *regexp.Regexp {
	for _, re := range t.secrets {
		if re.MatchString(s) {
			return re
		}
	}
	return nil
}

func (t *TestLogger) sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, k := range t.config.Redaction.Fields {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

// AssertTraceCorrelation fails tb unless an entry with message msg has a trace_id.
func (t *TestLogger) AssertTraceCorrelation(tb testing.TB, msg string) {
	tb.Helper()
	for _, e := range t.observed.FilterMessage(msg).All() {
		if _, ok := e.ContextMap()["trace_id"]; ok {
			return
		}
	}
	tb.Errorf("no %q entry carries trace_id", msg)
}
