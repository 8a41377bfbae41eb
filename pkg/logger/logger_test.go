package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: "debug", Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-123")
	ctx = log.WithOrderID(ctx, "ord-1")

	log.Error(ctx, "boom", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-123"`)
	assert.Contains(t, out, `"order_id":"ord-1"`)
	assert.Contains(t, out, `"stack"`)
	assert.Contains(t, out, `"service":"test"`)
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf, WarnStack: true})
	log.Warn(context.Background(), "warny")
	assert.Contains(t, buf.String(), `"stack"`)

	buf.Reset()
	quiet := New(Options{ServiceName: "test", Output: buf})
	quiet.Warn(context.Background(), "warny")
	assert.NotContains(t, buf.String(), `"stack"`)
}

func TestLoggerLevelFiltersDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf})
	log.Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

func TestLoggerLevelNames(t *testing.T) {
	cases := []struct {
		level string
		debug bool
		info  bool
	}{
		{level: "", debug: false, info: true},
		{level: "debug", debug: true, info: true},
		{level: " WARN ", debug: false, info: false},
		{level: "chatty", debug: false, info: true},
	}
	for _, tc := range cases {
		buf := &bytes.Buffer{}
		log := New(Options{ServiceName: "test", Level: tc.level, Output: buf})
		log.Debug(context.Background(), "dbg")
		log.Info(context.Background(), "inf")
		assert.Equal(t, tc.debug, strings.Contains(buf.String(), `"dbg"`), tc.level)
		assert.Equal(t, tc.info, strings.Contains(buf.String(), `"inf"`), tc.level)
	}
}

func TestParseLevelDefaults(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("invalid"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
}

func TestLoggerFieldsDoNotLeakBetweenContexts(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf, Format: FormatJSON})

	base := log.WithUserID(context.Background(), "u-1")
	_ = log.WithOrderID(base, "ord-9")
	log.Info(base, "only user")

	out := buf.String()
	assert.Contains(t, out, `"user_id":"u-1"`)
	assert.NotContains(t, out, "ord-9")
}

func TestLoggerConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf, Format: FormatConsole})
	log.Info(log.WithJob(context.Background(), "order_activation"), "cron.job.finished")

	out := buf.String()
	assert.Contains(t, out, "cron.job.finished")
	assert.Contains(t, out, "job=")
	assert.NotContains(t, out, `{"level"`)
}
