package gorm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	gormio "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	adapter "github.com/authstarter/go-auth-starter/internal/logger/adapter/gorm"
)

func testContext(buf *bytes.Buffer) context.Context {
	l := zerolog.New(buf).Level(zerolog.TraceLevel)

	return l.WithContext(context.Background())
}

func statement() (string, int64) {
	return "SELECT * FROM `users`", 2
}

func TestTrace(t *testing.T) {
	type testCase struct {
		name     string
		cfg      adapter.Config
		level    gormlogger.LogLevel
		begin    time.Time
		err      error
		contains []string
		empty    bool
	}

	testCases := []testCase{
		{
			name:     "error is logged",
			cfg:      adapter.ConfigDefault,
			level:    gormlogger.Warn,
			begin:    time.Now(),
			err:      errors.New("broken pipe"), //nolint:goerr113
			contains: []string{`"level":"error"`, "broken pipe", "SELECT * FROM `users`"},
		},
		{
			name:  "record not found is ignored",
			cfg:   adapter.ConfigDefault,
			level: gormlogger.Warn,
			begin: time.Now(),
			err:   gormio.ErrRecordNotFound,
			empty: true,
		},
		{
			name:     "record not found is logged if configured",
			cfg:      adapter.Config{IgnoreRecordNotFound: false},
			level:    gormlogger.Warn,
			begin:    time.Now(),
			err:      gormio.ErrRecordNotFound,
			contains: []string{`"level":"error"`},
		},
		{
			name:     "slow statement is a warning",
			cfg:      adapter.Config{SlowThreshold: time.Millisecond},
			level:    gormlogger.Warn,
			begin:    time.Now().Add(-time.Second),
			contains: []string{`"level":"warn"`, `"rows":2`},
		},
		{
			name:  "fast statement is quiet on warn",
			cfg:   adapter.ConfigDefault,
			level: gormlogger.Warn,
			begin: time.Now(),
			empty: true,
		},
		{
			name:     "every statement on info",
			cfg:      adapter.ConfigDefault,
			level:    gormlogger.Info,
			begin:    time.Now(),
			contains: []string{`"level":"debug"`, `"sql"`},
		},
		{
			name:  "silent",
			cfg:   adapter.ConfigDefault,
			level: gormlogger.Silent,
			begin: time.Now(),
			err:   errors.New("ignored"), //nolint:goerr113
			empty: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			l := adapter.New(tc.cfg).LogMode(tc.level)
			l.Trace(testContext(&buf), tc.begin, statement, tc.err)

			if tc.empty {
				assert.Empty(t, buf.String())
				return
			}

			for _, c := range tc.contains {
				assert.Contains(t, buf.String(), c)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer

	ctx := testContext(&buf)
	l := adapter.New()

	l.Info(ctx, "hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warn(ctx, "warned %d", 2)
	assert.Contains(t, buf.String(), "warned 2")

	l.Error(ctx, "failed %s", "hard")
	assert.Contains(t, buf.String(), "failed hard")

	buf.Reset()
	adapter.New(adapter.Config{Debug: true}).Info(ctx, "shown")
	assert.Contains(t, buf.String(), "shown")
}
