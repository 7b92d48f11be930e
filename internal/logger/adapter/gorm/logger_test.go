package gorm_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/logger"
	adapter "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/logger/adapter/gorm"
)

func TestNew(t *testing.T) {
	assert.Equal(t, adapter.DefaultSlowThreshold, adapter.New().SlowThreshold)
	assert.Equal(t, time.Second, adapter.New(time.Second).SlowThreshold)
	assert.Equal(t, adapter.DefaultSlowThreshold, adapter.New(0).SlowThreshold)
}

func TestAdapter(t *testing.T) {
	type testCase struct {
		name     string
		cfg      logger.Log
		mode     gormlogger.LogLevel
		trace    func(l gormlogger.Interface)
		contains string
		empty    bool
	}

	console := logger.Log{
		LogLevel:    "trace",
		ServiceName: "test",
		AppName:     "test",
		Console:     logger.Console{Enabled: true},
	}

	sql := func() (string, int64) { return "SELECT * FROM `roles`", 3 }

	testCases := []testCase{
		{
			name: "statement at trace level",
			cfg:  console,
			mode: gormlogger.Info,
			trace: func(l gormlogger.Interface) {
				l.Trace(context.Background(), time.Now(), sql, nil)
			},
			contains: "SELECT * FROM `roles`",
		},
		{
			name: "failed statement",
			cfg:  console,
			mode: gormlogger.Error,
			trace: func(l gormlogger.Interface) {
				l.Trace(context.Background(), time.Now(), sql, errors.New("no such table: roles"))
			},
			contains: "no such table: roles",
		},
		{
			name: "record not found is quiet at error mode",
			cfg:  console,
			mode: gormlogger.Error,
			trace: func(l gormlogger.Interface) {
				l.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
			},
			empty: true,
		},
		{
			name: "slow statement",
			cfg:  console,
			mode: gormlogger.Warn,
			trace: func(l gormlogger.Interface) {
				l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
			},
			contains: "slowThreshold",
		},
		{
			name: "silent",
			cfg:  console,
			mode: gormlogger.Silent,
			trace: func(l gormlogger.Interface) {
				l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
				l.Error(context.Background(), "boom %d", 1)
			},
			empty: true,
		},
		{
			name: "printf style warning",
			cfg:  console,
			mode: gormlogger.Warn,
			trace: func(l gormlogger.Interface) {
				l.Warn(context.Background(), "join table %s", "user_roles")
			},
			contains: "join table user_roles",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := captureOutput(t, tc.cfg, func() {
				tc.trace(adapter.New().LogMode(tc.mode))
			})

			if tc.empty {
				assert.Empty(t, out)

				return
			}

			assert.Contains(t, out, tc.contains)
			assert.Contains(t, out, `"component":"gorm"`)
		})
	}
}

func captureOutput(t *testing.T, cfg logger.Log, fn func()) string {
	t.Helper()
	// keep default std out
	stdout := os.Stdout
	stderr := os.Stderr

	// capture stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	if err := logger.Init(cfg); err != nil {
		t.Error(err)
	}

	fn()

	outC := make(chan string)
	// copy the output in a separate goroutine so printing can't block indefinitely
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	// back to normal state
	_ = w.Close()
	os.Stdout = stdout // restoring the real stdout
	os.Stderr = stderr // restoring the real stderr

	return <-outC
}
