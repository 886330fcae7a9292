package fiber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authstarter/go-auth-starter/internal/logger"
	adapter "github.com/authstarter/go-auth-starter/internal/logger/adapter/fiber"
)

// expectedLoggerJSONFormat implements loggers default json format.
type expectedLoggerJSONFormat struct {
	IP        net.IP `json:"IP"`
	Status    int    `json:"status"`
	URI       string `json:"URI"`
	Method    string `json:"method"`
	Host      string `json:"host"`
	RequestID string `json:"request_id"`
	UserID    uint64 `json:"user_id"`
	Error     string `json:"error"`
}

var errBoom = errors.New("boom")

func newApp(cfg adapter.Config) *fiber.App {
	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})

	app.Use(requestid.New(requestid.Config{Generator: func() string { return "req-1" }}))
	app.Use(adapter.New(cfg))

	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("hello test")
	})
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})
	app.Get("/me", func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", uint64(7))
		return ctx.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/boom", func(_ *fiber.Ctx) error {
		return errBoom
	})

	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		targetPath string
		cfg        adapter.Config
		want       *expectedLoggerJSONFormat
	}{
		{
			name:       "get / log",
			targetPath: "/",
			want:       &expectedLoggerJSONFormat{Status: 200, URI: "/", RequestID: "req-1"},
		},
		{
			name:       "get log with params",
			targetPath: "/?test=123",
			want:       &expectedLoggerJSONFormat{Status: 200, URI: "/?test=123", RequestID: "req-1"},
		},
		{
			name:       "get multiples slash",
			targetPath: "//test",
			want:       &expectedLoggerJSONFormat{Status: 404, URI: "//test", RequestID: "req-1"},
		},
		{
			name:       "chain error is logged with final status",
			targetPath: "/boom",
			want:       &expectedLoggerJSONFormat{Status: 500, URI: "/boom", RequestID: "req-1", Error: "boom"},
		},
		{
			name:       "extra fields",
			targetPath: "/me",
			cfg: adapter.Config{
				Fields: func(c *fiber.Ctx, e *zerolog.Event) {
					if id, ok := c.Locals("user_id").(uint64); ok {
						e.Uint64("user_id", id)
					}
				},
			},
			want: &expectedLoggerJSONFormat{Status: 204, URI: "/me", RequestID: "req-1", UserID: 7},
		},
		{
			name:       "health not logged",
			targetPath: "/health",
			cfg: adapter.Config{
				Config:        logger.Log{DisableCheckAlive: true},
				CheckAliveURI: "/health",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			cfg := tt.cfg
			cfg.Output = &buf

			resp, err := newApp(cfg).Test(httptest.NewRequest(fiber.MethodGet, tt.targetPath, nil))
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			if tt.want == nil {
				assert.Empty(t, buf.String())
				return
			}

			var got expectedLoggerJSONFormat
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())

			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.URI, got.URI)
			assert.Equal(t, fiber.MethodGet, got.Method)
			assert.Equal(t, "example.com", got.Host)
			assert.Equal(t, net.ParseIP("0.0.0.0"), got.IP)
			assert.Equal(t, tt.want.RequestID, got.RequestID)
			assert.Equal(t, tt.want.UserID, got.UserID)
			assert.Equal(t, tt.want.Error, got.Error)
		})
	}
}

func TestNewConsoleOutput(t *testing.T) {
	tests := []struct {
		name       string
		cfg        logger.Log
		wantOutput bool
	}{
		{name: "nothing enabled", cfg: logger.Log{}},
		{name: "console without access log", cfg: logger.Log{Console: logger.Console{Enabled: true}}},
		{
			name:       "console json",
			cfg:        logger.Log{EnableAccessLogToConsole: true, Console: logger.Console{Enabled: true}},
			wantOutput: true,
		},
		{
			name: "console writer",
			cfg: logger.Log{
				EnableAccessLogToConsole: true,
				Console:                  logger.Console{Enabled: true, UseConsoleWriter: true, NoColor: true},
			},
			wantOutput: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t, func() {
				_, err := newApp(adapter.Config{Config: tt.cfg}).Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
				require.NoError(t, err)
			})

			if tt.wantOutput {
				assert.True(t, strings.Contains(out, "GET") || strings.Contains(out, `"method"`), out)
				return
			}

			assert.Empty(t, out)
		})
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	stdout := os.Stdout

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w

	outC := make(chan string)
	// copy the output in a separate goroutine so printing can't block indefinitely
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = stdout // restoring the real stdout

	return <-outC
}
