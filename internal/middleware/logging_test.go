package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"connectrpc.com/connect"
)

// captureLogs routes the default logger into a JSON buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		err       error
		wantLevel string
		wantMsg   string
		wantCode  string
	}{
		{"ok", "alice", nil, "INFO", "RPC ok", ""},
		{"domain rejection", "alice", connect.NewError(connect.CodeFailedPrecondition, errors.New("CircleFull")), "WARN", "RPC error", "failed_precondition"},
		{"internal", "", connect.NewError(connect.CodeInternal, errors.New("disk full")), "ERROR", "RPC error", "internal"},
		{"plain error", "", errors.New("boom"), "ERROR", "RPC error", "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			handler := LoggingInterceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return connect.NewResponse(&ping{}), nil
			})

			ctx := context.Background()
			if tt.principal != "" {
				ctx = WithPrincipal(ctx, tt.principal)
			}
			_, err := handler(ctx, connect.NewRequest(&ping{}))
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}

			var record map[string]any
			if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
				t.Fatalf("failed to decode log record %q: %v", buf.String(), err)
			}
			if record["level"] != tt.wantLevel || record["msg"] != tt.wantMsg {
				t.Errorf("record = %v, want %s %q", record, tt.wantLevel, tt.wantMsg)
			}
			wantCaller := tt.principal
			if wantCaller == "" {
				wantCaller = "anonymous"
			}
			if record["caller"] != wantCaller {
				t.Errorf("caller = %v, want %s", record["caller"], wantCaller)
			}
			if tt.wantCode != "" && record["code"] != tt.wantCode {
				t.Errorf("code = %v, want %s", record["code"], tt.wantCode)
			}
		})
	}
}
