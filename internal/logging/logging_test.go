package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestStartSpanNestsUnderTrace(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "info"))

	ctx, parent := StartSpan(ctx, "request")
	traceID := TraceIDFromContext(ctx)
	parentID := SpanIDFromContext(ctx)

	childCtx, child := StartSpan(ctx, "client.upload")
	if TraceIDFromContext(childCtx) != traceID {
		t.Fatal("expected child span to share the trace")
	}
	child.Fail(errors.New("bucket unavailable"))
	child.End()
	parent.End()

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected two log lines, got %d", len(entries))
	}
	if entries[0]["level"] != "WARN" || entries[0]["parent_span_id"] != parentID || entries[0]["error"] != "bucket unavailable" {
		t.Fatalf("unexpected child entry: %v", entries[0])
	}
	if entries[1]["msg"] != "span completed" || entries[1]["span_name"] != "request" {
		t.Fatalf("unexpected parent entry: %v", entries[1])
	}
}

func TestWithAppIDTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "debug"))
	ctx = WithAppID(ctx, "app-1")

	FromContext(ctx).Debug("hello")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["app_id"] != "app-1" {
		t.Fatalf("expected app id on log line, got %v", entries)
	}
	if AppIDFromContext(ctx) != "app-1" {
		t.Fatal("expected app id on context")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("%q: expected %v got %v", in, want, got)
		}
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Fatal("expected default logger")
	}
}
