package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestTeeCollapses(t *testing.T) {
	if _, ok := tee(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}

	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := tee(nil, inner); h != inner {
		t.Fatal("expected single handler to be returned unwrapped")
	}
}

func TestTeeRespectsMemberLevels(t *testing.T) {
	var terminal, buildLog bytes.Buffer
	info := newJSONHandler(&terminal, slog.LevelInfo, false)
	debug := newJSONHandler(&buildLog, slog.LevelDebug, false)

	logger := slog.New(tee(info, debug))
	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug enabled through the build log member")
	}

	logger.Debug("derived audio cached")
	if terminal.Len() != 0 {
		t.Fatalf("terminal received debug record: %q", terminal.String())
	}
	if buildLog.Len() == 0 {
		t.Fatal("build log missed debug record")
	}

	logger.With("build_id", "b1").WithGroup("tool").Info("ran", "exit", 0)
	if !bytes.Contains(terminal.Bytes(), []byte(`"build_id":"b1"`)) || !bytes.Contains(buildLog.Bytes(), []byte(`"tool":{"exit":0}`)) {
		t.Fatalf("attrs or groups not propagated: %q / %q", terminal.String(), buildLog.String())
	}
}

func TestJSONHandlerFormatsDurations(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newJSONHandler(&buf, slog.LevelInfo, false)).Info("build complete", Duration("elapsed", 1500000000))
	if !bytes.Contains(buf.Bytes(), []byte(`"elapsed":"1.5s"`)) {
		t.Fatalf("expected readable duration, got %q", buf.String())
	}
}
