package services_test

import (
	"errors"
	"strings"
	"testing"

	"peaksite/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "audio", "webm", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"audio", "webm", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "", "", "", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	if code := services.ExitCode(nil); code != 0 {
		t.Fatalf("expected 0 for nil error, got %d", code)
	}
	configErr := services.Wrap(services.ErrConfiguration, "config", "load", "bad", nil)
	if code := services.ExitCode(configErr); code != 2 {
		t.Fatalf("expected 2 for configuration error, got %d", code)
	}
	toolErr := services.Wrap(services.ErrExternalTool, "audio", "dat", "crashed", errors.New("exit 1"))
	if code := services.ExitCode(toolErr); code != 1 {
		t.Fatalf("expected 1 for tool error, got %d", code)
	}
}
