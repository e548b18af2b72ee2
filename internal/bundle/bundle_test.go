package bundle

import (
	"context"
	"errors"
	"slices"
	"testing"

	"peaksite/internal/services"
	"peaksite/internal/testsupport"
)

func TestCommandArguments(t *testing.T) {
	b := &Bundler{Tool: "bun", Entrypoint: "src/index.html", OutputDir: "public", Minify: true}
	cmd := b.Command(map[string]string{
		"PEAKSITE_DAT":   "rosa5-1a2b3c4d.dat",
		"PEAKSITE_AUDIO": `say "hi".webm`,
	})
	want := []string{
		"build", "src/index.html", "--outdir", "public", "--minify",
		"--define", `PEAKSITE_AUDIO="say \"hi\".webm"`,
		"--define", `PEAKSITE_DAT="rosa5-1a2b3c4d.dat"`,
	}
	if cmd.Name != "bun" || !slices.Equal(cmd.Args, want) {
		t.Fatalf("unexpected command %s", cmd)
	}

	b.Minify = false
	if slices.Contains(b.Command(nil).Args, "--minify") {
		t.Fatal("minify flag should be omitted when disabled")
	}
}

func TestRunRequiresEntrypoint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner := &testsupport.FakeRunner{}
	err := New(cfg, runner, nil).Run(context.Background(), nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if len(runner.Commands()) != 0 {
		t.Fatal("bundler must not run without an entry point")
	}
}

func TestRunWrapsToolFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteContent(t, cfg.Paths.Entrypoint, []byte("<html></html>"))
	runner := &testsupport.FakeRunner{Fail: map[string]error{"bun": errors.New("exit status 1")}}

	err := New(cfg, runner, nil).Run(context.Background(), nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}
