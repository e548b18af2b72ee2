package ledger_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"peaksite/internal/ledger"
	"peaksite/internal/testsupport"
)

func TestBuildLifecycle(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.BeginBuild(ctx, "b1", start); err != nil {
		t.Fatalf("BeginBuild: %v", err)
	}
	b, err := store.GetBuild(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBuild: %v", err)
	}
	if b.Status != ledger.StatusRunning || b.Duration() != 0 {
		t.Fatalf("unexpected running build %+v", b)
	}

	err = store.RecordAssets(ctx, []ledger.Asset{
		{BuildID: "b1", Kind: ledger.KindAudio, Source: "rosa5.wav", Hash: "1a2b3c4d", Output: "rosa5-1a2b3c4d.webm", Generated: true},
		{BuildID: "b1", Kind: ledger.KindDat, Source: "rosa5.wav", Hash: "1a2b3c4d", Output: "rosa5-1a2b3c4d.dat"},
	})
	if err != nil {
		t.Fatalf("RecordAssets: %v", err)
	}
	if err := store.FinishBuild(ctx, "b1", start.Add(2*time.Second), nil); err != nil {
		t.Fatalf("FinishBuild: %v", err)
	}

	b, err = store.GetBuild(ctx, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if b.Status != ledger.StatusSucceeded || b.Assets != 2 || b.Duration() != 2*time.Second {
		t.Fatalf("unexpected finished build %+v", b)
	}

	assets, err := store.AssetsForBuild(ctx, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 2 || assets[0].Output != "rosa5-1a2b3c4d.dat" || assets[1].Generated != true {
		t.Fatalf("unexpected assets %+v", assets)
	}
}

func TestFailedBuildKeepsMessage(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	now := time.Now()
	if err := store.BeginBuild(ctx, "b2", now); err != nil {
		t.Fatal(err)
	}
	if err := store.FinishBuild(ctx, "b2", now, errors.New("ffmpeg exploded")); err != nil {
		t.Fatal(err)
	}
	b, err := store.GetBuild(ctx, "b2")
	if err != nil {
		t.Fatal(err)
	}
	if b.Status != ledger.StatusFailed || b.Error != "ffmpeg exploded" {
		t.Fatalf("unexpected build %+v", b)
	}
}

func TestFinishUnknownBuild(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	err := store.FinishBuild(context.Background(), "missing", time.Now(), nil)
	if !errors.Is(err, ledger.ErrBuildNotFound) {
		t.Fatalf("expected ErrBuildNotFound, got %v", err)
	}
	if _, err := store.GetBuild(context.Background(), "missing"); !errors.Is(err, ledger.ErrBuildNotFound) {
		t.Fatalf("expected ErrBuildNotFound, got %v", err)
	}
}

func TestRecentBuildsNewestFirst(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Sub-second offsets check ordering of fractional timestamps.
	offsets := []time.Duration{0, 1500 * time.Millisecond, time.Second}
	for i, off := range offsets {
		if err := store.BeginBuild(ctx, string(rune('a'+i)), base.Add(off)); err != nil {
			t.Fatal(err)
		}
	}
	builds, err := store.RecentBuilds(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(builds) != 2 || builds[0].ID != "b" || builds[1].ID != "c" {
		t.Fatalf("unexpected order %+v", builds)
	}
}

func TestFirstSeen(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if _, ok, err := store.FirstSeen(ctx, "x.webm"); err != nil || ok {
		t.Fatalf("expected no record, got ok=%v err=%v", ok, err)
	}
	first := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"one", "two"} {
		if err := store.BeginBuild(ctx, id, first); err != nil {
			t.Fatal(err)
		}
		err := store.RecordAssets(ctx, []ledger.Asset{{
			BuildID: id, Kind: ledger.KindAudio, Source: "x.wav", Output: "x.webm",
			RecordedAt: first.Add(time.Duration(i) * time.Hour),
		}})
		if err != nil {
			t.Fatal(err)
		}
	}
	seen, ok, err := store.FirstSeen(ctx, "x.webm")
	if err != nil || !ok || !seen.Equal(first) {
		t.Fatalf("FirstSeen = %v %v %v", seen, ok, err)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := ledger.OpenPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.BeginBuild(context.Background(), "persist", time.Now()); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := ledger.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetBuild(context.Background(), "persist"); err != nil {
		t.Fatalf("expected build to survive reopen: %v", err)
	}
}
