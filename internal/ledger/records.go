package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Status values for a build row.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Asset kinds.
const (
	KindAudio    = "audio"
	KindWaveform = "peaks"
	KindDat      = "dat"
	KindImage    = "image"
	KindBundle   = "bundle"
)

// Build is one recorded build run.
type Build struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Error      string
	Assets     int
}

// Duration is zero while the build is still running.
func (b Build) Duration() time.Duration {
	if b.FinishedAt.IsZero() {
		return 0
	}
	return b.FinishedAt.Sub(b.StartedAt)
}

// Asset is one derived file a build produced or reused.
type Asset struct {
	BuildID    string
	Kind       string
	Source     string
	Hash       string
	Output     string
	Generated  bool
	RecordedAt time.Time
}

// BeginBuild inserts a running build row.
func (s *Store) BeginBuild(ctx context.Context, id string, startedAt time.Time) error {
	_, err := s.exec(ctx,
		`INSERT INTO builds (id, started_at, status) VALUES (?, ?, ?)`,
		id, formatTime(startedAt), StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("begin build %s: %w", id, err)
	}
	return nil
}

// FinishBuild marks a build succeeded, or failed when buildErr is non-nil.
func (s *Store) FinishBuild(ctx context.Context, id string, finishedAt time.Time, buildErr error) error {
	status := StatusSucceeded
	var message sql.NullString
	if buildErr != nil {
		status = StatusFailed
		message = sql.NullString{String: buildErr.Error(), Valid: true}
	}
	res, err := s.exec(ctx,
		`UPDATE builds SET finished_at = ?, status = ?, error_message = ? WHERE id = ?`,
		formatTime(finishedAt), status, message, id,
	)
	if err != nil {
		return fmt.Errorf("finish build %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	}
	return nil
}

// RecordAssets stores the assets of one build in a single transaction.
func (s *Store) RecordAssets(ctx context.Context, assets []Asset) error {
	if len(assets) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO assets (build_id, kind, source, hash, output, generated, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, a := range assets {
			recorded := a.RecordedAt
			if recorded.IsZero() {
				recorded = time.Now()
			}
			if _, err := stmt.ExecContext(ctx,
				a.BuildID, a.Kind, a.Source, a.Hash, a.Output, boolToInt(a.Generated), formatTime(recorded),
			); err != nil {
				return fmt.Errorf("record asset %s: %w", a.Output, err)
			}
		}
		return tx.Commit()
	})
}

// GetBuild returns one build with its asset count.
func (s *Store) GetBuild(ctx context.Context, id string) (Build, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), buildSelect+` WHERE b.id = ? GROUP BY b.id`, id)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	}
	return b, err
}

// RecentBuilds returns up to limit builds, newest first.
func (s *Store) RecentBuilds(ctx context.Context, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		buildSelect+` GROUP BY b.id ORDER BY b.started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// AssetsForBuild returns the assets recorded for a build ordered by output name.
func (s *Store) AssetsForBuild(ctx context.Context, buildID string) ([]Asset, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT build_id, kind, source, COALESCE(hash, ''), output, generated, recorded_at
		 FROM assets WHERE build_id = ? ORDER BY output`, buildID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		var (
			a         Asset
			generated int
			recorded  string
		)
		if err := rows.Scan(&a.BuildID, &a.Kind, &a.Source, &a.Hash, &a.Output, &generated, &recorded); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.Generated = generated != 0
		a.RecordedAt = parseTime(recorded)
		out = append(out, a)
	}
	return out, rows.Err()
}

// FirstSeen returns when output was first recorded by any build.
func (s *Store) FirstSeen(ctx context.Context, output string) (time.Time, bool, error) {
	var recorded sql.NullString
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT MIN(recorded_at) FROM assets WHERE output = ?`, output).Scan(&recorded)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("first seen %s: %w", output, err)
	}
	if !recorded.Valid {
		return time.Time{}, false, nil
	}
	return parseTime(recorded.String), true, nil
}

const buildSelect = `SELECT b.id, b.started_at, COALESCE(b.finished_at, ''), b.status,
	COALESCE(b.error_message, ''), COUNT(a.id)
	FROM builds b LEFT JOIN assets a ON a.build_id = b.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(row rowScanner) (Build, error) {
	var (
		b                 Build
		started, finished string
	)
	if err := row.Scan(&b.ID, &started, &finished, &b.Status, &b.Error, &b.Assets); err != nil {
		return Build{}, err
	}
	b.StartedAt = parseTime(started)
	b.FinishedAt = parseTime(finished)
	return b, nil
}

// timeLayout has a fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
