package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested build does not exist.
var ErrNotFound = errors.New("build not found")

const buildColumns = `id, seq, manifest, root, grp, status, error, config_count`

func scanBuild(row interface{ Scan(...any) error }) (Build, error) {
	var b Build
	err := row.Scan(&b.ID, &b.Seq, &b.Manifest, &b.Root, &b.Group, &b.Status, &b.Error, &b.ConfigCount)
	return b, err
}

// ReadBuild returns the build with the given id.
func (s *Store) ReadBuild(ctx context.Context, id string) (Build, error) {
	b, err := scanBuild(s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Build{}, fmt.Errorf("read build: %w", err)
	}
	return b, nil
}

// LatestBuild returns the build with the highest seq.
func (s *Store) LatestBuild(ctx context.Context) (Build, error) {
	b, err := scanBuild(s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds ORDER BY seq DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, ErrNotFound
	}
	if err != nil {
		return Build{}, fmt.Errorf("read latest build: %w", err)
	}
	return b, nil
}

// ListBuilds returns every build ordered by seq.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListBuilds(ctx context.Context) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+buildColumns+` FROM builds ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

// ReadRecords returns a build's verb ledger ordered by seq.
func (s *Store) ReadRecords(ctx context.Context, buildID string) ([]VerbRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, context, verb, component, args
		FROM verb_records
		WHERE build_id = ?
		ORDER BY seq ASC
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("query verb records: %w", err)
	}
	defer rows.Close()

	records := []VerbRecord{}
	for rows.Next() {
		var r VerbRecord
		var args string
		if err := rows.Scan(&r.Seq, &r.Context, &r.Verb, &r.Component, &args); err != nil {
			return nil, fmt.Errorf("scan verb record: %w", err)
		}
		r.Args = []byte(args)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verb records: %w", err)
	}
	return records, nil
}

// ReadConfigs returns a build's configs in output order.
func (s *Store) ReadConfigs(ctx context.Context, buildID string) ([]ConfigRecord, error) {
	return s.queryConfigs(ctx, `
		SELECT build_id, position, context, digest, config
		FROM configs
		WHERE build_id = ?
		ORDER BY position ASC
	`, buildID)
}

// FindConfigs returns every stored config with the given digest, oldest
// build first.
func (s *Store) FindConfigs(ctx context.Context, digest string) ([]ConfigRecord, error) {
	return s.queryConfigs(ctx, `
		SELECT c.build_id, c.position, c.context, c.digest, c.config
		FROM configs c
		JOIN builds b ON b.id = c.build_id
		WHERE c.digest = ?
		ORDER BY b.seq ASC, c.position ASC
	`, digest)
}

func (s *Store) queryConfigs(ctx context.Context, query string, args ...any) ([]ConfigRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query configs: %w", err)
	}
	defer rows.Close()

	configs := []ConfigRecord{}
	for rows.Next() {
		var c ConfigRecord
		var cfg string
		if err := rows.Scan(&c.BuildID, &c.Position, &c.Context, &c.Digest, &cfg); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		c.Config = []byte(cfg)
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate configs: %w", err)
	}
	return configs, nil
}
