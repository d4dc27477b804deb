package store

import (
	"context"
	"fmt"
)

// Build status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Build is one persisted pipeline run.
type Build struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Manifest    string `json:"manifest"`
	Root        string `json:"root"`
	Group       string `json:"group,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	ConfigCount int    `json:"config_count"`
}

// VerbRecord is one ledger entry of a build.
type VerbRecord struct {
	Seq       int64
	Context   string
	Verb      string
	Component string
	Args      []byte
}

// ConfigRecord is one finished config of a build.
type ConfigRecord struct {
	BuildID  string
	Position int
	Context  string
	Digest   string
	Config   []byte
}

// WriteBuild persists b with its ledger and configs in one transaction. An
// empty b.ID is generated; b.Seq is always assigned (one past the highest
// existing seq). b is updated in place.
func (s *Store) WriteBuild(ctx context.Context, b *Build, records []VerbRecord, configs []ConfigRecord) error {
	if b.Status != StatusOK && b.Status != StatusFailed {
		return fmt.Errorf("write build: invalid status %q", b.Status)
	}
	if b.ID == "" {
		b.ID = s.ids.Generate()
	}
	b.ConfigCount = len(configs)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write build: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM builds`).Scan(&b.Seq); err != nil {
		return fmt.Errorf("write build: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO builds
		(id, seq, manifest, root, grp, status, error, config_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID,
		b.Seq,
		b.Manifest,
		b.Root,
		b.Group,
		b.Status,
		b.Error,
		b.ConfigCount,
	)
	if err != nil {
		return fmt.Errorf("write build: %w", err)
	}

	for _, r := range records {
		args := r.Args
		if len(args) == 0 {
			args = []byte("[]")
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO verb_records
			(build_id, seq, context, verb, component, args)
			VALUES (?, ?, ?, ?, ?, ?)
		`, b.ID, r.Seq, r.Context, r.Verb, r.Component, string(args))
		if err != nil {
			return fmt.Errorf("write build: verb record %d: %w", r.Seq, err)
		}
	}

	for _, c := range configs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO configs
			(build_id, position, context, digest, config)
			VALUES (?, ?, ?, ?, ?)
		`, b.ID, c.Position, c.Context, c.Digest, string(c.Config))
		if err != nil {
			return fmt.Errorf("write build: config %d: %w", c.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write build: commit: %w", err)
	}
	return nil
}
