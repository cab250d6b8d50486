package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LoadSnapshot returns the stored document for name, or nil when none exists.
func (s *Store) LoadSnapshot(name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	return data, nil
}

// SaveSnapshot overwrites the document stored under name.
func (s *Store) SaveSnapshot(name string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO snapshots (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, data, now,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", name, err)
	}
	return nil
}

func (s *Store) ListSnapshots() ([]Snapshot, error) {
	rows, err := s.db.Query(`SELECT name, data, updated_at FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var sn Snapshot
		var updatedAt string
		if err := rows.Scan(&sn.Name, &sn.Data, &updatedAt); err != nil {
			return nil, err
		}
		sn.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		snaps = append(snaps, sn)
	}
	return snaps, rows.Err()
}

// DeleteSnapshot removes the document and its segment log.
func (s *Store) DeleteSnapshot(name string) error {
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	return s.ClearSegments(name)
}
