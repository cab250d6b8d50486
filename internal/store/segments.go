package store

import (
	"fmt"
	"time"
)

// RecordSegment appends one finished timer run to the log for snapshot.
func (s *Store) RecordSegment(snapshot string, start, end time.Time, durationMs int64) error {
	_, err := s.db.Exec(
		`INSERT INTO timer_segments (snapshot, started_at, ended_at, duration_ms) VALUES (?, ?, ?, ?)`,
		snapshot, start.UnixMilli(), end.UnixMilli(), durationMs,
	)
	if err != nil {
		return fmt.Errorf("record segment: %w", err)
	}
	return nil
}

// ListSegments returns the runs logged for snapshot, oldest first.
func (s *Store) ListSegments(snapshot string) ([]Segment, error) {
	rows, err := s.db.Query(
		`SELECT id, snapshot, started_at, ended_at, duration_ms
		 FROM timer_segments WHERE snapshot = ? ORDER BY started_at, id`, snapshot,
	)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var segs []Segment
	for rows.Next() {
		var sg Segment
		var startMs, endMs int64
		if err := rows.Scan(&sg.ID, &sg.Snapshot, &startMs, &endMs, &sg.DurationMs); err != nil {
			return nil, err
		}
		sg.StartedAt = time.UnixMilli(startMs).UTC()
		sg.EndedAt = time.UnixMilli(endMs).UTC()
		segs = append(segs, sg)
	}
	return segs, rows.Err()
}

func (s *Store) ClearSegments(snapshot string) error {
	if _, err := s.db.Exec(`DELETE FROM timer_segments WHERE snapshot = ?`, snapshot); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}
	return nil
}

// SegmentTotal sums the logged durations for snapshot.
func (s *Store) SegmentTotal(snapshot string) (int64, error) {
	var total int64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(duration_ms), 0) FROM timer_segments WHERE snapshot = ?`, snapshot,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("segment total: %w", err)
	}
	return total, nil
}
