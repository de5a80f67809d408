package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned by ReadRun for an unknown run token.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns one archived run by its token.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, end_node, quantity, due_date, success, fulfilled, root_cause, total_cost, created_at
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("read run: %w", err)
	}
	return run, nil
}

// ListRuns returns archived runs, newest first. limit <= 0 means no limit.
//
// Returns an empty slice (not nil) when the archive is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT id, end_node, quantity, due_date, success, fulfilled, root_cause, total_cost, created_at
		FROM runs
		ORDER BY created_at DESC, id ASC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("read run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// ReadAlerts returns the alerts archived for a run, in rule then entity
// order.
func (s *Store) ReadAlerts(ctx context.Context, runID string) ([]AlertRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, rule_code, entity_id, severity, message, sla_minutes, ts
		FROM alerts
		WHERE run_id = ?
		ORDER BY rule_code ASC, entity_id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []AlertRecord{}
	for rows.Next() {
		var a AlertRecord
		var ts string
		if err := rows.Scan(&a.RunID, &a.RuleCode, &a.EntityID, &a.Severity, &a.Message, &a.SLAMinutes, &ts); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if a.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse alert timestamp: %w", err)
		}
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}

	return alerts, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var run RunRecord
	var success int
	var due, created string

	err := s.Scan(&run.ID, &run.EndNode, &run.Quantity, &due, &success,
		&run.Fulfilled, &run.RootCause, &run.TotalCost, &created)
	if err != nil {
		return RunRecord{}, err
	}

	run.Success = success != 0
	if run.DueDate, err = time.Parse(time.RFC3339, due); err != nil {
		return RunRecord{}, fmt.Errorf("parse due date: %w", err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return RunRecord{}, fmt.Errorf("parse created at: %w", err)
	}
	return run, nil
}
