package store

import (
	"context"
	"fmt"
	"time"
)

// WriteRun inserts a run record into the archive.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate run tokens
// are silently ignored. Other constraint violations (e.g., NOT NULL)
// will still return errors.
func (s *Store) WriteRun(ctx context.Context, run RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, end_node, quantity, due_date, success, fulfilled, root_cause, total_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.EndNode,
		run.Quantity,
		run.DueDate.UTC().Format(time.RFC3339),
		boolToInt(run.Success),
		run.Fulfilled,
		run.RootCause,
		run.TotalCost,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}

// WriteAlerts inserts the alerts of a run in one transaction.
// A (run_id, rule_code, entity_id) triple is written at most once; the
// run referenced must already exist (foreign key constraint).
func (s *Store) WriteAlerts(ctx context.Context, alerts []AlertRecord) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write alerts: %w", err)
	}
	defer tx.Rollback()

	for _, a := range alerts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO alerts
			(run_id, rule_code, entity_id, severity, message, sla_minutes, ts)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			a.RunID,
			a.RuleCode,
			a.EntityID,
			a.Severity,
			a.Message,
			a.SLAMinutes,
			a.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("write alert %s/%s: %w", a.RuleCode, a.EntityID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write alerts: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
