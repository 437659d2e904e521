package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/openkalah/server/internal/game/storage"
)

const (
	reminderDeadLetterThreshold = 8
	reminderProcessingLease     = 2 * time.Minute
)

// reminderRetryBackoff doubles per attempt from one second, capped at
// five minutes.
func reminderRetryBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	backoff := time.Second << (attempt - 1)
	if backoff > 5*time.Minute {
		return 5 * time.Minute
	}
	return backoff
}

// ClaimDueReminders claims up to limit due outbox entries by flipping
// them to processing inside one transaction. Entries stuck in
// processing past the lease are reclaimed, so a crashed worker cannot
// strand them.
func (s *Store) ClaimDueReminders(ctx context.Context, now time.Time, limit int) ([]storage.ReminderEntry, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if limit <= 0 {
		return nil, nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin reminder claim tx: %w", err)
	}
	defer tx.Rollback()

	staleBefore := now.Add(-reminderProcessingLease)
	rows, err := tx.QueryContext(
		ctx,
		`SELECT id, match_id, player_id, attempt_count, next_attempt_at, last_error
		 FROM reminder_outbox
		 WHERE (
			 status IN ('pending', 'failed') AND next_attempt_at <= ?
		 ) OR (
			 status = 'processing' AND updated_at <= ?
		 )
		 ORDER BY next_attempt_at, id
		 LIMIT ?`,
		toMillis(now),
		toMillis(staleBefore),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	defer rows.Close()

	candidates := make([]storage.ReminderEntry, 0, limit)
	for rows.Next() {
		var entry storage.ReminderEntry
		var nextAttempt int64
		if err := rows.Scan(&entry.ID, &entry.MatchID, &entry.PlayerID, &entry.AttemptCount, &nextAttempt, &entry.LastError); err != nil {
			return nil, fmt.Errorf("scan due reminder: %w", err)
		}
		entry.NextAttempt = fromMillis(nextAttempt)
		candidates = append(candidates, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due reminders: %w", err)
	}

	claimed := make([]storage.ReminderEntry, 0, len(candidates))
	for _, candidate := range candidates {
		result, err := tx.ExecContext(
			ctx,
			`UPDATE reminder_outbox
			 SET status = 'processing', updated_at = ?
			 WHERE id = ?
			   AND (
			   	(status IN ('pending', 'failed') AND next_attempt_at <= ?)
			   	OR (status = 'processing' AND updated_at <= ?)
			   )`,
			toMillis(now),
			candidate.ID,
			toMillis(now),
			toMillis(staleBefore),
		)
		if err != nil {
			return nil, fmt.Errorf("claim reminder %d: %w", candidate.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("claim reminder rows affected %d: %w", candidate.ID, err)
		}
		if affected == 1 {
			claimed = append(claimed, candidate)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reminder claim tx: %w", err)
	}
	return claimed, nil
}

// MarkReminderSent deletes a dispatched outbox entry.
func (s *Store) MarkReminderSent(ctx context.Context, id int64) error {
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM reminder_outbox WHERE id = ? AND status = 'processing'`,
		id,
	)
	if err != nil {
		return fmt.Errorf("complete reminder %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete reminder rows affected %d: %w", id, err)
	}
	if affected != 1 {
		return fmt.Errorf("complete reminder %d: expected 1 row deleted, got %d", id, affected)
	}
	return nil
}

// MarkReminderFailed records a failed attempt, scheduling the retry
// with exponential backoff or dead-lettering once attempts run out.
func (s *Store) MarkReminderFailed(ctx context.Context, id int64, dispatchErr error, now time.Time) error {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	lastError := ""
	if dispatchErr != nil {
		lastError = dispatchErr.Error()
	}

	var attemptCount int
	if err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT attempt_count FROM reminder_outbox WHERE id = ?`,
		id,
	).Scan(&attemptCount); err != nil {
		return fmt.Errorf("read reminder %d attempts: %w", id, err)
	}

	attempt := attemptCount + 1
	status := "failed"
	if attempt >= reminderDeadLetterThreshold {
		status = "dead"
	}
	nextAttempt := now.Add(reminderRetryBackoff(attempt))

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE reminder_outbox
		 SET status = ?, attempt_count = ?, next_attempt_at = ?, last_error = ?, updated_at = ?
		 WHERE id = ? AND status = 'processing'`,
		status,
		attempt,
		toMillis(nextAttempt),
		lastError,
		toMillis(now),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark reminder retry %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark reminder retry rows affected %d: %w", id, err)
	}
	if affected != 1 {
		return fmt.Errorf("mark reminder retry %d: expected 1 row updated, got %d", id, affected)
	}
	return nil
}
