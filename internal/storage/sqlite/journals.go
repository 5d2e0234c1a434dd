package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/circlefund/internal/models"
)

type ledgerEntryRow struct {
	ID         string `db:"id"`
	CircleID   string `db:"circle_id"`
	Principal  string `db:"principal"`
	Kind       string `db:"kind"`
	Amount     int64  `db:"amount"`
	Month      int    `db:"month"`
	OccurredAt int64  `db:"occurred_at"`
}

type automationEventRow struct {
	ID         string         `db:"id"`
	CircleID   string         `db:"circle_id"`
	Kind       string         `db:"kind"`
	Month      int            `db:"month"`
	OccurredAt int64          `db:"occurred_at"`
	Success    bool           `db:"success"`
	Error      sql.NullString `db:"error"`
}

// AppendLedgerEntry journals an escrow movement, assigning an ID if unset.
// Amounts are stored as the bit pattern of the uint64 so the full range
// round-trips through SQLite's signed integers.
func (t *sqliteTx) AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (id, circle_id, principal, kind, amount, month, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.CircleID, entry.Principal, string(entry.Kind),
		int64(entry.Amount), entry.Month, entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// ListLedgerEntries returns a circle's journal in insertion order.
func (t *sqliteTx) ListLedgerEntries(ctx context.Context, circleID string) ([]models.LedgerEntry, error) {
	var rows []ledgerEntryRow
	err := t.tx.SelectContext(ctx, &rows,
		`SELECT id, circle_id, principal, kind, amount, month, occurred_at
		 FROM ledger_entries WHERE circle_id = ? ORDER BY seq`,
		circleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	entries := make([]models.LedgerEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, models.LedgerEntry{
			ID:         r.ID,
			CircleID:   r.CircleID,
			Principal:  r.Principal,
			Kind:       models.EntryKind(r.Kind),
			Amount:     uint64(r.Amount),
			Month:      r.Month,
			OccurredAt: r.OccurredAt,
		})
	}
	return entries, nil
}

// AppendAutomationEvent records a trigger attempt, assigning an ID if unset.
func (t *sqliteTx) AppendAutomationEvent(ctx context.Context, event *models.AutomationEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	var errText any
	if event.Error != "" {
		errText = event.Error
	}

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO automation_events (id, circle_id, kind, month, occurred_at, success, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.CircleID, string(event.Kind), event.Month, event.Timestamp, event.Success, errText,
	)
	if err != nil {
		return fmt.Errorf("failed to insert automation event: %w", err)
	}
	return nil
}

// ListAutomationEvents returns a circle's automation events in insertion order.
func (t *sqliteTx) ListAutomationEvents(ctx context.Context, circleID string) ([]models.AutomationEvent, error) {
	var rows []automationEventRow
	err := t.tx.SelectContext(ctx, &rows,
		`SELECT id, circle_id, kind, month, occurred_at, success, error
		 FROM automation_events WHERE circle_id = ? ORDER BY seq`,
		circleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list automation events: %w", err)
	}

	events := make([]models.AutomationEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, models.AutomationEvent{
			ID:        r.ID,
			CircleID:  r.CircleID,
			Kind:      models.AutomationEventKind(r.Kind),
			Month:     r.Month,
			Timestamp: r.OccurredAt,
			Success:   r.Success,
			Error:     r.Error.String,
		})
	}
	return events, nil
}
