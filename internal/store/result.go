package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type resultRepo struct {
	db *sql.DB
}

var resultColumns = []string{
	"id", "user_id", "test_type", "test_number", "status",
	"completed_at", "received_at", "payload",
}

func (r *resultRepo) SaveResult(ctx context.Context, data ResultData) error {
	query, args := builder().Insert(ResultsTable.Name).
		Columns(resultColumns...).
		Values(
			data.ID, data.UserID, data.TestType, data.TestNumber, data.Status,
			data.CompletedAt.UTC(), data.ReceivedAt.UTC(), string(data.Payload),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (r *resultRepo) ResultsForUser(ctx context.Context, userID string, limit int) ([]ResultData, error) {
	b := builder()
	sel := b.Select(resultColumns...).
		From(b.Table(ResultsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("received_at"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultData
	for rows.Next() {
		var (
			d       ResultData
			payload string
		)
		if err := rows.Scan(&d.ID, &d.UserID, &d.TestType, &d.TestNumber, &d.Status,
			&d.CompletedAt, &d.ReceivedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		d.Payload = []byte(payload)
		out = append(out, d)
	}
	return out, rows.Err()
}
