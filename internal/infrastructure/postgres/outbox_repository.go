package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
)

var _ repository.OutboxRepository = (*OutboxRepo)(nil)

// OutboxRepo bandeja de salida persistente en la tabla sync_outbox.
type OutboxRepo struct {
	q Querier
}

func NewOutboxRepository(q Querier) *OutboxRepo {
	return &OutboxRepo{q: q}
}

func (r *OutboxRepo) Append(ctx context.Context, e *entity.OutboxEntry) error {
	query, args, err := psql.Insert("sync_outbox").
		Columns("id", "order_id", "kind", "payload", "state", "attempts", "next_attempt_at", "last_error", "created_at").
		Values(e.ID, e.OrderID, e.Kind, e.Payload, e.State, e.Attempts, e.NextAttemptAt, e.LastError, e.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return &domain.StorageError{Op: "outbox append", Err: err}
	}
	return nil
}

func (r *OutboxRepo) Due(ctx context.Context, now time.Time, limit int) ([]*entity.OutboxEntry, error) {
	l, _ := pageArgs(limit, 0)
	query, args, err := psql.
		Select("id", "order_id", "kind", "payload", "state", "attempts", "next_attempt_at", "last_error", "created_at", "sent_at").
		From("sync_outbox").
		Where(sq.Eq{"state": entity.OutboxPending}).
		Where(sq.LtOrEq{"next_attempt_at": now}).
		OrderBy("created_at").
		Limit(l).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "outbox due", Err: err}
	}
	defer rows.Close()
	var out []*entity.OutboxEntry
	for rows.Next() {
		var e entity.OutboxEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Kind, &e.Payload, &e.State, &e.Attempts,
			&e.NextAttemptAt, &e.LastError, &e.CreatedAt, &e.SentAt); err != nil {
			return nil, fmt.Errorf("scan outbox: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *OutboxRepo) MarkSent(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, "outbox sent",
		`UPDATE sync_outbox SET state = $2, sent_at = $3, last_error = '' WHERE id = $1`,
		id, entity.OutboxSent, at)
}

func (r *OutboxRepo) MarkRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string) error {
	return r.exec(ctx, "outbox retry",
		`UPDATE sync_outbox SET attempts = $2, next_attempt_at = $3, last_error = $4 WHERE id = $1`,
		id, attempts, next, lastErr)
}

func (r *OutboxRepo) MarkFailed(ctx context.Context, id string, attempts int, lastErr string) error {
	return r.exec(ctx, "outbox failed",
		`UPDATE sync_outbox SET state = $2, attempts = $3, last_error = $4 WHERE id = $1`,
		id, entity.OutboxFailed, attempts, lastErr)
}

func (r *OutboxRepo) Stats(ctx context.Context) (repository.OutboxStats, error) {
	var st repository.OutboxStats
	err := r.q.QueryRow(ctx, `
		SELECT
			count(*) FILTER (WHERE state = 'pending'),
			count(*) FILTER (WHERE state = 'failed'),
			count(*) FILTER (WHERE state = 'sent'),
			COALESCE((SELECT last_error FROM sync_outbox WHERE last_error <> ''
				ORDER BY next_attempt_at DESC LIMIT 1), '')
		FROM sync_outbox`).Scan(&st.Pending, &st.Failed, &st.Sent, &st.LastError)
	if err != nil {
		return st, &domain.StorageError{Op: "outbox stats", Err: err}
	}
	return st, nil
}

func (r *OutboxRepo) exec(ctx context.Context, op, query string, args ...any) error {
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
