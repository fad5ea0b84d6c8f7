package repository

import (
	"context"

	"github.com/Franklimello/lajinhaStore-sub002/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageArchiveRepository struct {
	pool *pgxpool.Pool
}

func NewMessageArchiveRepository(pool *pgxpool.Pool) *MessageArchiveRepository {
	return &MessageArchiveRepository{pool: pool}
}

// Insert stores one archived message row.
func (r *MessageArchiveRepository) Insert(ctx context.Context, msg model.ArchivedMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO archived_messages (message_id, customer_id, sender_kind, sender_name, text, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (message_id) DO NOTHING
	`, msg.MessageID, msg.CustomerID, msg.SenderKind, msg.SenderName, msg.Text, msg.SentAt)
	return err
}

// DeleteOlderThan removes archived rows older than the given number of days.
// Returns the number of deleted rows.
func (r *MessageArchiveRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM archived_messages WHERE sent_at < NOW() - make_interval(days => $1)
	`, days)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountMessages reports the archive size, used by the admin stats endpoint.
func (r *MessageArchiveRepository) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM archived_messages").Scan(&count)
	return count, err
}
