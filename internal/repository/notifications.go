// internal/repository/notifications.go
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notificacoes (id, user_id, titulo, mensagem, link, lida, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)`,
		n.ID, n.UserID, n.Title, n.Message, n.Link, n.CreatedAt)
	if err != nil {
		return errors.NewQueryExecutionFailedError("create notification", err)
	}
	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, titulo, mensagem, link, lida, created_at
		FROM notificacoes WHERE user_id = $1`
	if unreadOnly {
		query += ` AND lida = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, clampLimit(limit))
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list notifications", err)
	}
	defer rows.Close()

	var notifs []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan notification", err)
		}
		notifs = append(notifs, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list notifications", err)
	}
	return notifs, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notificacoes SET lida = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("mark notification read", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("notificacao", id)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notificacoes SET lida = TRUE WHERE user_id = $1 AND lida = FALSE`, userID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("mark all notifications read", err)
	}
	return nil
}
