package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
	"github.com/deniz/fleettrack/internal/pkg/dberrors"
)

// NotificationRepository handles persisted notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// Create inserts a notification for a recipient
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = uuid.New().String()
	err := r.db.QueryRow(ctx, `
		INSERT INTO notifications (id, recipient_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		notification.ID, notification.RecipientID, notification.Message, notification.Status).Scan(&notification.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error creating notification: %w", err)
	}

	return nil
}

// ListForRecipient retrieves the recipient's notifications, newest first
func (r *NotificationRepository) ListForRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, recipient_id, message, status, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var notification models.Notification
		err := rows.Scan(
			&notification.ID,
			&notification.RecipientID,
			&notification.Message,
			&notification.Status,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, &notification)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}
