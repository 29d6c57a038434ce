package db

import (
	"context"
)

const notificationColumns = `id, recipient_id, title, message, type, reference_id, is_read, created_at`

const createNotification = `
INSERT INTO notifications (recipient_id, title, message, type, reference_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + notificationColumns

type CreateNotificationParams struct {
	RecipientID string
	Title       string
	Message     string
	Type        string
	ReferenceID string
}

func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error) {
	row := q.db.QueryRow(ctx, createNotification,
		arg.RecipientID,
		arg.Title,
		arg.Message,
		arg.Type,
		arg.ReferenceID,
	)
	return scanNotification(row)
}

const listNotificationsByRecipient = `
SELECT ` + notificationColumns + `
FROM notifications
WHERE recipient_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListNotificationsByRecipient(ctx context.Context, recipientID string) ([]Notification, error) {
	rows, err := q.db.Query(ctx, listNotificationsByRecipient, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

const markNotificationRead = `
UPDATE notifications
SET is_read = true
WHERE id = $1
`

func (q *Queries) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, markNotificationRead, id)
	return err
}

func scanNotification(row rowScanner) (Notification, error) {
	var n Notification
	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.ReferenceID,
		&n.IsRead,
		&n.CreatedAt,
	)
	return n, err
}
