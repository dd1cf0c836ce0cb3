package repository

import (
	"context"
	"fmt"
	"vehicle-insurance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, to_user_id, title, message, channel, status, created_at, sent_at)
		VALUES (:id, :to_user_id, :title, :message, :channel, :status, :created_at, :sent_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	query := `
		UPDATE notifications
		SET status = :status, sent_at = :sent_at
		WHERE id = :id
	`

	_, err := r.db.NamedExecContext(ctx, query, notification)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	return nil
}

// GetByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	query := `SELECT id, to_user_id, title, message, channel, status, created_at, sent_at
	          FROM notifications WHERE to_user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &notifications, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepository) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, created_at)
		VALUES (:id, :user_id, :action, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// GetAuditLogs retrieves recent audit entries, newest first
func (r *NotificationRepository) GetAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}

	var entries []models.AuditLog
	query := `SELECT id, user_id, action, created_at
	          FROM audit_logs ORDER BY created_at DESC LIMIT $1`

	err := r.db.SelectContext(ctx, &entries, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return entries, nil
}
