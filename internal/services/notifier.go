package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vehicle-insurance-service/internal/event"
	"vehicle-insurance-service/internal/models"
	"vehicle-insurance-service/internal/repository"
)

// Notifier fans a notification out to the database, the message queue and,
// for the email channel, SMTP. Every delivery is best-effort; business flows
// never fail because a notification could not be sent.
type Notifier struct {
	notificationRepo *repository.NotificationRepository
	accountRepo      *repository.AccountRepository
	publisher        *event.NotificationPublisher
	mailer           *Mailer
}

func NewNotifier(
	notificationRepo *repository.NotificationRepository,
	accountRepo *repository.AccountRepository,
	publisher *event.NotificationPublisher,
	mailer *Mailer,
) *Notifier {
	return &Notifier{
		notificationRepo: notificationRepo,
		accountRepo:      accountRepo,
		publisher:        publisher,
		mailer:           mailer,
	}
}

// Notify records a notification for the user and dispatches it on the given
// channel.
func (n *Notifier) Notify(ctx context.Context, toUserID *uuid.UUID, title, message string, channel models.NotificationChannel) {
	now := time.Now()
	notification := &models.Notification{
		ID:        uuid.New(),
		ToUserID:  toUserID,
		Title:     title,
		Message:   message,
		Channel:   channel,
		Status:    models.NotificationQueued,
		CreatedAt: now,
	}

	if err := n.notificationRepo.Create(ctx, notification); err != nil {
		slog.Error("Failed to persist notification", "title", title, "error", err)
		return
	}

	userIDs := []string{}
	if toUserID != nil {
		userIDs = append(userIDs, toUserID.String())
	}
	if n.publisher != nil {
		err := n.publisher.PublishNotification(ctx, event.NotificationEventPushModel{
			LstUserIds: userIDs,
			Title:      title,
			Body:       message,
			Channel:    string(channel),
		})
		if err != nil {
			slog.Warn("Failed to publish notification event", "title", title, "error", err)
		}
	}

	status := models.NotificationSent
	if channel == models.ChannelEmail {
		status = n.sendEmail(ctx, toUserID, title, message)
	}

	sentAt := time.Now()
	notification.Status = status
	notification.SentAt = &sentAt
	if err := n.notificationRepo.Update(ctx, notification); err != nil {
		slog.Warn("Failed to update notification status", "notification_id", notification.ID, "error", err)
	}
}

func (n *Notifier) sendEmail(ctx context.Context, toUserID *uuid.UUID, title, message string) models.NotificationStatus {
	if n.mailer == nil || toUserID == nil {
		return models.NotificationFailed
	}

	user, err := n.accountRepo.GetUserByID(ctx, *toUserID)
	if err != nil || user.Email == nil {
		slog.Warn("No email address for notification recipient", "user_id", toUserID)
		return models.NotificationFailed
	}

	if err := n.mailer.Send(*user.Email, title, message); err != nil {
		slog.Warn("Failed to send notification email", "user_id", toUserID, "error", err)
		return models.NotificationFailed
	}

	return models.NotificationSent
}

// Audit writes an audit trail entry and mirrors it onto the audit queue.
func (n *Notifier) Audit(ctx context.Context, userID *uuid.UUID, action, entity, ref string) {
	entry := &models.AuditLog{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action + " " + entity + " " + ref,
		CreatedAt: time.Now(),
	}

	if err := n.notificationRepo.CreateAuditLog(ctx, entry); err != nil {
		slog.Warn("Failed to persist audit entry", "action", action, "error", err)
	}

	if n.publisher != nil {
		userIDStr := ""
		if userID != nil {
			userIDStr = userID.String()
		}
		err := n.publisher.PublishAudit(ctx, event.AuditEventModel{
			UserID: userIDStr,
			Action: action,
			Entity: entity,
			Ref:    ref,
		})
		if err != nil {
			slog.Warn("Failed to publish audit event", "action", action, "error", err)
		}
	}
}
