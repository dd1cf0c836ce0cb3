package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vehicle-insurance-service/internal/database/redis"
	"vehicle-insurance-service/internal/models"
	"vehicle-insurance-service/internal/repository"
)

const (
	// ExpiryGraceDays is how long an expired policy stays ACTIVE before the
	// sweep lapses it.
	ExpiryGraceDays = 7

	overdueCancelReason = "Payment overdue"
)

// reminderDaysBefore are the exact days-until-expiry marks that trigger a
// renewal reminder.
var reminderDaysBefore = []int{30, 15, 7}

// LifecycleService recomputes policy statuses from the clock. The same rules
// run from the periodic worker and lazily before reads, so a stale status is
// never served.
type LifecycleService struct {
	policyRepo  *repository.PolicyRepository
	accountRepo *repository.AccountRepository
	redisClient *redis.Client
	notifier    *Notifier
}

func NewLifecycleService(
	policyRepo *repository.PolicyRepository,
	accountRepo *repository.AccountRepository,
	redisClient *redis.Client,
	notifier *Notifier,
) *LifecycleService {
	return &LifecycleService{
		policyRepo:  policyRepo,
		accountRepo: accountRepo,
		redisClient: redisClient,
		notifier:    notifier,
	}
}

// NextLifecycleState returns the status the policy should hold at the given
// time. The second return reports whether that differs from the current one.
// Applying the result and calling again always reports no further change,
// which is what makes the sweep idempotent.
func NextLifecycleState(policy *models.Policy, now time.Time) (models.PolicyStatus, bool) {
	switch policy.Status {
	case models.PolicyWaitingPayment:
		if policy.PaymentDueDate != nil && now.After(*policy.PaymentDueDate) {
			if policy.HasPendingRenewal() {
				return models.PolicyLapsed, true
			}
			return models.PolicyCancelled, true
		}
	case models.PolicyActive:
		if policy.EndDate != nil && now.After(policy.EndDate.AddDate(0, 0, ExpiryGraceDays)) {
			return models.PolicyLapsed, true
		}
	}
	return policy.Status, false
}

// applyLifecycleState mutates the policy into the computed state and reports
// whether anything changed. A lapse caused by an unpaid renewal drops the
// staged triplet so the prior contract stands; an overdue initial issuance is
// cancelled outright.
func applyLifecycleState(policy *models.Policy, now time.Time) bool {
	next, changed := NextLifecycleState(policy, now)
	if !changed {
		return false
	}

	switch next {
	case models.PolicyLapsed:
		policy.ClearPendingRenewal()
		policy.PaymentDueDate = nil
	case models.PolicyCancelled:
		reason := overdueCancelReason
		policy.CancelReason = &reason
		effective := now
		policy.CancelEffectiveDate = &effective
		policy.ClearPendingRenewal()
		policy.PaymentDueDate = nil
	}

	policy.Status = next
	policy.UpdatedAt = now
	return true
}

// RefreshPolicy lazily applies the lifecycle rules to one policy and
// persists the result when it moved.
func (s *LifecycleService) RefreshPolicy(ctx context.Context, policy *models.Policy) error {
	if !applyLifecycleState(policy, time.Now()) {
		return nil
	}

	if err := s.policyRepo.Update(ctx, policy); err != nil {
		return fmt.Errorf("failed to persist lifecycle update: %w", err)
	}

	slog.Info("Policy status refreshed", "policy_id", policy.ID, "status", policy.Status)
	return nil
}

// RunLifecycleUpdate sweeps every live policy, lapsing or cancelling the ones
// past their dates, then sends renewal reminders.
func (s *LifecycleService) RunLifecycleUpdate(ctx context.Context) error {
	now := time.Now()

	policies, err := s.policyRepo.GetByStatuses(ctx, []models.PolicyStatus{
		models.PolicyWaitingPayment,
		models.PolicyActive,
	})
	if err != nil {
		return fmt.Errorf("failed to load policies for lifecycle sweep: %w", err)
	}

	updated := 0
	for i := range policies {
		policy := &policies[i]
		if !applyLifecycleState(policy, now) {
			continue
		}

		if err := s.policyRepo.Update(ctx, policy); err != nil {
			slog.Error("Failed to update policy in lifecycle sweep", "policy_id", policy.ID, "error", err)
			continue
		}
		updated++

		slog.Info("Policy transitioned by lifecycle sweep",
			"policy_id", policy.ID,
			"policy_number", policy.PolicyNumber,
			"status", policy.Status)
	}

	s.sendRenewalReminders(ctx, policies, now)

	if updated > 0 {
		slog.Info("Lifecycle sweep finished", "policies_checked", len(policies), "policies_updated", updated)
	}

	return nil
}

// RunRenewalReminders sends expiry reminders without touching any policy
// status. The full sweep also sends them; this entry exists for triggering
// reminders alone.
func (s *LifecycleService) RunRenewalReminders(ctx context.Context) error {
	policies, err := s.policyRepo.GetByStatuses(ctx, []models.PolicyStatus{models.PolicyActive})
	if err != nil {
		return fmt.Errorf("failed to load policies for renewal reminders: %w", err)
	}

	s.sendRenewalReminders(ctx, policies, time.Now())
	return nil
}

func (s *LifecycleService) sendRenewalReminders(ctx context.Context, policies []models.Policy, now time.Time) {
	for i := range policies {
		policy := &policies[i]
		if policy.Status != models.PolicyActive || policy.EndDate == nil {
			continue
		}

		daysLeft := daysBetween(now, *policy.EndDate)
		if !isReminderDay(daysLeft) {
			continue
		}

		if !s.claimReminderSlot(ctx, policy.ID.String(), now) {
			continue
		}

		customer, err := s.accountRepo.GetCustomerByID(ctx, policy.CustomerID)
		if err != nil || customer.UserID == nil {
			continue
		}

		title := "Policy expiring soon"
		message := fmt.Sprintf("Policy %s expires in %d days. Renew to keep your coverage.",
			policy.PolicyNumber, daysLeft)
		s.notifier.Notify(ctx, customer.UserID, title, message, models.ChannelEmail)
	}
}

// claimReminderSlot marks the policy as reminded for today. Returns false
// when another run already took the slot or Redis is unavailable.
func (s *LifecycleService) claimReminderSlot(ctx context.Context, policyID string, now time.Time) bool {
	if s.redisClient == nil {
		return false
	}

	key := fmt.Sprintf("renewal_reminder:%s:%s", policyID, now.Format("2006-01-02"))
	ok, err := s.redisClient.GetClient().SetNX(ctx, key, "1", 24*time.Hour).Result()
	if err != nil {
		slog.Warn("Failed to set reminder dedup key", "key", key, "error", err)
		return false
	}
	return ok
}

func isReminderDay(daysLeft int) bool {
	for _, d := range reminderDaysBefore {
		if daysLeft == d {
			return true
		}
	}
	return false
}

// daysBetween counts whole calendar days from one date to another, ignoring
// the time of day.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
