package lifecycle

import (
	"time"

	"tapcard-be/internal/entity"
)

// GracePeriodDays is the window after a lapsed trial during which access is
// degraded but not yet revoked.
const GracePeriodDays = 7

// Input to the classifier: the subject, the tenant that owns its access (nil
// for personal subjects) and the latest subscription row (nil when none).
type Input struct {
	User         *entity.User
	OwningTenant *entity.Tenant
	Subscription *entity.Subscription
	Now          time.Time
}

// Result carries the classified state plus anomalies for async cleanup.
type Result struct {
	State  entity.LifecycleState
	Issues []entity.IntegrityIssue
}

// Classify maps raw subscription and trial data to one lifecycle state.
// Precedence is fixed; the first matching rule wins.
func Classify(in Input) Result {
	user := in.User
	now := in.Now

	// 1. Permanent license overrides everything, including suspension.
	if user.SubscriptionStatus == entity.UserSubscriptionPermanent {
		return Result{State: entity.LifecycleState{Kind: entity.LifecyclePermanent}}
	}

	// 2. Suspended owning tenant.
	if in.OwningTenant != nil && in.OwningTenant.IsSuspended() {
		return Result{State: entity.LifecycleState{Kind: entity.LifecycleSuspended}}
	}

	sub := in.Subscription

	// A pending subscription row cannot grant access; the TrialWindow stays
	// the source of truth and the stray row is scheduled for deletion.
	var issues []entity.IntegrityIssue
	if sub != nil && sub.Status == entity.SubscriptionStatusPending {
		issues = append(issues, entity.IntegrityIssue{
			Kind:           entity.IssueStrayPendingSub,
			UserId:         user.Id,
			SubscriptionId: sub.Id,
			Detail:         "pending subscription row alongside trial window",
		})
		sub = nil
	}

	if sub == nil {
		return Result{State: classifyTrialWindow(user, now), Issues: issues}
	}

	// 6-7. Active subscription, possibly flagged for cancellation.
	if sub.Status == entity.SubscriptionStatusActive {
		if sub.CancelAtPeriodEnd {
			return Result{
				State: entity.LifecycleState{
					Kind:        entity.LifecycleCanceledPending,
					EffectiveAt: sub.CurrentPeriodEnd,
				},
				Issues: issues,
			}
		}
		return Result{State: entity.LifecycleState{Kind: entity.LifecycleActive}, Issues: issues}
	}

	// 8-9. past_due and canceled both read as lapsed.
	return Result{State: entity.LifecycleState{Kind: entity.LifecyclePastDue}, Issues: issues}
}

// classifyTrialWindow handles subjects with no subscription record: rules
// 3-5 over the immutable trial window.
func classifyTrialWindow(user *entity.User, now time.Time) entity.LifecycleState {
	if user.TrialEndsAt == nil {
		return entity.LifecycleState{Kind: entity.LifecyclePastDue}
	}
	trialEnd := *user.TrialEndsAt

	if trialEnd.After(now) {
		return entity.LifecycleState{
			Kind:          entity.LifecycleTrialing,
			DaysRemaining: ceilDays(trialEnd.Sub(now)),
		}
	}

	elapsed := now.Sub(trialEnd)
	graceWindow := time.Duration(GracePeriodDays) * 24 * time.Hour
	if elapsed <= graceWindow {
		return entity.LifecycleState{
			Kind:          entity.LifecycleGrace,
			DaysRemaining: GracePeriodDays - floorDays(elapsed),
		}
	}

	return entity.LifecycleState{Kind: entity.LifecyclePastDue}
}

func ceilDays(d time.Duration) int {
	day := 24 * time.Hour
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

func floorDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}
