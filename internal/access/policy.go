package access

import (
	"context"
	"log/slog"

	"gatebot/internal/logger"
)

// Subscription reports live channel membership. Implemented by Oracle.
type Subscription interface {
	IsSubscribed(userID int64) bool
}

// AdminChecker reads the admin set. Implemented by storage.Registry.
type AdminChecker interface {
	IsAdmin(ctx context.Context, id int64) (bool, error)
}

// Policy derives the authorization predicates used by every handler.
// It has no state of its own and performs no side effects.
type Policy struct {
	subs   Subscription
	admins AdminChecker
}

// NewPolicy composes the subscription oracle with the admin set.
func NewPolicy(subs Subscription, admins AdminChecker) *Policy {
	return &Policy{subs: subs, admins: admins}
}

// CanSeeMainMenu reports whether the user passes the subscription gate.
func (p *Policy) CanSeeMainMenu(userID int64) bool {
	return p.subs.IsSubscribed(userID)
}

// CanRedeem reports whether the user may redeem codes.
func (p *Policy) CanRedeem(userID int64) bool {
	return p.subs.IsSubscribed(userID)
}

// CanSeeAdminMenu reports whether the user is both subscribed and an admin.
// A store failure counts as "not admin": the policy fails closed.
func (p *Policy) CanSeeAdminMenu(ctx context.Context, userID int64) bool {
	if !p.subs.IsSubscribed(userID) {
		return false
	}
	return p.IsAdmin(ctx, userID)
}

// IsAdmin reports admin membership, treating store errors as false.
func (p *Policy) IsAdmin(ctx context.Context, userID int64) bool {
	isAdmin, err := p.admins.IsAdmin(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Warn("admin lookup failed",
			slog.String("event", "policy.is_admin"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return isAdmin
}
