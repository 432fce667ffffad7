// Package access answers the single question every handler asks first:
// is this user allowed to do that?
//
// It combines a live channel-membership check (the subscription oracle) with
// the admin set from the registry store. Membership is queried on every gated
// action and never cached, since it can change between interactions.
package access

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"gatebot/internal/logger"
)

// MembershipClient is the narrow slice of the Telegram client the oracle
// needs. *tele.Bot satisfies it.
type MembershipClient interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// Oracle checks whether a user currently belongs to the gating channel.
type Oracle struct {
	client  MembershipClient
	channel tele.Recipient
	log     *slog.Logger
}

// NewOracle creates an oracle bound to the gating channel.
func NewOracle(client MembershipClient, channel tele.Recipient) *Oracle {
	return &Oracle{
		client:  client,
		channel: channel,
		log:     logger.Component("access"),
	}
}

// IsSubscribed reports whether the user is a member, administrator or creator
// of the gating channel.
//
// Any failure of the remote call (network error, user never interacted with
// the channel, bot lacks permission) maps to false: the gate fails closed and
// never grants access on ambiguous state.
func (o *Oracle) IsSubscribed(userID int64) bool {
	member, err := o.client.ChatMemberOf(o.channel, &tele.User{ID: userID})
	if err != nil {
		if o.log != nil {
			o.log.Debug("membership lookup failed",
				slog.String("event", "subscription.check"),
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
		return false
	}

	switch member.Role {
	case tele.Creator, tele.Administrator, tele.Member:
		return true
	default:
		return false
	}
}
