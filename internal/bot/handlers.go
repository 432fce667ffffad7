package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"gatebot/internal/engine"
	"gatebot/internal/fsm"
	"gatebot/internal/logger"
)

// handleStart enrolls the user and either shows the main menu or the
// subscription gate.
func (b *Bot) handleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := requestContext(c)
	userID := sender.ID

	if err := b.store.AddUser(ctx, userID); err != nil {
		logger.FromContext(ctx).Error("user enrollment failed",
			slog.String("event", "user.enroll"),
			slog.String("err", err.Error()),
		)
		return c.Send(msgTempFailure)
	}

	if !b.policy.CanSeeMainMenu(userID) {
		return c.Send(msgGatePrompt, gateMenu(b.cfg.ChannelName()))
	}
	return c.Send(msgGateConfirmed, mainMenu(b.policy.IsAdmin(ctx, userID)))
}

// handleMyID replies with the sender's Telegram id and role.
func (b *Bot) handleMyID(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := requestContext(c)
	userID := sender.ID

	role := "Member"
	if b.policy.IsAdmin(ctx, userID) {
		role = "Admin"
	}
	return c.Send(fmt.Sprintf("🆔 ID: `%d`\n👤 Role: %s", userID, role), tele.ModeMarkdown)
}

// handleCheckSub re-checks the gate when the user presses the inline button.
func (b *Bot) handleCheckSub(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	userID := sender.ID

	if !b.policy.CanSeeMainMenu(userID) {
		return c.Respond(&tele.CallbackResponse{Text: msgStillNotMember, ShowAlert: true})
	}
	if err := c.Respond(); err != nil {
		return err
	}
	ctx := requestContext(c)
	if err := c.Edit(msgGateConfirmed); err != nil {
		return err
	}
	return c.Send(msgMainMenu, mainMenu(b.policy.IsAdmin(ctx, userID)))
}

// handleText routes free text: a pending conversation step wins, then the
// reply-keyboard labels, then numeric input goes to redemption. Anything else
// gets a short hint. Updates without a sender (channel posts, anonymous
// group messages) are ignored.
func (b *Bot) handleText(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	userID := sender.ID
	text := strings.TrimSpace(c.Text())

	if b.fsm.InProgress(userID) {
		return b.handleConversation(c, text)
	}

	switch text {
	case labelAds:
		return b.handleContacts(c, b.cfg.Contacts.Ads, defaultAdsText)
	case labelSponsorship:
		return b.handleContacts(c, b.cfg.Contacts.Sponsorship, defaultSponsorshipText)
	case labelAdminPanel:
		return b.handleAdminPanel(c)
	case labelAddCode:
		return b.startConversation(c, fsm.StateAwaitingCodeDefinition, msgAddCodePrompt)
	case labelRemoveCode:
		return b.startConversation(c, fsm.StateAwaitingCodeRemoval, msgRemoveCodePrompt)
	case labelAddAdmin:
		return b.startConversation(c, fsm.StateAwaitingAdminID, msgAddAdminPrompt)
	case labelCodeList:
		return b.handleCodeList(c)
	case labelStats:
		return b.handleStats(c)
	case labelBack:
		return b.handleBack(c)
	}

	if engine.IsNumeric(text) {
		return b.handleRedeem(c, text)
	}
	return c.Send(msgUnknownInput)
}

// handleContacts shows a contact screen, falling back to the default text
// when the config leaves it empty.
func (b *Bot) handleContacts(c tele.Context, text, fallback string) error {
	if text == "" {
		text = fallback
	}
	return c.Send(text)
}

// handleAdminPanel opens the admin menu for subscribed admins.
func (b *Bot) handleAdminPanel(c tele.Context) error {
	ctx := requestContext(c)
	if !b.policy.CanSeeAdminMenu(ctx, c.Sender().ID) {
		return c.Send(msgAdminDenied)
	}
	return c.Send(msgAdminWelcome, adminMenu())
}

// startConversation moves an admin into a pending conversation state and
// sends the step prompt.
func (b *Bot) startConversation(c tele.Context, state fsm.State, prompt string) error {
	ctx := requestContext(c)
	userID := c.Sender().ID
	if !b.policy.CanSeeAdminMenu(ctx, userID) {
		return c.Send(msgAdminDenied)
	}
	b.fsm.SetState(userID, state)
	return c.Send(prompt)
}

// handleConversation dispatches the pending step. The state is cleared before
// the step runs: every branch, including malformed input, ends the
// conversation.
func (b *Bot) handleConversation(c tele.Context, text string) error {
	userID := c.Sender().ID
	state := b.fsm.State(userID)
	b.fsm.ClearState(userID)

	switch state {
	case fsm.StateAwaitingCodeDefinition:
		return b.stepDefineCode(c, text)
	case fsm.StateAwaitingCodeRemoval:
		return b.stepRemoveCode(c, text)
	case fsm.StateAwaitingAdminID:
		return b.stepPromoteAdmin(c, text)
	}
	return nil
}

func (b *Bot) stepDefineCode(c tele.Context, text string) error {
	ctx := requestContext(c)
	code, messageID, err := b.engine.DefineCode(ctx, text)
	switch {
	case errors.Is(err, engine.ErrBadFormat):
		return c.Send(msgBadCodeFormat)
	case err != nil:
		return c.Send(msgTempFailure)
	}
	return c.Send(fmt.Sprintf("✅ Code added: %s → %d", code, messageID))
}

func (b *Bot) stepRemoveCode(c tele.Context, text string) error {
	ctx := requestContext(c)
	removed, err := b.engine.RemoveCode(ctx, text)
	if err != nil {
		return c.Send(msgTempFailure)
	}
	if !removed {
		return c.Send(msgCodeMissing)
	}
	return c.Send(fmt.Sprintf("✅ Code removed: %s", strings.TrimSpace(text)))
}

func (b *Bot) stepPromoteAdmin(c tele.Context, text string) error {
	ctx := requestContext(c)
	id, already, err := b.engine.PromoteAdmin(ctx, text)
	switch {
	case errors.Is(err, engine.ErrBadAdminID):
		return c.Send(msgInvalidAdminID)
	case err != nil:
		return c.Send(msgTempFailure)
	case already:
		return c.Send(msgAlreadyAdmin)
	}
	return c.Send(fmt.Sprintf("✅ Admin added: `%d`", id), tele.ModeMarkdown)
}

// handleRedeem resolves a numeric code and copies the hidden channel post to
// the user. Redemption requires an active subscription.
func (b *Bot) handleRedeem(c tele.Context, code string) error {
	ctx := requestContext(c)
	userID := c.Sender().ID

	if !b.policy.CanRedeem(userID) {
		return c.Send(msgSubscribeFirst, gateMenu(b.cfg.ChannelName()))
	}

	messageID, ok, err := b.engine.Redeem(ctx, code)
	if err != nil {
		return c.Send(msgTempFailure)
	}
	if !ok {
		return c.Send(msgCodeNotFound)
	}

	stored := tele.StoredMessage{
		MessageID: strconv.FormatInt(messageID, 10),
		ChatID:    b.channel.ID,
	}
	if _, err := b.tb.Copy(c.Chat(), stored, downloadMenu(b.cfg.ChannelName(), messageID)); err != nil {
		logger.FromContext(ctx).Error("content delivery failed",
			slog.String("event", "code.deliver"),
			slog.String("code", code),
			slog.Int64("message_id", messageID),
			slog.String("err", err.Error()),
		)
		return c.Send(msgTempFailure)
	}

	logger.FromContext(ctx).Info("code redeemed",
		slog.String("event", "code.redeem"),
		slog.String("code", code),
		slog.Int64("message_id", messageID),
	)
	return nil
}

// handleCodeList renders the code registry for admins.
func (b *Bot) handleCodeList(c tele.Context) error {
	ctx := requestContext(c)
	if !b.policy.CanSeeAdminMenu(ctx, c.Sender().ID) {
		return c.Send(msgAdminDenied)
	}

	entries, err := b.engine.ListCodes(ctx)
	if err != nil {
		return c.Send(msgTempFailure)
	}
	if len(entries) == 0 {
		return c.Send(msgCodeListEmpty)
	}

	var sb strings.Builder
	sb.WriteString(msgCodeListHeader)
	for _, entry := range entries {
		fmt.Fprintf(&sb, "\n🔑 %s — ID: %d", entry.Code, entry.MessageID)
	}
	return c.Send(sb.String())
}

// handleStats renders subscriber, code and user counters for admins. A
// failure in either the Telegram lookup or the registry makes the whole
// screen unavailable.
func (b *Bot) handleStats(c tele.Context) error {
	ctx := requestContext(c)
	if !b.policy.CanSeeAdminMenu(ctx, c.Sender().ID) {
		return c.Send(msgAdminDenied)
	}

	subscribers, err := b.tb.Len(b.channel)
	if err != nil {
		logger.FromContext(ctx).Error("member count failed",
			slog.String("event", "stats.members"),
			slog.String("err", err.Error()),
		)
		return c.Send(msgStatsUnavailable)
	}
	users, codes, err := b.engine.Stats(ctx)
	if err != nil {
		return c.Send(msgStatsUnavailable)
	}

	return c.Send(fmt.Sprintf("👥 Subscribers: %d\n📜 Codes: %d\n👤 Users: %d", subscribers, codes, users))
}

// handleBack returns to the main menu from the admin panel.
func (b *Bot) handleBack(c tele.Context) error {
	ctx := requestContext(c)
	return c.Send(msgMainMenu, mainMenu(b.policy.IsAdmin(ctx, c.Sender().ID)))
}
