package bot

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"gatebot/config"
	"gatebot/internal/access"
	"gatebot/internal/engine"
	"gatebot/internal/fsm"
	"gatebot/internal/storage"
)

type fixedSubscription struct{ subscribed bool }

func (f fixedSubscription) IsSubscribed(int64) bool { return f.subscribed }

// textContext is a minimal tele.Context for driving text handlers. Methods
// the handlers under test never reach stay unimplemented on the embedded
// interface.
type textContext struct {
	tele.Context
	sender *tele.User
	text   string
	sent   []string
}

func (c *textContext) Sender() *tele.User { return c.sender }

func (c *textContext) Text() string { return c.text }

func (c *textContext) Chat() *tele.Chat {
	if c.sender == nil {
		return nil
	}
	return &tele.Chat{ID: c.sender.ID}
}

func (c *textContext) Get(string) any { return nil }

func (c *textContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func setupBot(t *testing.T, subscribed bool) (*Bot, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to open sqlmock database")
	t.Cleanup(func() { db.Close() })

	store := storage.NewRegistry(sqlx.NewDb(db, "sqlmock"))
	cfg := &config.Config{}
	cfg.Telegram.Channel = "@gate"

	return &Bot{
		cfg:    cfg,
		store:  store,
		policy: access.NewPolicy(fixedSubscription{subscribed: subscribed}, store),
		fsm:    fsm.NewManager(),
		engine: engine.New(store),
	}, mock
}

func textFrom(userID int64, text string) *textContext {
	return &textContext{sender: &tele.User{ID: userID}, text: text}
}

func expectIsAdmin(mock sqlmock.Sqlmock, userID int64, isAdmin bool) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM admins WHERE id = $1)`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(isAdmin))
}

func expectCodeLookup(mock sqlmock.Sqlmock, code string, rows *sqlmock.Rows) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT message_id FROM codes WHERE code = $1`)).
		WithArgs(code).
		WillReturnRows(rows)
}

func TestHandleText_PendingStateWinsOverNumeric(t *testing.T) {
	b, mock := setupBot(t, true)
	const userID int64 = 100
	b.fsm.SetState(userID, fsm.StateAwaitingCodeRemoval)

	// "47" would redeem when idle; with a pending removal step it is the
	// code to remove, never a redemption.
	expectCodeLookup(mock, "47", sqlmock.NewRows([]string{"message_id"}))

	c := textFrom(userID, "47")
	require.NoError(t, b.handleText(c))

	assert.Equal(t, []string{msgCodeMissing}, c.sent)
	assert.False(t, b.fsm.InProgress(userID), "conversation must end after the step")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleText_PendingStateWinsOverMenuLabel(t *testing.T) {
	b, mock := setupBot(t, true)
	const userID int64 = 100
	b.fsm.SetState(userID, fsm.StateAwaitingCodeDefinition)

	c := textFrom(userID, labelBack)
	require.NoError(t, b.handleText(c))

	assert.Equal(t, []string{msgBadCodeFormat}, c.sent,
		"a label sent mid-conversation is step input, not navigation")
	assert.False(t, b.fsm.InProgress(userID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleText_IdleNumericRoutesToRedemption(t *testing.T) {
	b, mock := setupBot(t, true)
	const userID int64 = 100

	expectCodeLookup(mock, "47", sqlmock.NewRows([]string{"message_id"}))

	c := textFrom(userID, "47")
	require.NoError(t, b.handleText(c))

	assert.Equal(t, []string{msgCodeNotFound}, c.sent)
	assert.False(t, b.fsm.InProgress(userID), "redemption must not enter a conversation state")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleText_UnsubscribedNumericGetsGatePrompt(t *testing.T) {
	b, mock := setupBot(t, false)
	const userID int64 = 100

	c := textFrom(userID, "47")
	require.NoError(t, b.handleText(c))

	assert.Equal(t, []string{msgSubscribeFirst}, c.sent)
	require.NoError(t, mock.ExpectationsWereMet(), "nothing may touch the registry before the gate")
}

func TestHandleText_NonAdminDeniedAdminPanel(t *testing.T) {
	b, mock := setupBot(t, true)
	const userID int64 = 100

	expectIsAdmin(mock, userID, false)

	c := textFrom(userID, labelAdminPanel)
	require.NoError(t, b.handleText(c))

	assert.Equal(t, []string{msgAdminDenied}, c.sent)
	assert.False(t, b.fsm.InProgress(userID), "denial must not leave a pending state behind")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleText_NonAdminDeniedConversationStart(t *testing.T) {
	b, mock := setupBot(t, true)
	const userID int64 = 100

	expectIsAdmin(mock, userID, false)

	c := textFrom(userID, labelAddCode)
	require.NoError(t, b.handleText(c))

	assert.Equal(t, []string{msgAdminDenied}, c.sent)
	assert.False(t, b.fsm.InProgress(userID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleText_AdminLabelStartsConversation(t *testing.T) {
	b, mock := setupBot(t, true)
	const userID int64 = 100

	expectIsAdmin(mock, userID, true)

	c := textFrom(userID, labelAddCode)
	require.NoError(t, b.handleText(c))

	assert.Equal(t, []string{msgAddCodePrompt}, c.sent)
	assert.Equal(t, fsm.StateAwaitingCodeDefinition, b.fsm.State(userID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleText_UnmatchedTextGetsHint(t *testing.T) {
	b, mock := setupBot(t, true)
	const userID int64 = 100

	c := textFrom(userID, "hello there")
	require.NoError(t, b.handleText(c))

	assert.Equal(t, []string{msgUnknownInput}, c.sent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleText_NoSenderIgnored(t *testing.T) {
	b, mock := setupBot(t, true)

	c := &textContext{sender: nil, text: "47"}
	require.NoError(t, b.handleText(c))

	assert.Empty(t, c.sent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleStart_NoSenderIgnored(t *testing.T) {
	b, mock := setupBot(t, true)

	c := &textContext{sender: nil, text: "/start"}
	require.NoError(t, b.handleStart(c))

	assert.Empty(t, c.sent)
	require.NoError(t, mock.ExpectationsWereMet())
}
