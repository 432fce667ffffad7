// Package engine implements the stateful-redemption semantics behind the bot
// handlers: conversation steps that mutate the code and admin registries, and
// the code → channel message lookup for redemption.
//
// The engine validates free-text input exactly as the conversation contract
// requires and returns typed outcomes; rendering replies and driving the FSM
// stay in the bot layer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"gatebot/internal/logger"
	"gatebot/internal/storage"
)

var (
	// ErrBadFormat reports a code definition that is not exactly two
	// whitespace-separated all-digit tokens.
	ErrBadFormat = errors.New("expected two numeric tokens: code and message id")
	// ErrBadAdminID reports a non-numeric admin id.
	ErrBadAdminID = errors.New("admin id must be numeric")
)

// Store is the registry surface the engine mutates and reads.
// Implemented by storage.Registry.
type Store interface {
	AddAdmin(ctx context.Context, id int64) error
	IsAdmin(ctx context.Context, id int64) (bool, error)
	UpsertCode(ctx context.Context, code string, messageID int64) error
	RemoveCode(ctx context.Context, code string) error
	CodeMessageID(ctx context.Context, code string) (int64, bool, error)
	ListCodes(ctx context.Context) ([]storage.CodeEntry, error)
	CountUsers(ctx context.Context) (int, error)
	CountCodes(ctx context.Context) (int, error)
}

// Engine executes conversation steps and redemptions against the store.
type Engine struct {
	store Store
	log   *slog.Logger
}

// New creates an Engine on top of the registry store.
func New(store Store) *Engine {
	log := logger.ENG
	if log == nil {
		log = logger.Component("engine")
	}
	return &Engine{store: store, log: log}
}

// DefineCode parses a "code messageID" pair and upserts it into the registry.
// Both tokens must be all-digit. Malformed input returns ErrBadFormat and
// mutates nothing; the conversation is over either way.
func (e *Engine) DefineCode(ctx context.Context, input string) (string, int64, error) {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) != 2 || !IsNumeric(parts[0]) || !IsNumeric(parts[1]) {
		return "", 0, ErrBadFormat
	}
	code := parts[0]
	messageID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, ErrBadFormat
	}

	if err := e.store.UpsertCode(ctx, code, messageID); err != nil {
		return "", 0, fmt.Errorf("define code: %w", err)
	}
	e.log.Info("code defined",
		slog.String("event", "code.define"),
		slog.String("code", code),
		slog.Int64("message_id", messageID),
	)
	return code, messageID, nil
}

// RemoveCode deletes the given code. The boolean reports whether the code
// existed; removing an unknown code is not an error.
func (e *Engine) RemoveCode(ctx context.Context, input string) (bool, error) {
	code := strings.TrimSpace(input)
	_, exists, err := e.store.CodeMessageID(ctx, code)
	if err != nil {
		return false, fmt.Errorf("remove code: %w", err)
	}
	if !exists {
		return false, nil
	}
	if err := e.store.RemoveCode(ctx, code); err != nil {
		return false, fmt.Errorf("remove code: %w", err)
	}
	e.log.Info("code removed",
		slog.String("event", "code.remove"),
		slog.String("code", code),
	)
	return true, nil
}

// PromoteAdmin parses a numeric user id and adds it to the admin set.
// The boolean reports whether the id was already an admin. Non-numeric input
// returns ErrBadAdminID.
func (e *Engine) PromoteAdmin(ctx context.Context, input string) (int64, bool, error) {
	raw := strings.TrimSpace(input)
	if !IsNumeric(raw) {
		return 0, false, ErrBadAdminID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, ErrBadAdminID
	}

	already, err := e.store.IsAdmin(ctx, id)
	if err != nil {
		return 0, false, fmt.Errorf("promote admin: %w", err)
	}
	if already {
		return id, true, nil
	}
	if err := e.store.AddAdmin(ctx, id); err != nil {
		return 0, false, fmt.Errorf("promote admin: %w", err)
	}
	e.log.Info("admin promoted",
		slog.String("event", "admin.promote"),
		slog.Int64("admin_id", id),
	)
	return id, false, nil
}

// Redeem resolves a code to its channel message id. The boolean reports
// whether the code exists. Redemption mutates nothing: codes are not
// single-use.
func (e *Engine) Redeem(ctx context.Context, code string) (int64, bool, error) {
	messageID, ok, err := e.store.CodeMessageID(ctx, code)
	if err != nil {
		return 0, false, fmt.Errorf("redeem: %w", err)
	}
	return messageID, ok, nil
}

// ListCodes returns the registry for the admin listing screen.
func (e *Engine) ListCodes(ctx context.Context) ([]storage.CodeEntry, error) {
	return e.store.ListCodes(ctx)
}

// Stats returns the registry-side counters for the statistics screen.
func (e *Engine) Stats(ctx context.Context) (users, codes int, err error) {
	users, err = e.store.CountUsers(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("stats: %w", err)
	}
	codes, err = e.store.CountCodes(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("stats: %w", err)
	}
	return users, codes, nil
}

// IsNumeric reports whether s is non-empty and consists of ASCII digits only.
// Numeric free text is what routes a message to redemption.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
