package bot

// User-facing texts. Emojis follow the original channel bot conventions.
const (
	msgGatePrompt     = "❗ Please subscribe to the channel first:"
	msgGateConfirmed  = "✅ Subscription confirmed. Send a code:"
	msgStillNotMember = "❗ You are still not subscribed!"

	msgMainMenu = "🏠 Back to the main menu."

	msgAdminWelcome = "👮 Welcome to the admin panel!"
	msgAdminDenied  = "⛔ You are not an admin or not subscribed to the channel!"

	msgAddCodePrompt = "➕ Send the new code and post ID. Example: 47 1000"
	msgBadCodeFormat = "❌ Wrong format! Example: 47 1000"

	msgRemoveCodePrompt = "🗑 Send the code you want to remove:"
	msgCodeMissing      = "❌ No such code."

	msgCodeListEmpty  = "📜 No codes yet."
	msgCodeListHeader = "📄 Code list:"

	msgStatsUnavailable = "⚠️ Statistics temporarily unavailable!"

	msgAddAdminPrompt = "🆕 Send the Telegram ID of the new admin:"
	msgAlreadyAdmin   = "⚠️ This user is already an admin."
	msgInvalidAdminID = "❌ Invalid ID!"

	msgSubscribeFirst = "❗ Subscribe to the channel before using codes."
	msgCodeNotFound   = "❌ Code not found. Please send a valid code."

	msgTempFailure = "⚠️ Something went wrong, please try again later."

	msgUnknownInput = "🤔 I don't understand that. Send a numeric code or use the menu."

	defaultAdsText         = "📢 Ads section. Contact the channel owner for placement."
	defaultSponsorshipText = "💼 Sponsorship section. Contact the channel owner for details."
)
