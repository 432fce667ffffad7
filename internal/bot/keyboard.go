package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// Reply keyboard labels. Free-text messages matching a label select the
// corresponding screen.
const (
	labelAds         = "📢 Ads"
	labelSponsorship = "💼 Sponsorship"
	labelAdminPanel  = "🛠 Admin panel"

	labelAddCode    = "➕ Add code"
	labelCodeList   = "📄 Code list"
	labelRemoveCode = "❌ Remove code"
	labelStats      = "📊 Statistics"
	labelAddAdmin   = "👤 Add admin"
	labelBack       = "🔙 Back"
)

// btnCheckSub is the "check again" button on the subscription gate.
var btnCheckSub = tele.Btn{Unique: "check_sub", Text: "✅ Check"}

// mainMenu builds the main reply keyboard; admins get an extra row with the
// admin panel entry.
func mainMenu(isAdmin bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := []tele.Row{
		markup.Row(markup.Text(labelAds), markup.Text(labelSponsorship)),
	}
	if isAdmin {
		rows = append(rows, markup.Row(markup.Text(labelAdminPanel)))
	}
	markup.Reply(rows...)
	return markup
}

// adminMenu builds the admin panel reply keyboard.
func adminMenu() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(labelAddCode), markup.Text(labelCodeList)),
		markup.Row(markup.Text(labelRemoveCode), markup.Text(labelStats)),
		markup.Row(markup.Text(labelAddAdmin), markup.Text(labelBack)),
	)
	return markup
}

// gateMenu builds the inline keyboard shown to unsubscribed users: a link to
// the gating channel and a re-check button.
func gateMenu(channelName string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.URL("📣 Channel", "https://t.me/"+channelName)),
		markup.Row(markup.Data(btnCheckSub.Text, btnCheckSub.Unique)),
	)
	return markup
}

// downloadMenu builds the inline keyboard attached to delivered content: a
// deep link back to the original post in the channel.
func downloadMenu(channelName string, messageID int64) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.URL("📥 Download", fmt.Sprintf("https://t.me/%s/%d", channelName, messageID))),
	)
	return markup
}
