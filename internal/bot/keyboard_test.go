package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainMenu_MemberHasNoAdminRow(t *testing.T) {
	markup := mainMenu(false)

	require.Len(t, markup.ReplyKeyboard, 1)
	require.Len(t, markup.ReplyKeyboard[0], 2)
	assert.Equal(t, labelAds, markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, labelSponsorship, markup.ReplyKeyboard[0][1].Text)
	assert.True(t, markup.ResizeKeyboard)
}

func TestMainMenu_AdminGetsAdminRow(t *testing.T) {
	markup := mainMenu(true)

	require.Len(t, markup.ReplyKeyboard, 2)
	require.Len(t, markup.ReplyKeyboard[1], 1)
	assert.Equal(t, labelAdminPanel, markup.ReplyKeyboard[1][0].Text)
}

func TestAdminMenu_Layout(t *testing.T) {
	markup := adminMenu()

	require.Len(t, markup.ReplyKeyboard, 3)
	assert.Equal(t, labelAddCode, markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, labelCodeList, markup.ReplyKeyboard[0][1].Text)
	assert.Equal(t, labelRemoveCode, markup.ReplyKeyboard[1][0].Text)
	assert.Equal(t, labelStats, markup.ReplyKeyboard[1][1].Text)
	assert.Equal(t, labelAddAdmin, markup.ReplyKeyboard[2][0].Text)
	assert.Equal(t, labelBack, markup.ReplyKeyboard[2][1].Text)
}

func TestGateMenu_ChannelLinkAndRecheck(t *testing.T) {
	markup := gateMenu("mychannel")

	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "https://t.me/mychannel", markup.InlineKeyboard[0][0].URL)
	assert.Equal(t, btnCheckSub.Unique, markup.InlineKeyboard[1][0].Unique)
	assert.Equal(t, btnCheckSub.Text, markup.InlineKeyboard[1][0].Text)
}

func TestDownloadMenu_DeepLink(t *testing.T) {
	markup := downloadMenu("mychannel", 1000)

	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "https://t.me/mychannel/1000", markup.InlineKeyboard[0][0].URL)
}
