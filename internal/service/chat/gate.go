package chat

import (
	"strings"

	"github.com/sandevgo/banterbot/internal/core"
)

// ShouldReply decides whether a message warrants a response: a mention of
// the bot's handle, a direct reply to the bot, or a private chat. Anything
// else is observed silently.
func ShouldReply(msg core.Inbound, botHandle string) bool {
	if msg.IsPrivate {
		return true
	}
	if msg.ReplyToBot {
		return true
	}
	return botHandle != "" && strings.Contains(msg.Text, "@"+botHandle)
}

// StripMention removes the bot's mention token from the text.
func StripMention(text, botHandle string) string {
	if botHandle == "" {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(strings.ReplaceAll(text, "@"+botHandle, ""))
}
