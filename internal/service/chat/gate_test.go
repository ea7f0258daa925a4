package chat

import (
	"testing"

	"github.com/sandevgo/banterbot/internal/core"
)

func TestShouldReply(t *testing.T) {
	tests := []struct {
		name string
		msg  core.Inbound
		want bool
	}{
		{
			name: "private chat always replies",
			msg:  core.Inbound{Text: "hi", IsPrivate: true},
			want: true,
		},
		{
			name: "group message with mention",
			msg:  core.Inbound{Text: "hey @banter_bot what's up"},
			want: true,
		},
		{
			name: "group reply to bot",
			msg:  core.Inbound{Text: "and then?", ReplyToBot: true},
			want: true,
		},
		{
			name: "group message without mention",
			msg:  core.Inbound{Text: "just chatting"},
			want: false,
		},
		{
			name: "mention of someone else",
			msg:  core.Inbound{Text: "hey @other_bot hi"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldReply(tt.msg, "banter_bot"); got != tt.want {
				t.Errorf("ShouldReply(%q) = %v, want %v", tt.msg.Text, got, tt.want)
			}
		})
	}
}

func TestStripMention(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"mention at start", "@banter_bot hello", "hello"},
		{"mention in middle", "hey @banter_bot hello", "hey  hello"},
		{"no mention", "hello", "hello"},
		{"only mention", "@banter_bot", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMention(tt.input, "banter_bot"); got != tt.want {
				t.Errorf("StripMention(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
