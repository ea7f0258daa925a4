package chat

import "testing"

func TestSplitFacts(t *testing.T) {
	tests := []struct {
		name         string
		reply        string
		wantReply    string
		wantUsername string
		wantFacts    string
		wantHasFact  bool
	}{
		{
			name:         "well-formed fact block",
			reply:        "Hello\nFACTS: alice | likes tea, works in finance",
			wantReply:    "Hello",
			wantUsername: "alice",
			wantFacts:    "likes tea, works in finance",
			wantHasFact:  true,
		},
		{
			name:      "no marker at all",
			reply:     "Just a normal reply",
			wantReply: "Just a normal reply",
		},
		{
			name:      "payload without pipe is discarded",
			reply:     "Hello\nFACTS: no pipe here",
			wantReply: "Hello",
		},
		{
			name:      "empty username discarded",
			reply:     "Hi\nFACTS:  | some facts",
			wantReply: "Hi",
		},
		{
			name:      "empty facts discarded",
			reply:     "Hi\nFACTS: bob | ",
			wantReply: "Hi",
		},
		{
			name:         "splits at first marker only",
			reply:        "See FACTS: bob | knows FACTS: syntax",
			wantReply:    "See",
			wantUsername: "bob",
			wantFacts:    "knows FACTS: syntax",
			wantHasFact:  true,
		},
		{
			name:         "marker with no visible reply",
			reply:        "FACTS: carol | plays chess",
			wantReply:    "",
			wantUsername: "carol",
			wantFacts:    "plays chess",
			wantHasFact:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitFacts(tt.reply)
			if got.Reply != tt.wantReply {
				t.Errorf("Reply = %q, want %q", got.Reply, tt.wantReply)
			}
			if got.HasFact != tt.wantHasFact {
				t.Errorf("HasFact = %v, want %v", got.HasFact, tt.wantHasFact)
			}
			if got.Username != tt.wantUsername {
				t.Errorf("Username = %q, want %q", got.Username, tt.wantUsername)
			}
			if got.Facts != tt.wantFacts {
				t.Errorf("Facts = %q, want %q", got.Facts, tt.wantFacts)
			}
		})
	}
}
