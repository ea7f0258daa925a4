package chat

import "strings"

const factsMarker = "FACTS:"

// Extraction is the result of splitting a model reply into its user-visible
// part and an optional trailing fact annotation.
type Extraction struct {
	Reply    string
	Username string
	Facts    string
	HasFact  bool
}

// SplitFacts separates the reply at the first FACTS: marker. The fact
// payload is split once on the first '|' into username and facts; a payload
// without '|' is discarded silently. The parse is best-effort and never
// suppresses the user-visible reply.
func SplitFacts(reply string) Extraction {
	idx := strings.Index(reply, factsMarker)
	if idx < 0 {
		return Extraction{Reply: reply}
	}

	visible := strings.TrimSpace(reply[:idx])
	payload := reply[idx+len(factsMarker):]

	username, facts, found := strings.Cut(payload, "|")
	if !found {
		return Extraction{Reply: visible}
	}

	username = strings.TrimSpace(username)
	facts = strings.TrimSpace(facts)
	if username == "" || facts == "" {
		return Extraction{Reply: visible}
	}

	return Extraction{
		Reply:    visible,
		Username: username,
		Facts:    facts,
		HasFact:  true,
	}
}
