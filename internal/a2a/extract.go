package a2a

// NoResponse is the sentinel answer when a reply holds no agent text.
const NoResponse = "(no response)"

// Extract normalizes a message/send result to plain text.
//
// The history is scanned from the most recent turn backwards and the first
// text part of the first agent turn wins; earlier agent turns are never
// consulted once a later one is matched. Without a match, artifacts are
// scanned in order and the first text part wins. Otherwise Extract returns
// NoResponse and false.
//
// A text part matches even when its text is empty, so an empty latest
// answer is returned as is rather than replaced by an older turn.
func Extract(result *SendMessageResult) (string, bool) {
	if result == nil {
		return NoResponse, false
	}

	for i := len(result.History) - 1; i >= 0; i-- {
		msg := result.History[i]
		if msg.Role != RoleAgent {
			continue
		}
		if text, ok := firstText(msg.Parts); ok {
			return text, true
		}
	}

	for _, art := range result.Artifacts {
		if text, ok := firstText(art.Parts); ok {
			return text, true
		}
	}

	return NoResponse, false
}

func firstText(parts []Part) (string, bool) {
	for _, p := range parts {
		if p.Kind == PartKindText {
			return p.Text, true
		}
	}
	return "", false
}
