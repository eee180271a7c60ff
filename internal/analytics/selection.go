package analytics

import (
	"fmt"
	"strings"
)

// Selection is the tab shown on the results screen.
type Selection int

const (
	SelectMessages Selection = iota
	SelectMedia
	SelectMentions
	SelectLinks
)

var Selections = []Selection{SelectMessages, SelectMedia, SelectMentions, SelectLinks}

func (s Selection) String() string {
	switch s {
	case SelectMessages:
		return "messages"
	case SelectMedia:
		return "media"
	case SelectMentions:
		return "mentions"
	case SelectLinks:
		return "links"
	default:
		return fmt.Sprintf("selection(%d)", int(s))
	}
}

// Label is the tab caption.
func (s Selection) Label() string {
	switch s {
	case SelectMessages:
		return "💬 Messages"
	case SelectMedia:
		return "📸 Media"
	case SelectMentions:
		return "@ Mentions"
	case SelectLinks:
		return "🔗 Links"
	default:
		return s.String()
	}
}

func (s Selection) Valid() bool {
	return s >= SelectMessages && s <= SelectLinks
}

func ParseSelection(name string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "messages", "message", "msgs":
		return SelectMessages, nil
	case "media":
		return SelectMedia, nil
	case "mentions", "mention":
		return SelectMentions, nil
	case "links", "link":
		return SelectLinks, nil
	}
	return SelectMessages, fmt.Errorf("unknown view %q (want messages, media, mentions or links)", name)
}
