package analytics

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/chatwrapped/internal/core"
)

const (
	EmptyMessages = "No messages found"
	EmptyMedia    = "No media messages found"
	EmptyMentions = "No mentions found"
	EmptyGiven    = "No mentions given"
	EmptyLinks    = "No social media links found"
)

// Entry is one positional row of a ranking.
type Entry struct {
	Name  string
	Value int
	// Caption is the display text for Value, e.g. "80 messages".
	Caption string
}

// Ranking is a titled list of entries in payload order.
type Ranking struct {
	Heading string
	Entries []Entry
	Empty   bool
	// EmptyMessage is set when Empty is true.
	EmptyMessage string
}

type LinkGroup struct {
	User      string
	Platforms []Entry
}

// ViewData is the display-ready projection of one tab.
type ViewData struct {
	Selection Selection
	Title     string

	// Empty marks the whole view as having nothing to show; nothing but
	// EmptyMessage should be rendered.
	Empty        bool
	EmptyMessage string

	// Primary is the ranking of the messages, media and mentions views.
	Primary Ranking
	// Secondary is the mentions-given ranking. It is only set when the
	// mentions view has received mentions.
	Secondary *Ranking

	Links []LinkGroup
}

// Project derives the view for sel from p. It never modifies p.
func Project(p core.AnalyticsPayload, sel Selection) ViewData {
	switch sel {
	case SelectMedia:
		return projectMedia(p)
	case SelectMentions:
		return projectMentions(p)
	case SelectLinks:
		return projectLinks(p)
	default:
		return projectMessages(p)
	}
}

func projectMessages(p core.AnalyticsPayload) ViewData {
	v := ViewData{
		Selection: SelectMessages,
		Title:     "Messages Per User",
		Primary:   ranking("🏆 Message Ranking", p.MessagesPerUser, "messages"),
	}
	if v.Primary.Empty {
		v.Empty, v.EmptyMessage = true, EmptyMessages
	}
	return v
}

func projectMedia(p core.AnalyticsPayload) ViewData {
	v := ViewData{
		Selection: SelectMedia,
		Title:     "Media Messages Per User",
		Primary:   ranking("📸 Media Ranking", p.MediaStats, "media"),
	}
	if v.Primary.Empty {
		v.Empty, v.EmptyMessage = true, EmptyMedia
	}
	return v
}

// projectMentions hides the given ranking whenever nobody was mentioned, even
// if mentions_given has entries.
func projectMentions(p core.AnalyticsPayload) ViewData {
	v := ViewData{
		Selection: SelectMentions,
		Title:     "Mentions Received",
		Primary:   ranking("@ Most Mentioned", p.Mentions.Received, "mentions"),
	}
	if v.Primary.Empty {
		v.Empty, v.EmptyMessage = true, EmptyMentions
		return v
	}
	for i := range v.Primary.Entries {
		v.Primary.Entries[i].Name = "@" + v.Primary.Entries[i].Name
	}
	given := ranking("👤 Most Active Mention Makers", p.Mentions.Given, "mentions")
	if given.Empty {
		given.EmptyMessage = EmptyGiven
	}
	v.Secondary = &given
	return v
}

func projectLinks(p core.AnalyticsPayload) ViewData {
	v := ViewData{
		Selection: SelectLinks,
		Title:     "Social Media Links Shared",
	}
	if p.SocialMediaLinks.Len() == 0 {
		v.Empty, v.EmptyMessage = true, EmptyLinks
		return v
	}
	v.Links = lo.Map(p.SocialMediaLinks, func(u core.UserLinks, _ int) LinkGroup {
		return LinkGroup{
			User: u.User,
			Platforms: lo.Map(u.Platforms, func(c core.Count, _ int) Entry {
				return Entry{Name: c.Key, Value: c.Value, Caption: fmt.Sprintf("%d", c.Value)}
			}),
		}
	})
	return v
}

func ranking(heading string, counts core.Counts, unit string) Ranking {
	r := Ranking{Heading: heading}
	if counts.Len() == 0 {
		r.Empty = true
		return r
	}
	r.Entries = lo.Map(counts, func(c core.Count, _ int) Entry {
		return Entry{Name: c.Key, Value: c.Value, Caption: fmt.Sprintf("%d %s", c.Value, unit)}
	})
	return r
}
