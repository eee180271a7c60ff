package core

import (
	"errors"
	"fmt"
)

// Mentions splits mention counts by direction. The two sides are keyed
// independently and either may be empty.
type Mentions struct {
	Received Counts `json:"mentions_received"`
	Given    Counts `json:"mentions_given"`
}

// AnalyticsPayload is the aggregate returned by the analysis service for one
// transcript. It is treated as immutable once received.
type AnalyticsPayload struct {
	TotalMessages    int        `json:"total_messages"`
	TotalUsers       int        `json:"total_users"`
	MessagesPerUser  Counts     `json:"messages_per_user"`
	MediaStats       Counts     `json:"media_stats"`
	Mentions         Mentions   `json:"mentions"`
	SocialMediaLinks LinkCounts `json:"social_media_links"`
	Users            []string   `json:"users,omitempty"`
}

var ErrNegativeCount = errors.New("negative count")

// Validate checks that every count in the payload is non-negative. It does not
// cross-check totals against the per-user mappings.
func (p AnalyticsPayload) Validate() error {
	if p.TotalMessages < 0 {
		return fmt.Errorf("total_messages: %w", ErrNegativeCount)
	}
	if p.TotalUsers < 0 {
		return fmt.Errorf("total_users: %w", ErrNegativeCount)
	}
	checks := []struct {
		field  string
		counts Counts
	}{
		{"messages_per_user", p.MessagesPerUser},
		{"media_stats", p.MediaStats},
		{"mentions.mentions_received", p.Mentions.Received},
		{"mentions.mentions_given", p.Mentions.Given},
	}
	for _, c := range checks {
		if err := validateCounts(c.field, c.counts); err != nil {
			return err
		}
	}
	for _, u := range p.SocialMediaLinks {
		if err := validateCounts("social_media_links."+u.User, u.Platforms); err != nil {
			return err
		}
	}
	return nil
}

func validateCounts(field string, counts Counts) error {
	for _, c := range counts {
		if c.Value < 0 {
			return fmt.Errorf("%s[%q]: %w", field, c.Key, ErrNegativeCount)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can hand the payload out without
// sharing backing arrays.
func (p AnalyticsPayload) Clone() AnalyticsPayload {
	out := p
	out.MessagesPerUser = p.MessagesPerUser.Clone()
	out.MediaStats = p.MediaStats.Clone()
	out.Mentions = Mentions{
		Received: p.Mentions.Received.Clone(),
		Given:    p.Mentions.Given.Clone(),
	}
	out.SocialMediaLinks = p.SocialMediaLinks.Clone()
	if p.Users != nil {
		out.Users = append([]string(nil), p.Users...)
	}
	return out
}
