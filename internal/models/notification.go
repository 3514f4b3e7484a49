package models

import "time"

// NotificationChannel identifies the delivery channel of a log entry.
type NotificationChannel string

// ChannelEmail is the only channel currently wired.
const ChannelEmail NotificationChannel = "EMAIL"

// NotificationRule is the per-allocation notification policy.
type NotificationRule struct {
	Enabled        bool        `json:"enabled"`
	Milestones     []Milestone `json:"milestones"`
	RecipientEmail string      `json:"recipient_email,omitempty"`
}

// Includes reports whether the milestone is in the rule's notify set.
func (r NotificationRule) Includes(m Milestone) bool {
	for _, milestone := range r.Milestones {
		if milestone == m {
			return true
		}
	}
	return false
}

// DefaultNotificationRule notifies on every milestone. The recipient is
// seeded from the client directory when the customer is known.
func DefaultNotificationRule(recipientEmail string) NotificationRule {
	milestones := make([]Milestone, len(AllMilestones))
	copy(milestones, AllMilestones)
	return NotificationRule{
		Enabled:        true,
		Milestones:     milestones,
		RecipientEmail: recipientEmail,
	}
}

// NotificationLogEntry records one delivery attempt. Entries are
// append-only and never mutated or removed.
type NotificationLogEntry struct {
	ID        string              `json:"id"`
	At        time.Time           `json:"at"`
	Milestone Milestone           `json:"milestone"`
	Channel   NotificationChannel `json:"channel"`
	Success   bool                `json:"success"`
	Detail    string              `json:"detail,omitempty"`
	Payload   string              `json:"payload,omitempty"`
}
