package events

import "time"

const ClientAdminInviteTopic = "vms.client-admin-invite.v1"

// ClientAdminInviteRequested asks the mail service consuming the topic
// to deliver an invitation. The core treats delivery as fire-and-forget.
type ClientAdminInviteRequested struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	InviteID   string    `json:"invite_id"`
	ClientID   int64     `json:"client_id"`
	Email      string    `json:"email"`
	AcceptURL  string    `json:"accept_url"`
	OccurredAt time.Time `json:"occurred_at"`
}
