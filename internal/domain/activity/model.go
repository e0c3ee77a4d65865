package activity

import "time"

// Action text written by the two recording call sites.
const (
	ActionCreated    = "created ticket"
	ActionMovedTo    = "moved ticket to " // + destination status words
	FallbackTicket   = "Unknown Ticket"
	FallbackUserName = "Unknown User"
)

// FeedLimit caps the notification feed at the most recent entries.
const FeedLimit = 10

// Entry is an immutable audit record describing one ticket-affecting
// action. Entries are never updated or deleted.
type Entry struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedItem is an entry annotated for the notification panel.
type FeedItem struct {
	Entry
	UserName    string `json:"user_name"`
	TicketTitle string `json:"ticket_title"`
}
